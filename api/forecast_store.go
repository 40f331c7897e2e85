package api

import (
	"sort"
	"strings"
	"sync"
	"time"

	"darksky-forecast/models"
)

// ForecastStore keeps the newest forecast per location and provider.
// Provider names match case-insensitively; location names are exact.
type ForecastStore struct {
	byLocation map[string]map[string]models.ForecastData // location -> lowercased provider
	mutex      sync.RWMutex
}

// NewForecastStore creates an empty store
func NewForecastStore() *ForecastStore {
	return &ForecastStore{
		byLocation: make(map[string]map[string]models.ForecastData),
	}
}

func providerKey(provider string) string {
	return strings.ToLower(provider)
}

// UpdateForecast stores data unless a newer forecast from the same provider
// is already held, and reports whether it was stored
func (s *ForecastStore) UpdateForecast(data models.ForecastData) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	providers, ok := s.byLocation[data.Location]
	if !ok {
		providers = make(map[string]models.ForecastData)
		s.byLocation[data.Location] = providers
	}

	key := providerKey(data.Provider)
	if held, ok := providers[key]; ok && held.Updated.After(data.Updated) {
		return false
	}
	providers[key] = data
	return true
}

// GetForecastByLocation returns every provider's forecast for location,
// sorted by provider name
func (s *ForecastStore) GetForecastByLocation(location string) ([]models.ForecastData, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	providers, ok := s.byLocation[location]
	if !ok {
		return nil, false
	}

	forecasts := make([]models.ForecastData, 0, len(providers))
	for _, data := range providers {
		forecasts = append(forecasts, data)
	}
	sort.Slice(forecasts, func(i, j int) bool {
		return providerKey(forecasts[i].Provider) < providerKey(forecasts[j].Provider)
	})
	return forecasts, true
}

// GetForecastByProvider returns the forecast for location from provider
func (s *ForecastStore) GetForecastByProvider(location, provider string) (models.ForecastData, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	data, ok := s.byLocation[location][providerKey(provider)]
	return data, ok
}

// GetCurrently returns the most recently updated forecast for location that
// carries current conditions. An empty provider matches any provider.
func (s *ForecastStore) GetCurrently(location, provider string) (models.ForecastData, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var (
		best  models.ForecastData
		found bool
	)
	for key, data := range s.byLocation[location] {
		if provider != "" && key != providerKey(provider) {
			continue
		}
		if data.Forecast.Currently == nil {
			continue
		}
		if !found || data.Updated.After(best.Updated) {
			best, found = data, true
		}
	}
	return best, found
}

// GetAllForecastLocations returns the locations holding forecasts, sorted
func (s *ForecastStore) GetAllForecastLocations() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	locations := make([]string, 0, len(s.byLocation))
	for location := range s.byLocation {
		locations = append(locations, location)
	}
	sort.Strings(locations)
	return locations
}

// PruneOldForecasts drops forecasts fetched before now minus maxAge and
// returns how many were dropped
func (s *ForecastStore) PruneOldForecasts(now time.Time, maxAge time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := now.Add(-maxAge)
	pruned := 0
	for location, providers := range s.byLocation {
		for key, data := range providers {
			if data.Updated.Before(cutoff) {
				delete(providers, key)
				pruned++
			}
		}
		if len(providers) == 0 {
			delete(s.byLocation, location)
		}
	}
	return pruned
}
