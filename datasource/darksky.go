package datasource

import (
	"context"
	"fmt"
	"time"

	"darksky-forecast/darksky"
	"darksky-forecast/models"
)

// DarkSkySource implements ForecastSource on top of the Dark Sky API
type DarkSkySource struct {
	fetcher darksky.ForecastFetcher
	options darksky.Options
}

// NewDarkSkySource creates a new Dark Sky forecast source. fetcher is a
// *darksky.Client, optionally wrapped in a rate limiter.
func NewDarkSkySource(fetcher darksky.ForecastFetcher, options darksky.Options) *DarkSkySource {
	return &DarkSkySource{
		fetcher: fetcher,
		options: options,
	}
}

// Name returns the provider name
func (s *DarkSkySource) Name() string {
	return "DarkSky"
}

// FetchForecast fetches the forecast for a location
func (s *DarkSkySource) FetchForecast(ctx context.Context, location Location) (models.ForecastData, error) {
	resp, err := s.fetcher.Fetch(ctx, darksky.Request{
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
		Options:   s.options,
	})
	if err != nil {
		return models.ForecastData{}, fmt.Errorf("failed to fetch forecast for %s: %w", location, err)
	}

	return models.ForecastData{
		Provider: s.Name(),
		Location: location.String(),
		Forecast: resp.Forecast,
		APICalls: resp.APICalls,
		Updated:  time.Now(),
	}, nil
}

// Ensure DarkSkySource implements ForecastSource
var _ ForecastSource = (*DarkSkySource)(nil)
