package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"darksky-forecast/datasource"
	"darksky-forecast/models"
	"darksky-forecast/storage"

	"github.com/microsoft/ApplicationInsights-Go/appinsights"
	"go.uber.org/zap"
)

// Server represents the API server
type Server struct {
	forecastStore *ForecastStore
	history       storage.Store
	historyMaxAge time.Duration
	sources       []datasource.ForecastSource
	locations     map[string]datasource.Location
	mux           *http.ServeMux
	server        *http.Server
	telemetry     appinsights.TelemetryClient
	logger        *zap.SugaredLogger
}

// NewServer creates a new API server
func NewServer(forecastStore *ForecastStore, port int, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	mux := http.NewServeMux()
	server := &Server{
		forecastStore: forecastStore,
		locations:     make(map[string]datasource.Location),
		mux:           mux,
		logger:        logger,
	}
	server.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Register handlers for forecasts
	server.handle("GET /api/forecast/locations", server.handleGetAllLocations)
	server.handle("GET /api/forecast/location/{name}", server.handleGetForecastByLocation)
	server.handle("GET /api/forecast/location/{name}/provider/{provider}", server.handleGetForecastByProvider)
	server.handle("GET /api/forecast/location/{name}/currently", server.handleGetCurrently)
	server.handle("GET /api/forecast/location/{name}/history", server.handleGetHistory)

	// Health check
	server.handle("GET /api/health", server.handleHealthCheck)

	return server
}

// RegisterForecastSources adds forecast sources used for on-demand fetches
// of configured locations
func (s *Server) RegisterForecastSources(sources []datasource.ForecastSource, locations []datasource.Location) {
	s.sources = sources
	for _, loc := range locations {
		s.locations[loc.String()] = loc
	}
}

// SetHistory enables the history endpoint. Stored forecasts younger than
// maxAge are served before falling back to an on-demand fetch.
func (s *Server) SetHistory(history storage.Store, maxAge time.Duration) {
	s.history = history
	s.historyMaxAge = maxAge
}

// EnableTelemetry reports every request to Application Insights
func (s *Server) EnableTelemetry(client appinsights.TelemetryClient) {
	s.telemetry = client
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins the API server
func (s *Server) Start() error {
	s.logger.Infof("Starting API server on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops the API server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handle(pattern string, handler http.HandlerFunc) {
	s.mux.HandleFunc(pattern, traceHTTPFunc(s, pattern, handler))
}

// handleGetAllLocations returns a list of all locations with forecast data
func (s *Server) handleGetAllLocations(w http.ResponseWriter, r *http.Request) {
	locations := s.forecastStore.GetAllForecastLocations()

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"locations": locations,
		"count":     len(locations),
	})
}

// handleGetForecastByLocation returns every provider's forecast for a location
func (s *Server) handleGetForecastByLocation(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("name")

	forecasts, exists := s.forecastStore.GetForecastByLocation(location)
	if exists {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"location":  location,
			"forecasts": forecasts,
			"timestamp": time.Now(),
		})
		return
	}

	loc, known := s.locations[location]
	if !known || len(s.sources) == 0 {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("No forecast data found for location: %s", location))
		return
	}

	// Nothing collected yet, ask every source
	forecasts = make([]models.ForecastData, 0, len(s.sources))
	fetched := false
	var lastErr error
	for _, source := range s.sources {
		forecast, fromHistory, err := s.loadOrFetch(r.Context(), source, loc)
		if err != nil {
			lastErr = err
			continue
		}
		fetched = fetched || !fromHistory
		forecasts = append(forecasts, forecast)
	}
	if len(forecasts) == 0 {
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("Failed to fetch forecast: %v", lastErr))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"location":  location,
		"forecasts": forecasts,
		"timestamp": time.Now(),
		"note":      fallbackNote(!fetched),
	})
}

// handleGetForecastByProvider returns one provider's forecast for a
// location, fetching it on demand when it has not been collected yet
func (s *Server) handleGetForecastByProvider(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("name")
	provider := r.PathValue("provider")
	source := s.findSource(provider)
	if source != nil {
		provider = source.Name()
	}

	if forecast, exists := s.forecastStore.GetForecastByProvider(location, provider); exists {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"location":  location,
			"provider":  provider,
			"data":      forecast,
			"timestamp": time.Now(),
		})
		return
	}

	loc, known := s.locations[location]
	if !known || source == nil {
		s.writeError(w, http.StatusNotFound,
			fmt.Sprintf("No forecast data found for location '%s' from provider '%s'", location, provider))
		return
	}

	forecast, fromHistory, err := s.loadOrFetch(r.Context(), source, loc)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("Failed to fetch forecast: %v", err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"location":  location,
		"provider":  source.Name(),
		"data":      forecast,
		"timestamp": time.Now(),
		"note":      fallbackNote(fromHistory),
	})
}

// handleGetCurrently returns only the current conditions of a location
func (s *Server) handleGetCurrently(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("name")
	provider := r.URL.Query().Get("provider")

	data, exists := s.forecastStore.GetCurrently(location, provider)
	if !exists {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("No current conditions for location: %s", location))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"location":  location,
		"provider":  data.Provider,
		"currently": data.Forecast.Currently,
		"timezone":  data.Forecast.Timezone,
		"alerts":    data.Forecast.ActiveAlerts(time.Now()),
		"updated":   data.Updated,
	})
}

// handleGetHistory returns the stored forecasts of a location, newest first
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "Forecast history is disabled")
		return
	}

	location := r.PathValue("name")
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid limit: %q", limitStr))
			return
		}
		limit = min(l, 500)
	}

	records, err := s.history.ListForecasts(location, limit)
	if err != nil {
		s.logger.Errorw("history query failed", "location", location, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to read forecast history")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"location": location,
		"records":  records,
		"count":    len(records),
	})
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// loadOrFetch serves a recent forecast from history, or fetches one outside
// the collection cycle. Either way the result is kept in the store.
func (s *Server) loadOrFetch(ctx context.Context, source datasource.ForecastSource, loc datasource.Location) (models.ForecastData, bool, error) {
	if forecast, ok := s.recentFromHistory(loc.String(), source.Name()); ok {
		s.forecastStore.UpdateForecast(forecast)
		return forecast, true, nil
	}

	forecast, err := source.FetchForecast(ctx, loc)
	s.trackFetchEvent(loc.String(), source.Name(), err)
	if err != nil {
		s.logger.Warnw("on-demand fetch failed", "location", loc.String(), "provider", source.Name(), "error", err)
		return models.ForecastData{}, false, err
	}

	// Store the forecast for future use
	s.forecastStore.UpdateForecast(forecast)
	s.saveHistory(forecast)
	return forecast, false, nil
}

// recentFromHistory returns the latest stored forecast when it is younger
// than historyMaxAge
func (s *Server) recentFromHistory(location, provider string) (models.ForecastData, bool) {
	if s.history == nil || s.historyMaxAge <= 0 {
		return models.ForecastData{}, false
	}
	forecast, ok, err := s.history.LatestForecast(location, provider)
	if err != nil {
		s.logger.Warnw("history lookup failed", "location", location, "provider", provider, "error", err)
		return models.ForecastData{}, false
	}
	if !ok || time.Since(forecast.Updated) > s.historyMaxAge {
		return models.ForecastData{}, false
	}
	return forecast, true
}

func fallbackNote(fromHistory bool) string {
	if fromHistory {
		return "Served from forecast history"
	}
	return "On-demand forecast fetch"
}

func (s *Server) findSource(name string) datasource.ForecastSource {
	for _, source := range s.sources {
		if strings.EqualFold(source.Name(), name) {
			return source
		}
	}
	return nil
}

// saveHistory records a forecast when history is enabled
func (s *Server) saveHistory(data models.ForecastData) {
	if s.history == nil {
		return
	}
	if _, err := s.history.SaveForecast(data); err != nil {
		s.logger.Warnw("failed to save forecast history", "location", data.Location, "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Errorw("failed to encode response", "status", status, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
