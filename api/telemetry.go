package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/microsoft/ApplicationInsights-Go/appinsights"
)

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{w, http.StatusOK}
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// NewTelemetryClient creates an Application Insights client for the given
// instrumentation key
func NewTelemetryClient(instrumentationKey, role string) appinsights.TelemetryClient {
	config := appinsights.NewTelemetryConfiguration(instrumentationKey)
	config.MaxBatchSize = 8192
	config.MaxBatchInterval = 2 * time.Second

	client := appinsights.NewTelemetryClientFromConfig(config)
	client.Context().Tags.Cloud().SetRole(role)
	return client
}

// traceHTTPFunc tracks a request telemetry item for every call of fn.
// Requests pass through untouched while telemetry is disabled.
func traceHTTPFunc(s *Server, name string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := s.telemetry
		if client == nil {
			fn(w, r)
			return
		}

		scheme := "https"
		if r.TLS == nil {
			scheme = "http"
		}
		telemetry := appinsights.NewRequestTelemetry(r.Method, fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.Path), 0, "200")
		startTime := time.Now().UTC()

		recorder := newStatusRecorder(w)
		fn(recorder, r)

		telemetry.Duration = time.Since(startTime)
		telemetry.ResponseCode = fmt.Sprintf("%d", recorder.statusCode)
		telemetry.Success = recorder.statusCode < http.StatusInternalServerError
		telemetry.Name = name

		client.Track(telemetry)
	}
}

// trackFetchEvent records an on-demand forecast fetch
func (s *Server) trackFetchEvent(location, provider string, err error) {
	if s.telemetry == nil {
		return
	}
	e := appinsights.NewEventTelemetry("on-demand-fetch")
	e.Properties["location"] = location
	e.Properties["provider"] = provider
	e.Properties["success"] = fmt.Sprintf("%t", err == nil)
	s.telemetry.Track(e)
}
