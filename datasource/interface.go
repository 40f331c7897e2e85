package datasource

import (
	"context"
	"fmt"

	"darksky-forecast/models"
)

// Location is a named point to fetch forecasts for
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String returns the location name, or its coordinates when unnamed
func (l Location) String() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("%g,%g", l.Latitude, l.Longitude)
}

// ForecastSource defines the interface for any forecast provider
type ForecastSource interface {
	// FetchForecast fetches the forecast for a location
	FetchForecast(ctx context.Context, location Location) (models.ForecastData, error)

	// Name returns the source's name
	Name() string
}
