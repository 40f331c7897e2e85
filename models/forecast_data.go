package models

import (
	"time"
)

// ForecastData is a forecast fetched for a named location by a provider
type ForecastData struct {
	Provider string    `json:"provider"`           // provider name
	Location string    `json:"location"`           // configured location name
	Forecast Forecast  `json:"forecast"`           // decoded API response
	APICalls *int      `json:"apiCalls,omitempty"` // API calls used today, when reported
	Updated  time.Time `json:"updated"`            // when this forecast was fetched
}
