package models

import (
	"time"
)

// Forecast is the full response of a forecast or time machine request.
// Everything other than the coordinates and timezone may be excluded by the
// request options or omitted by the API for the location.
type Forecast struct {
	Latitude  float64    `json:"latitude"`            // requested latitude
	Longitude float64    `json:"longitude"`           // requested longitude
	Timezone  string     `json:"timezone"`            // IANA timezone name
	Offset    *float64   `json:"offset,omitempty"`    // hours from UTC
	Currently *Datapoint `json:"currently,omitempty"` // current conditions
	Minutely  *Datablock `json:"minutely,omitempty"`  // minute-by-minute for the next hour
	Hourly    *Datablock `json:"hourly,omitempty"`    // hour-by-hour for the next two (or seven) days
	Daily     *Datablock `json:"daily,omitempty"`     // day-by-day for the next week
	Flags     *Flags     `json:"flags,omitempty"`     // request metadata
	Alerts    []Alert    `json:"alerts,omitempty"`    // severe weather alerts
}

// Flags holds miscellaneous metadata about a forecast request.
type Flags struct {
	DarkskyStations    []string `json:"darksky-stations,omitempty"`
	DarkskyUnavailable *string  `json:"darksky-unavailable,omitempty"`
	DatapointStations  []string `json:"datapoint-stations,omitempty"`
	ISDStations        []string `json:"isd-stations,omitempty"`
	LAMPStations       []string `json:"lamp-stations,omitempty"`
	METARStations      []string `json:"metar-stations,omitempty"`
	METNOLicense       *string  `json:"metno-license,omitempty"`
	Sources            []string `json:"sources,omitempty"`
	Units              *string  `json:"units,omitempty"`
	NearestStation     *float64 `json:"nearest-station,omitempty"`
}

// Alert is a severe weather warning issued for the requested location.
type Alert struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URI         string   `json:"uri"`
	Regions     []string `json:"regions"`
	Severity    Severity `json:"severity"`
	Time        int64    `json:"time"`    // unix time the alert was issued
	Expires     int64    `json:"expires"` // unix time the alert expires
}

// IssuedAt returns the time the alert was issued.
func (a Alert) IssuedAt() time.Time {
	return time.Unix(a.Time, 0)
}

// ExpiresAt returns the time the alert expires.
func (a Alert) ExpiresAt() time.Time {
	return time.Unix(a.Expires, 0)
}

// Active reports whether the alert has not yet expired at t.
func (a Alert) Active(t time.Time) bool {
	return t.Before(a.ExpiresAt())
}

// Location returns the forecast's timezone as a *time.Location. When the
// timezone name is unknown to the local tz database, a fixed zone built from
// Offset is returned instead, falling back to UTC.
func (f *Forecast) Location() *time.Location {
	if loc, err := time.LoadLocation(f.Timezone); err == nil && f.Timezone != "" {
		return loc
	}
	if f.Offset != nil {
		return time.FixedZone(f.Timezone, int(*f.Offset*3600))
	}
	return time.UTC
}

// Block returns the datablock for the given block name ("minutely",
// "hourly" or "daily"), or nil when the block is absent or unknown.
func (f *Forecast) Block(name string) *Datablock {
	switch name {
	case "minutely":
		return f.Minutely
	case "hourly":
		return f.Hourly
	case "daily":
		return f.Daily
	}
	return nil
}

// HasAlerts reports whether any alerts were returned.
func (f *Forecast) HasAlerts() bool {
	return len(f.Alerts) > 0
}

// ActiveAlerts returns the alerts that have not expired at t.
func (f *Forecast) ActiveAlerts(t time.Time) []Alert {
	active := make([]Alert, 0, len(f.Alerts))
	for _, a := range f.Alerts {
		if a.Active(t) {
			active = append(active, a)
		}
	}
	return active
}

// Today returns the first daily datapoint, if any.
func (f *Forecast) Today() (Datapoint, bool) {
	if f.Daily == nil {
		return Datapoint{}, false
	}
	return f.Daily.First()
}
