package models

import (
	"encoding/json"
	"fmt"
)

// MissingFieldError is returned when a payload lacks a key the API always
// sends, which means the body is not a forecast at all.
type MissingFieldError struct {
	Type  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Type, e.Field)
}

// UnmarshalJSON decodes a forecast, rejecting payloads without coordinates
// or timezone.
func (f *Forecast) UnmarshalJSON(data []byte) error {
	type plain Forecast
	aux := struct {
		*plain
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Timezone  *string  `json:"timezone"`
	}{plain: (*plain)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch {
	case aux.Latitude == nil:
		return &MissingFieldError{Type: "forecast", Field: "latitude"}
	case aux.Longitude == nil:
		return &MissingFieldError{Type: "forecast", Field: "longitude"}
	case aux.Timezone == nil:
		return &MissingFieldError{Type: "forecast", Field: "timezone"}
	}
	f.Latitude = *aux.Latitude
	f.Longitude = *aux.Longitude
	f.Timezone = *aux.Timezone
	return nil
}

// UnmarshalJSON decodes a datapoint, rejecting one without a time.
func (d *Datapoint) UnmarshalJSON(data []byte) error {
	type plain Datapoint
	aux := struct {
		*plain
		Time *int64 `json:"time"`
	}{plain: (*plain)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Time == nil {
		return &MissingFieldError{Type: "datapoint", Field: "time"}
	}
	d.Time = *aux.Time
	return nil
}

var alertFields = []string{"title", "description", "uri", "regions", "severity", "time", "expires"}

// UnmarshalJSON decodes an alert. Every alert key is required; regions may
// be null.
func (a *Alert) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	for _, field := range alertFields {
		if _, ok := keys[field]; !ok {
			return &MissingFieldError{Type: "alert", Field: field}
		}
	}

	type plain Alert
	return json.Unmarshal(data, (*plain)(a))
}
