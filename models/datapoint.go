package models

import (
	"time"
)

// Datablock is a collection of datapoints at a single granularity.
type Datablock struct {
	Summary *string     `json:"summary,omitempty"` // human-readable summary of the block
	Icon    *Icon       `json:"icon,omitempty"`    // machine-readable summary of the block
	Data    []Datapoint `json:"data,omitempty"`    // datapoints ordered by time
}

// Len returns the number of datapoints in the block.
func (b *Datablock) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Data)
}

// First returns the earliest datapoint of the block.
func (b *Datablock) First() (Datapoint, bool) {
	if b.Len() == 0 {
		return Datapoint{}, false
	}
	return b.Data[0], true
}

// Datapoint is a single time-stamped set of conditions. Time is the only
// field the API always sends; everything else depends on the block, the
// region and the data sources available for it.
//
// The *Error fields are standard deviations of the matching value and are
// only present when the confidence is known.
type Datapoint struct {
	Time int64 `json:"time"` // unix time the datapoint begins

	Summary     *string            `json:"summary,omitempty"`
	Icon        *Icon              `json:"icon,omitempty"`
	PrecipType  *PrecipitationType `json:"precipType,omitempty"`
	SunriseTime *int64             `json:"sunriseTime,omitempty"` // daily only
	SunsetTime  *int64             `json:"sunsetTime,omitempty"`  // daily only
	MoonPhase   *float64           `json:"moonPhase,omitempty"`   // daily only, 0 new .. 0.5 full

	NearestStormBearing  *float64 `json:"nearestStormBearing,omitempty"`  // currently only
	NearestStormDistance *float64 `json:"nearestStormDistance,omitempty"` // currently only

	PrecipIntensity         *float64 `json:"precipIntensity,omitempty"`
	PrecipIntensityError    *float64 `json:"precipIntensityError,omitempty"`
	PrecipIntensityMax      *float64 `json:"precipIntensityMax,omitempty"`
	PrecipIntensityMaxError *float64 `json:"precipIntensityMaxError,omitempty"`
	PrecipIntensityMaxTime  *int64   `json:"precipIntensityMaxTime,omitempty"`
	PrecipProbability       *float64 `json:"precipProbability,omitempty"`
	PrecipProbabilityError  *float64 `json:"precipProbabilityError,omitempty"`
	PrecipAccumulation      *float64 `json:"precipAccumulation,omitempty"`
	PrecipAccumulationError *float64 `json:"precipAccumulationError,omitempty"`

	Temperature         *float64 `json:"temperature,omitempty"`
	TemperatureError    *float64 `json:"temperatureError,omitempty"`
	TemperatureHigh     *float64 `json:"temperatureHigh,omitempty"`
	TemperatureHighTime *int64   `json:"temperatureHighTime,omitempty"`
	TemperatureLow      *float64 `json:"temperatureLow,omitempty"`
	TemperatureLowTime  *int64   `json:"temperatureLowTime,omitempty"`
	TemperatureMax      *float64 `json:"temperatureMax,omitempty"`
	TemperatureMaxError *float64 `json:"temperatureMaxError,omitempty"`
	TemperatureMaxTime  *int64   `json:"temperatureMaxTime,omitempty"`
	TemperatureMin      *float64 `json:"temperatureMin,omitempty"`
	TemperatureMinError *float64 `json:"temperatureMinError,omitempty"`
	TemperatureMinTime  *int64   `json:"temperatureMinTime,omitempty"`
	ApparentTemperature *float64 `json:"apparentTemperature,omitempty"`
	ApparentTempMax     *float64 `json:"apparentTemperatureMax,omitempty"`
	ApparentTempMaxTime *int64   `json:"apparentTemperatureMaxTime,omitempty"`
	ApparentTempMin     *float64 `json:"apparentTemperatureMin,omitempty"`
	ApparentTempMinTime *int64   `json:"apparentTemperatureMinTime,omitempty"`
	DewPoint            *float64 `json:"dewPoint,omitempty"`
	DewPointError       *float64 `json:"dewPointError,omitempty"`
	Humidity            *float64 `json:"humidity,omitempty"` // 0..1
	HumidityError       *float64 `json:"humidityError,omitempty"`
	Pressure            *float64 `json:"pressure,omitempty"` // sea-level, millibars
	PressureError       *float64 `json:"pressureError,omitempty"`
	WindSpeed           *float64 `json:"windSpeed,omitempty"`
	WindSpeedError      *float64 `json:"windSpeedError,omitempty"`
	WindGust            *float64 `json:"windGust,omitempty"`
	WindGustTime        *int64   `json:"windGustTime,omitempty"`
	WindBearing         *float64 `json:"windBearing,omitempty"` // degrees from true north, absent when calm
	WindBearingError    *float64 `json:"windBearingError,omitempty"`
	CloudCover          *float64 `json:"cloudCover,omitempty"` // 0..1
	CloudCoverError     *float64 `json:"cloudCoverError,omitempty"`
	UVIndex             *int64   `json:"uvIndex,omitempty"`
	UVIndexTime         *int64   `json:"uvIndexTime,omitempty"`
	Visibility          *float64 `json:"visibility,omitempty"` // capped at 10 miles
	VisibilityError     *float64 `json:"visibilityError,omitempty"`
	Ozone               *float64 `json:"ozone,omitempty"` // Dobson units
	OzoneError          *float64 `json:"ozoneError,omitempty"`
}

// At returns the datapoint's start time.
func (d Datapoint) At() time.Time {
	return time.Unix(d.Time, 0)
}

// In returns the datapoint's start time in loc.
func (d Datapoint) In(loc *time.Location) time.Time {
	return d.At().In(loc)
}

// HighLow returns the daytime high and overnight low temperatures. Older
// payloads only carry temperatureMax/temperatureMin, which are used when the
// high/low pair is absent.
func (d Datapoint) HighLow() (high, low float64, ok bool) {
	h := d.TemperatureHigh
	if h == nil {
		h = d.TemperatureMax
	}
	l := d.TemperatureLow
	if l == nil {
		l = d.TemperatureMin
	}
	if h == nil || l == nil {
		return 0, 0, false
	}
	return *h, *l, true
}

// Sun returns sunrise and sunset for a daily datapoint.
func (d Datapoint) Sun() (sunrise, sunset time.Time, ok bool) {
	if d.SunriseTime == nil || d.SunsetTime == nil {
		return time.Time{}, time.Time{}, false
	}
	return time.Unix(*d.SunriseTime, 0), time.Unix(*d.SunsetTime, 0), true
}

// Precipitating reports whether precipitation is expected at the datapoint.
func (d Datapoint) Precipitating() bool {
	return ValueOr(d.PrecipIntensity, 0) > 0 && d.PrecipType != nil
}
