package models

// Icon is a machine-readable summary of the weather, suitable for picking a
// symbol to display. New values may be added by the API at any time, so
// unknown icons decode without error and should be treated as a default.
type Icon string

const (
	IconClearDay          Icon = "clear-day"
	IconClearNight        Icon = "clear-night"
	IconCloudy            Icon = "cloudy"
	IconFog               Icon = "fog"
	IconHail              Icon = "hail" // not currently sent
	IconPartlyCloudyDay   Icon = "partly-cloudy-day"
	IconPartlyCloudyNight Icon = "partly-cloudy-night"
	IconRain              Icon = "rain"
	IconSleet             Icon = "sleet"
	IconSnow              Icon = "snow"
	IconThunderstorm      Icon = "thunderstorm" // not currently sent
	IconTornado           Icon = "tornado"      // not currently sent
	IconWind              Icon = "wind"
)

// Known reports whether the icon is one of the documented values.
func (i Icon) Known() bool {
	switch i {
	case IconClearDay, IconClearNight, IconCloudy, IconFog, IconHail,
		IconPartlyCloudyDay, IconPartlyCloudyNight, IconRain, IconSleet,
		IconSnow, IconThunderstorm, IconTornado, IconWind:
		return true
	}
	return false
}

// PrecipitationType is the kind of precipitation at a datapoint.
type PrecipitationType string

const (
	PrecipRain  PrecipitationType = "rain"
	PrecipSleet PrecipitationType = "sleet"
	PrecipSnow  PrecipitationType = "snow"
)

// Known reports whether the precipitation type is a documented value.
func (p PrecipitationType) Known() bool {
	return p == PrecipRain || p == PrecipSleet || p == PrecipSnow
}

// Severity of a weather alert.
type Severity string

const (
	// SeverityAdvisory means be aware of potentially severe weather.
	SeverityAdvisory Severity = "advisory"
	// SeverityWatch means prepare for potentially severe weather.
	SeverityWatch Severity = "watch"
	// SeverityWarning means take immediate action.
	SeverityWarning Severity = "warning"
)

// Rank orders severities from least (1) to most (3) urgent; unknown is 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityAdvisory:
		return 1
	case SeverityWatch:
		return 2
	case SeverityWarning:
		return 3
	}
	return 0
}
