package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"darksky-forecast/darksky"
)

// TokenEnv is the environment variable holding the API token. It takes
// precedence over the token in the configuration file.
const TokenEnv = "DARKSKY_TOKEN"

// Config represents the application configuration
type Config struct {
	// API token and request options
	Token        string   `json:"token"`
	Units        string   `json:"units"`
	Language     string   `json:"language"`
	Exclude      []string `json:"exclude"`
	ExtendHourly bool     `json:"extendHourly"`

	// Requests per second allowed against the API
	RateLimit struct {
		Enabled bool    `json:"enabled"`
		RPS     float64 `json:"rps"`
		Burst   int     `json:"burst"`
	} `json:"rateLimit"`

	// SQLite file for forecast history, empty to disable
	Database string `json:"database"`

	// List of locations to monitor
	Locations []Location `json:"locations"`
}

// LoadConfig loads configuration from a JSON file, applying the token from
// the environment when set
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	config.Locations = nil
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}

	if token := os.Getenv(TokenEnv); token != "" {
		config.Token = token
	}

	return config, nil
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{
		Units:    string(darksky.UnitAuto),
		Database: "forecasts.db",
	}
	config.RateLimit.Enabled = true
	config.RateLimit.RPS = 1
	config.RateLimit.Burst = 5
	config.Locations = []Location{
		{Name: "London", Latitude: 51.5074, Longitude: -0.1278},
		{Name: "New York", Latitude: 40.7128, Longitude: -74.0060},
		{Name: "Tokyo", Latitude: 35.6762, Longitude: 139.6503},
	}
	return config
}

// Validate checks that the configuration can be used to make requests
func (c *Config) Validate() error {
	var errs []error

	if c.Token == "" {
		errs = append(errs, fmt.Errorf("no API token: set %q or %s", "token", TokenEnv))
	}
	if _, err := c.Options(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Locations) == 0 {
		errs = append(errs, errors.New("no locations configured"))
	}
	seen := make(map[string]bool, len(c.Locations))
	for _, loc := range c.Locations {
		if seen[loc.String()] {
			errs = append(errs, fmt.Errorf("duplicate location %q", loc))
		}
		seen[loc.String()] = true
		if !validCoordinates(loc.Latitude, loc.Longitude) {
			errs = append(errs, fmt.Errorf("location %q: %w", loc, darksky.ErrInvalidCoordinate))
		}
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		errs = append(errs, errors.New("rateLimit.rps must be positive"))
	}

	return errors.Join(errs...)
}

// Options builds the request options described by the configuration
func (c *Config) Options() (darksky.Options, error) {
	opts := darksky.Options{}

	if c.Units != "" {
		unit, err := darksky.ParseUnit(c.Units)
		if err != nil {
			return opts, err
		}
		opts = opts.Unit(unit)
	}
	if c.Language != "" {
		lang, err := darksky.ParseLanguage(c.Language)
		if err != nil {
			return opts, err
		}
		opts = opts.Language(lang)
	}
	if len(c.Exclude) > 0 {
		blocks := make([]darksky.Block, 0, len(c.Exclude))
		for _, name := range c.Exclude {
			block, err := darksky.ParseBlock(name)
			if err != nil {
				return opts, err
			}
			blocks = append(blocks, block)
		}
		opts = opts.Exclude(blocks...)
	}
	if c.ExtendHourly {
		opts = opts.ExtendHourly()
	}

	return opts, nil
}

func validCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
