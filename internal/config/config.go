package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	SourceBackend     = "backend"
	SourceOpenWeather = "openweather"
	SourceOpenMeteo   = "openmeteo"
)

type AppConfig struct {
	Port string `envconfig:"PORT" default:"8080"`

	Source SourceConfig

	// SinkURL receives every ingestion batch when set (best effort).
	SinkURL string `envconfig:"SINK_URL" validate:"omitempty,url"`

	// FetchInterval controls how often current observations are polled.
	FetchInterval time.Duration `envconfig:"FETCH_INTERVAL" default:"5m" validate:"gt=0"`
	// ForecastInterval controls forecast polling; 0 fetches once at start.
	ForecastInterval time.Duration `envconfig:"FORECAST_INTERVAL" default:"0s" validate:"gte=0"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`

	AlertThreshold float64 `envconfig:"ALERT_THRESHOLD" default:"35"`
	SimulationDays int     `envconfig:"SIMULATION_DAYS" default:"5" validate:"gte=0"`
	DefaultUnit    string  `envconfig:"TEMPERATURE_UNIT" default:"C" validate:"oneof=C K"`

	// PreferencesDB is the sqlite file holding persisted preferences.
	PreferencesDB string `envconfig:"PREFERENCES_DB" default:"preferences.db" validate:"required"`
}

type SourceConfig struct {
	Kind              string `envconfig:"SOURCE_KIND" default:"backend" validate:"oneof=backend openweather openmeteo"`
	BaseURL           string `envconfig:"SOURCE_BASE_URL" default:"http://localhost:5000/api" validate:"required_if=Kind backend,omitempty,url"`
	OpenWeatherAPIKey string `envconfig:"OPENWEATHER_API_KEY" validate:"required_if=Kind openweather"`
}

// Load reads configuration from the environment (and a .env file when
// present) with sensible defaults, then validates it.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
