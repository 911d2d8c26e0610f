package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const dataDirName = ".event-weather-advisor"

type AppConfig struct {
	Port     string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	BindAddr string `envconfig:"BIND_ADDR" default:"127.0.0.1" validate:"required"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`

	// Outbound calls. Retries default to zero: one attempt per external call.
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`
	FetchRetries int           `envconfig:"FETCH_RETRIES" default:"0" validate:"gte=0,lte=5"`
	Concurrency  int           `envconfig:"ENRICH_CONCURRENCY" default:"8" validate:"gte=1"`

	// Scheduler.
	RefreshInterval   time.Duration `envconfig:"REFRESH_INTERVAL" default:"15m" validate:"gte=1m"`
	CalendarLookahead time.Duration `envconfig:"CALENDAR_LOOKAHEAD" default:"168h" validate:"gt=0"`

	// Collaborators.
	CalendarToken   string `envconfig:"CALENDAR_TOKEN"`
	CalendarBaseURL string `envconfig:"CALENDAR_URL" default:"https://www.googleapis.com/calendar/v3" validate:"url"`
	GoogleGeoKey    string `envconfig:"GOOGLE_GEOCODER_API_KEY"`
	PhotonURL       string `envconfig:"PHOTON_URL" default:"https://photon.komoot.io/api/" validate:"url"`
	OpenMeteoURL    string `envconfig:"OPEN_METEO_URL" default:"https://api.open-meteo.com/v1/forecast" validate:"url"`
	WeatherAPIKey   string `envconfig:"WEATHERAPI_KEY"`
	WeatherAPIURL   string `envconfig:"WEATHERAPI_URL" default:"https://api.weatherapi.com/v1/forecast.json" validate:"url"`
	AirQualityURL   string `envconfig:"AIR_QUALITY_URL" default:"https://air-quality-api.open-meteo.com/v1/air-quality" validate:"omitempty,url"`
	Timezone        string `envconfig:"TIMEZONE" default:"auto"`

	// Local state.
	DataDir            string        `envconfig:"DATA_DIR"`
	PreferencesBackend string        `envconfig:"PREFERENCES_BACKEND" default:"sqlite" validate:"oneof=sqlite memory"`
	CacheMaxAge        time.Duration `envconfig:"FORECAST_CACHE_MAX_AGE" default:"1h" validate:"gte=0"`
	CacheMaxHistory    int           `envconfig:"FORECAST_CACHE_MAX_HISTORY" default:"48" validate:"gte=0"`
}

var validate = validator.New()

// Load reads configuration from the environment (and an optional .env file).
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine user home: %w", err)
		}
		cfg.DataDir = filepath.Join(home, dataDirName)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ListenAddr is the address the local API binds to.
func (c *AppConfig) ListenAddr() string {
	return c.BindAddr + ":" + c.Port
}

// PreferencesPath is the SQLite file holding onboarding state.
func (c *AppConfig) PreferencesPath() string {
	return filepath.Join(c.DataDir, "preferences.db")
}
