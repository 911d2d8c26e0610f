package main

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/i474232898/event-weather-advisor/internal/calendar"
	"github.com/i474232898/event-weather-advisor/internal/config"
	"github.com/i474232898/event-weather-advisor/internal/enrich"
	"github.com/i474232898/event-weather-advisor/internal/geocode"
	"github.com/i474232898/event-weather-advisor/internal/logger"
	"github.com/i474232898/event-weather-advisor/internal/onboarding"
	"github.com/i474232898/event-weather-advisor/internal/store"
	"github.com/i474232898/event-weather-advisor/internal/weather"
	"github.com/i474232898/event-weather-advisor/internal/weather/providers"
)

const serviceName = "event-weather-advisor"

// app bundles the wired components shared by every subcommand.
type app struct {
	cfg    *config.AppConfig
	log    zerolog.Logger
	prefs  *onboarding.Store
	runner *enrich.Runner
	source calendar.Source
	close  func() error
}

// newPreferenceStore opens only what the prefs subcommands need.
func newPreferenceStore(cfg *config.AppConfig, log zerolog.Logger) (*onboarding.Store, func() error, error) {
	if cfg.PreferencesBackend == "memory" {
		return onboarding.NewStore(store.NewMemoryBlobStore(), log), func() error { return nil }, nil
	}
	blobs, err := store.OpenSQLite(cfg.PreferencesPath())
	if err != nil {
		return nil, nil, errors.Wrap(err, "open preferences database")
	}
	return onboarding.NewStore(blobs, log), blobs.Close, nil
}

func loadConfig() (*config.AppConfig, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), errors.Wrap(err, "load config")
	}
	return cfg, logger.New(serviceName, cfg.LogLevel), nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	prefs, closePrefs, err := newPreferenceStore(cfg, log)
	if err != nil {
		return nil, err
	}

	loc, err := location(cfg.Timezone)
	if err != nil {
		_ = closePrefs()
		return nil, err
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	forecasters := []weather.NamedForecaster{{
		Name: "openmeteo",
		Forecaster: providers.NewOpenMeteo(providers.OpenMeteoConfig{
			ForecastURL:   cfg.OpenMeteoURL,
			AirQualityURL: cfg.AirQualityURL,
			Timezone:      cfg.Timezone,
			Client:        httpClient,
			Retries:       cfg.FetchRetries,
			UserAgent:     serviceName,
		}, log),
	}}
	if cfg.WeatherAPIKey != "" {
		forecasters = append(forecasters, weather.NamedForecaster{
			Name: "weatherapi",
			Forecaster: providers.NewWeatherAPI(providers.WeatherAPIConfig{
				BaseURL:   cfg.WeatherAPIURL,
				APIKey:    cfg.WeatherAPIKey,
				Client:    httpClient,
				Retries:   cfg.FetchRetries,
				UserAgent: serviceName,
			}, log),
		})
	}
	cache := store.NewMemoryStore(cfg.CacheMaxHistory, cfg.CacheMaxAge)
	service := weather.NewService(cache, weather.NewChain(log, forecasters...), log)

	geocoders := []geocode.Geocoder{geocode.NewPhoton(cfg.PhotonURL, httpClient, cfg.FetchRetries)}
	if cfg.GoogleGeoKey != "" {
		geocoders = append(geocoders, geocode.NewGoogle(cfg.GoogleGeoKey))
	}

	pipeline := enrich.NewPipeline(
		geocode.NewChain(log, geocoders...),
		service,
		log,
		enrich.WithLocation(loc),
		enrich.WithConcurrency(cfg.Concurrency),
	)

	source, err := calendarSource(ctx, cfg, prefs, httpClient, log)
	if err != nil {
		_ = closePrefs()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		log:    log,
		prefs:  prefs,
		runner: enrich.NewRunner(pipeline, prefs, log),
		source: source,
		close:  closePrefs,
	}, nil
}

// calendarSource prefers an events file, then Google Calendar with the
// configured or stored token.
func calendarSource(ctx context.Context, cfg *config.AppConfig, prefs *onboarding.Store, client *http.Client, log zerolog.Logger) (calendar.Source, error) {
	if eventsFileFlag != "" {
		src, err := calendar.LoadStatic(eventsFileFlag)
		if err != nil {
			return nil, errors.Wrap(err, "load events file")
		}
		return src, nil
	}

	token := cfg.CalendarToken
	if token == "" {
		data, err := prefs.Load(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "load onboarding data")
		}
		token = data.CalendarToken
	}
	if token == "" {
		log.Warn().Msg("no calendar token configured; no events will be fetched")
		return calendar.NewStatic(nil), nil
	}
	return calendar.NewGoogle(cfg.CalendarBaseURL, token, client, cfg.FetchRetries, log), nil
}

func location(tz string) (*time.Location, error) {
	if tz == "" || tz == "auto" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown timezone %q", tz)
	}
	return loc, nil
}
