package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/i474232898/event-weather-advisor/internal/common"
	"github.com/i474232898/event-weather-advisor/internal/weather"
)

const (
	defaultWeatherAPIURL = "https://api.weatherapi.com/v1/forecast.json"
	weatherAPIMaxDays    = 14
	astroLayout          = "03:04 PM"
)

var errWeatherAPIKey = errors.New("weatherapi api key is not configured")

// epaIndexAQI places each US EPA index band inside its AQI range.
var epaIndexAQI = map[int]int{1: 25, 2: 75, 3: 125, 4: 175, 5: 250, 6: 350}

// WeatherAPIConfig configures the WeatherAPI.com adapter.
type WeatherAPIConfig struct {
	BaseURL   string
	APIKey    string
	Client    *http.Client
	Retries   int
	UserAgent string
}

// WeatherAPI implements weather.Forecaster against WeatherAPI.com's
// forecast endpoint, with air quality requested inline.
type WeatherAPI struct {
	baseURL string
	apiKey  string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	log     zerolog.Logger
	now     func() time.Time
}

func NewWeatherAPI(cfg WeatherAPIConfig, log zerolog.Logger) *WeatherAPI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultWeatherAPIURL
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WeatherAPI{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpCfg: common.HTTPClientConfig{
			Client:    cfg.Client,
			Backoff:   common.DefaultBackoff(cfg.Retries),
			UserAgent: cfg.UserAgent,
		},
		circuit: common.NewBreaker("weatherapi"),
		log:     log.With().Str("provider", "weatherapi").Logger(),
		now:     time.Now,
	}
}

type weatherAPIHour struct {
	TimeEpoch int64    `json:"time_epoch"`
	TempF     *float64 `json:"temp_f"`
	Condition struct {
		Text string `json:"text"`
	} `json:"condition"`
	WindMph      *float64 `json:"wind_mph"`
	Humidity     *float64 `json:"humidity"`
	FeelsLikeF   *float64 `json:"feelslike_f"`
	ChanceOfRain *float64 `json:"chance_of_rain"`
	ChanceOfSnow *float64 `json:"chance_of_snow"`
	VisMiles     *float64 `json:"vis_miles"`
	UV           *float64 `json:"uv"`
	AirQuality   *struct {
		USEPAIndex *int `json:"us-epa-index"`
	} `json:"air_quality"`
}

type weatherAPIResponse struct {
	Location struct {
		TZID string `json:"tz_id"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date  string `json:"date"`
			Astro struct {
				Sunrise string `json:"sunrise"`
				Sunset  string `json:"sunset"`
			} `json:"astro"`
			Hour []weatherAPIHour `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPI) SnapshotAt(ctx context.Context, coords weather.Coordinates, at time.Time) (*weather.Snapshot, error) {
	series, err := p.fetch(ctx, coords, at)
	if err != nil {
		return nil, err
	}
	return snapshotAt(series, at), nil
}

func (p *WeatherAPI) HourlySeries(ctx context.Context, coords weather.Coordinates, start, end time.Time) ([]weather.HourlyPoint, error) {
	if end.Before(start) {
		return nil, nil
	}
	series, err := p.fetch(ctx, coords, end)
	if err != nil {
		return nil, err
	}
	return clip(series, start, end), nil
}

// fetch loads every forecast hour from today through the day after until.
func (p *WeatherAPI) fetch(ctx context.Context, coords weather.Coordinates, until time.Time) ([]weather.HourlyPoint, error) {
	if p.apiKey == "" {
		return nil, errWeatherAPIKey
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", coords.Latitude, coords.Longitude))
	values.Set("days", strconv.Itoa(p.days(until)))
	values.Set("aqi", "yes")
	values.Set("alerts", "no")

	var payload weatherAPIResponse
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, u, nil, &payload); err != nil {
		return nil, fmt.Errorf("weatherapi forecast: %w", err)
	}

	loc, err := time.LoadLocation(payload.Location.TZID)
	if err != nil || payload.Location.TZID == "" {
		loc = time.UTC
	}

	var series []weather.HourlyPoint
	for _, day := range payload.Forecast.ForecastDay {
		sunrise := astroClock(day.Astro.Sunrise)
		sunset := astroClock(day.Astro.Sunset)
		for _, h := range day.Hour {
			if h.TempF == nil || h.TimeEpoch == 0 {
				continue
			}
			snap := weatherAPISnapshot(h)
			snap.Sunrise, snap.Sunset = sunrise, sunset
			series = append(series, weather.HourlyPoint{
				Time:     time.Unix(h.TimeEpoch, 0).In(loc),
				Snapshot: snap,
			})
		}
	}
	p.log.Debug().Str("location", coords.Key()).Int("hours", len(series)).Msg("forecast fetched")
	return series, nil
}

// days is the forecast length needed to reach until, padded by a day for
// time zones and capped at the API maximum.
func (p *WeatherAPI) days(until time.Time) int {
	n := int(math.Ceil(until.Sub(p.now()).Hours()/24)) + 1
	switch {
	case n < 1:
		return 1
	case n > weatherAPIMaxDays:
		return weatherAPIMaxDays
	}
	return n
}

func weatherAPISnapshot(h weatherAPIHour) weather.Snapshot {
	snap := weather.Snapshot{
		Temperature: *h.TempF,
		Condition:   weatherAPIConditionText(h.Condition.Text),
		WindSpeed:   copyFloat(h.WindMph),
		FeelsLike:   copyFloat(h.FeelsLikeF),
		UVIndex:     copyFloat(h.UV),
		Visibility:  copyFloat(h.VisMiles),
	}

	chance := -1.0
	for _, c := range []*float64{h.ChanceOfRain, h.ChanceOfSnow} {
		if c != nil && *c > chance {
			chance = *c
		}
	}
	if chance >= 0 {
		snap.PrecipitationChance = weather.ClampPrecipitation(int(math.Round(chance)))
	}
	if h.Humidity != nil {
		snap.Humidity = weather.Int(int(math.Round(*h.Humidity)))
	}
	if h.AirQuality != nil && h.AirQuality.USEPAIndex != nil {
		if aqi, ok := epaIndexAQI[*h.AirQuality.USEPAIndex]; ok {
			snap.AirQualityIndex = weather.Int(aqi)
		}
	}
	return snap
}

// weatherAPIConditionText keeps WeatherAPI's own wording ("Patchy rain
// nearby", "Overcast"), which the condition classifier reads by keyword.
func weatherAPIConditionText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "Unknown"
	}
	return text
}

func astroClock(raw string) *string {
	t, err := time.Parse(astroLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return weather.String(t.Format(clockLayout))
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

var _ weather.Forecaster = (*WeatherAPI)(nil)
