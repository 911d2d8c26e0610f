package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/i474232898/event-weather-advisor/internal/common"
	"github.com/i474232898/event-weather-advisor/internal/weather"
)

const (
	defaultForecastURL   = "https://api.open-meteo.com/v1/forecast"
	defaultAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"

	metresPerMile = 1609.344
	dateLayout    = "2006-01-02"
	localLayout   = "2006-01-02T15:04"
	clockLayout   = "3:04 PM"
)

// OpenMeteoConfig configures the Open-Meteo adapter.
type OpenMeteoConfig struct {
	ForecastURL string
	// AirQualityURL may be empty to skip the AQI lookup.
	AirQualityURL string
	Timezone      string
	Client        *http.Client
	Retries       int
	UserAgent     string
}

// OpenMeteo implements weather.Forecaster against the Open-Meteo API.
type OpenMeteo struct {
	forecastURL   string
	airQualityURL string
	timezone      string
	httpCfg       common.HTTPClientConfig
	circuit       *gobreaker.CircuitBreaker
	aqCircuit     *gobreaker.CircuitBreaker
	log           zerolog.Logger
}

// NewOpenMeteo creates an adapter. Empty URLs fall back to the public endpoints.
func NewOpenMeteo(cfg OpenMeteoConfig, log zerolog.Logger) *OpenMeteo {
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = defaultForecastURL
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "auto"
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}

	return &OpenMeteo{
		forecastURL:   cfg.ForecastURL,
		airQualityURL: cfg.AirQualityURL,
		timezone:      cfg.Timezone,
		httpCfg: common.HTTPClientConfig{
			Client:    cfg.Client,
			Backoff:   common.DefaultBackoff(cfg.Retries),
			UserAgent: cfg.UserAgent,
		},
		circuit:   common.NewBreaker("openmeteo"),
		aqCircuit: common.NewBreaker("openmeteo-aq"),
		log:       log.With().Str("provider", "openmeteo").Logger(),
	}
}

// DefaultAirQualityURL is the public Open-Meteo air-quality endpoint.
func DefaultAirQualityURL() string { return defaultAirQualityURL }

type forecastResponse struct {
	UTCOffsetSeconds int `json:"utc_offset_seconds"`
	Hourly           struct {
		Time                     []string   `json:"time"`
		Temperature              []*float64 `json:"temperature_2m"`
		PrecipitationProbability []*float64 `json:"precipitation_probability"`
		WeatherCode              []*int     `json:"weather_code"`
		UVIndex                  []*float64 `json:"uv_index"`
		WindSpeed                []*float64 `json:"wind_speed_10m"`
		Humidity                 []*float64 `json:"relative_humidity_2m"`
		ApparentTemperature      []*float64 `json:"apparent_temperature"`
		Visibility               []*float64 `json:"visibility"`
	} `json:"hourly"`
	Daily struct {
		Time    []string `json:"time"`
		Sunrise []string `json:"sunrise"`
		Sunset  []string `json:"sunset"`
	} `json:"daily"`
}

type airQualityResponse struct {
	Hourly struct {
		Time  []string   `json:"time"`
		USAQI []*float64 `json:"us_aqi"`
	} `json:"hourly"`
}

// SnapshotAt returns the first forecast hour at or after at, or the last
// hour of the day window when at is past the end of the data.
func (p *OpenMeteo) SnapshotAt(ctx context.Context, coords weather.Coordinates, at time.Time) (*weather.Snapshot, error) {
	series, err := p.fetch(ctx, coords, at, at)
	if err != nil {
		return nil, err
	}
	return snapshotAt(series, at), nil
}

// HourlySeries returns the forecast hours within [start, end].
func (p *OpenMeteo) HourlySeries(ctx context.Context, coords weather.Coordinates, start, end time.Time) ([]weather.HourlyPoint, error) {
	if end.Before(start) {
		return nil, nil
	}
	series, err := p.fetch(ctx, coords, start, end)
	if err != nil {
		return nil, err
	}
	return clip(series, start, end), nil
}

// fetch loads every hour of the days covering [start, end]. The window is
// padded by a day on both sides since local dates are unknown until the
// response arrives.
func (p *OpenMeteo) fetch(ctx context.Context, coords weather.Coordinates, start, end time.Time) ([]weather.HourlyPoint, error) {
	values := p.baseQuery(coords, start, end)
	values.Set("hourly", "temperature_2m,precipitation_probability,weather_code,uv_index,"+
		"wind_speed_10m,relative_humidity_2m,apparent_temperature,visibility")
	values.Set("daily", "sunrise,sunset")
	values.Set("temperature_unit", "fahrenheit")
	values.Set("wind_speed_unit", "mph")

	var payload forecastResponse
	u := fmt.Sprintf("%s?%s", p.forecastURL, values.Encode())
	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, u, nil, &payload); err != nil {
		return nil, fmt.Errorf("openmeteo forecast: %w", err)
	}

	loc := time.FixedZone("", payload.UTCOffsetSeconds)
	sun := dailySun(payload, loc)
	aqi := p.fetchAirQuality(ctx, coords, start, end)

	h := payload.Hourly
	series := make([]weather.HourlyPoint, 0, len(h.Time))
	for i, raw := range h.Time {
		ts, err := time.ParseInLocation(localLayout, raw, loc)
		if err != nil {
			continue
		}
		temp := at(h.Temperature, i)
		if temp == nil {
			continue
		}

		snap := weather.Snapshot{
			Temperature: *temp,
			Condition:   conditionText(atInt(h.WeatherCode, i)),
			UVIndex:     at(h.UVIndex, i),
			WindSpeed:   at(h.WindSpeed, i),
			FeelsLike:   at(h.ApparentTemperature, i),
		}
		if pp := at(h.PrecipitationProbability, i); pp != nil {
			snap.PrecipitationChance = weather.ClampPrecipitation(int(math.Round(*pp)))
		}
		if hum := at(h.Humidity, i); hum != nil {
			snap.Humidity = weather.Int(int(math.Round(*hum)))
		}
		if vis := at(h.Visibility, i); vis != nil {
			snap.Visibility = weather.Float(math.Round(*vis/metresPerMile*10) / 10)
		}
		if v, ok := aqi[raw]; ok {
			snap.AirQualityIndex = weather.Int(v)
		}
		if day, ok := sun[ts.Format(dateLayout)]; ok {
			snap.Sunrise = day.sunrise
			snap.Sunset = day.sunset
		}

		series = append(series, weather.HourlyPoint{Time: ts, Snapshot: snap})
	}
	return series, nil
}

// fetchAirQuality returns US AQI values keyed by local hour. Failures only
// leave AQI unknown.
func (p *OpenMeteo) fetchAirQuality(ctx context.Context, coords weather.Coordinates, start, end time.Time) map[string]int {
	if p.airQualityURL == "" {
		return nil
	}
	values := p.baseQuery(coords, start, end)
	values.Set("hourly", "us_aqi")

	var payload airQualityResponse
	u := fmt.Sprintf("%s?%s", p.airQualityURL, values.Encode())
	if err := common.GetJSON(ctx, p.httpCfg, p.aqCircuit, u, nil, &payload); err != nil {
		p.log.Warn().Err(err).Str("location", coords.Key()).Msg("air quality unavailable")
		return nil
	}

	out := make(map[string]int, len(payload.Hourly.Time))
	for i, raw := range payload.Hourly.Time {
		if v := at(payload.Hourly.USAQI, i); v != nil {
			out[raw] = int(math.Round(*v))
		}
	}
	return out
}

func (p *OpenMeteo) baseQuery(coords weather.Coordinates, start, end time.Time) url.Values {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", coords.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", coords.Longitude))
	values.Set("timezone", p.timezone)
	values.Set("start_date", start.UTC().AddDate(0, 0, -1).Format(dateLayout))
	values.Set("end_date", end.UTC().AddDate(0, 0, 1).Format(dateLayout))
	return values
}

type sunTimes struct {
	sunrise *string
	sunset  *string
}

func dailySun(payload forecastResponse, loc *time.Location) map[string]sunTimes {
	d := payload.Daily
	out := make(map[string]sunTimes, len(d.Time))
	for i, day := range d.Time {
		var st sunTimes
		if i < len(d.Sunrise) {
			st.sunrise = clock(d.Sunrise[i], loc)
		}
		if i < len(d.Sunset) {
			st.sunset = clock(d.Sunset[i], loc)
		}
		out[day] = st
	}
	return out
}

func clock(raw string, loc *time.Location) *string {
	t, err := time.ParseInLocation(localLayout, raw, loc)
	if err != nil {
		return nil
	}
	return weather.String(t.Format(clockLayout))
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) || values[i] == nil {
		return nil
	}
	v := *values[i]
	return &v
}

func atInt(values []*int, i int) *int {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

// conditionText maps a WMO weather code to display text.
func conditionText(code *int) string {
	if code == nil {
		return "Unknown"
	}
	switch c := *code; {
	case c == 0:
		return "Clear"
	case c >= 1 && c <= 3:
		return "Partly Cloudy"
	case c >= 45 && c <= 48:
		return "Foggy"
	case c >= 51 && c <= 67:
		return "Rainy"
	case c >= 71 && c <= 77:
		return "Snowy"
	case c >= 80 && c <= 82:
		return "Rain Showers"
	case c >= 85 && c <= 86:
		return "Snow Showers"
	case c >= 95 && c <= 99:
		return "Thunderstorm"
	default:
		return "Partly Cloudy"
	}
}
