package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weatherAPIFixture = `{
  "location": {"name": "New York", "tz_id": "UTC"},
  "forecast": {"forecastday": [{
    "date": "2026-01-10",
    "astro": {"sunrise": "07:18 AM", "sunset": "04:45 PM"},
    "hour": [
      {"time_epoch": 1768057200, "temp_f": 34.2, "condition": {"text": "Sunny "}, "wind_mph": 8.1,
       "humidity": 50, "feelslike_f": 29.5, "chance_of_rain": 0, "chance_of_snow": 0, "vis_miles": 6.2, "uv": 2,
       "air_quality": {"us-epa-index": 3}},
      {"time_epoch": 1768060800, "temp_f": 33.0, "condition": {"text": "Patchy rain nearby"}, "wind_mph": 12,
       "humidity": 71.6, "chance_of_rain": 65, "chance_of_snow": 80, "uv": 0},
      {"time_epoch": 1768064400, "temp_f": null, "condition": {"text": "Cloudy"}}
    ]
  }]}
}`

func newWeatherAPIServer(t *testing.T, status int) (*httptest.Server, *[]url.Values) {
	t.Helper()
	var queries []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query())
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(weatherAPIFixture))
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

func newTestWeatherAPI(srv *httptest.Server, key string) *WeatherAPI {
	p := NewWeatherAPI(WeatherAPIConfig{BaseURL: srv.URL, APIKey: key, Client: srv.Client()}, zerolog.Nop())
	p.now = func() time.Time { return time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestWeatherAPISnapshotAt(t *testing.T) {
	srv, queries := newWeatherAPIServer(t, http.StatusOK)
	p := newTestWeatherAPI(srv, "k")

	snap, err := p.SnapshotAt(context.Background(), nyc, time.Date(2026, 1, 10, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, 33.0, snap.Temperature)
	assert.Equal(t, "Patchy rain nearby", snap.Condition)
	assert.Equal(t, 80, snap.PrecipitationChance)
	require.NotNil(t, snap.Humidity)
	assert.Equal(t, 72, *snap.Humidity)
	assert.Nil(t, snap.AirQualityIndex)
	assert.Nil(t, snap.FeelsLike)
	require.NotNil(t, snap.Sunrise)
	assert.Equal(t, "7:18 AM", *snap.Sunrise)

	require.Len(t, *queries, 1)
	q := (*queries)[0]
	assert.Equal(t, "k", q.Get("key"))
	assert.Equal(t, "40.710000,-74.010000", q.Get("q"))
	assert.Equal(t, "yes", q.Get("aqi"))
	assert.Equal(t, "2", q.Get("days"))
}

func TestWeatherAPIHourlySeries(t *testing.T) {
	srv, _ := newWeatherAPIServer(t, http.StatusOK)
	p := newTestWeatherAPI(srv, "k")

	start := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)
	series, err := p.HourlySeries(context.Background(), nyc, start, start.Add(2*time.Hour))
	require.NoError(t, err)

	// The 17:00 hour has no temperature and is dropped.
	require.Len(t, series, 2)
	first := series[0]
	assert.True(t, first.Time.Equal(start))
	assert.Equal(t, "Sunny", first.Condition)
	assert.Equal(t, 0, first.PrecipitationChance)
	require.NotNil(t, first.AirQualityIndex)
	assert.Equal(t, 125, *first.AirQualityIndex)
	require.NotNil(t, first.Visibility)
	assert.Equal(t, 6.2, *first.Visibility)
	require.NotNil(t, first.Sunset)
	assert.Equal(t, "4:45 PM", *first.Sunset)
}

func TestWeatherAPIRequiresKey(t *testing.T) {
	srv, queries := newWeatherAPIServer(t, http.StatusOK)
	p := newTestWeatherAPI(srv, "")

	_, err := p.SnapshotAt(context.Background(), nyc, time.Now())
	assert.ErrorIs(t, err, errWeatherAPIKey)
	assert.Empty(t, *queries)
}

func TestWeatherAPIUpstreamFailure(t *testing.T) {
	srv, _ := newWeatherAPIServer(t, http.StatusForbidden)
	p := newTestWeatherAPI(srv, "bad")

	series, err := p.HourlySeries(context.Background(), nyc, time.Now(), time.Now().Add(time.Hour))
	assert.Error(t, err)
	assert.Empty(t, series)
}

func TestWeatherAPIDays(t *testing.T) {
	p := NewWeatherAPI(WeatherAPIConfig{APIKey: "k"}, zerolog.Nop())
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	assert.Equal(t, 1, p.days(now.Add(-48*time.Hour)))
	assert.Equal(t, 2, p.days(now.Add(time.Hour)))
	assert.Equal(t, 4, p.days(now.Add(60*time.Hour)))
	assert.Equal(t, 14, p.days(now.Add(30*24*time.Hour)))
}
