package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kelvins/geocoder"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/event-weather-advisor/internal/weather"
)

func TestPhotonResolve(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-73.9654,40.7829]}}]}`))
	}))
	defer srv.Close()

	coords, err := NewPhoton(srv.URL, srv.Client(), 0).Resolve(context.Background(), "Central Park")
	require.NoError(t, err)
	assert.Equal(t, "Central Park", query)
	assert.Equal(t, &weather.Coordinates{Latitude: 40.7829, Longitude: -73.9654}, coords)
}

func TestPhotonNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	_, err := NewPhoton(srv.URL, srv.Client(), 0).Resolve(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestGoogleResolve(t *testing.T) {
	g := NewGoogle("key")
	g.lookup = func(a geocoder.Address) (geocoder.Location, error) {
		assert.Equal(t, "1600 Amphitheatre Pkwy", a.Street)
		return geocoder.Location{Latitude: 37.42, Longitude: -122.08}, nil
	}

	coords, err := g.Resolve(context.Background(), "1600 Amphitheatre Pkwy")
	require.NoError(t, err)
	assert.Equal(t, 37.42, coords.Latitude)

	_, err = NewGoogle("").Resolve(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNoMatch)
}

type stubGeocoder struct {
	coords *weather.Coordinates
	err    error
	calls  int
}

func (s *stubGeocoder) Resolve(context.Context, string) (*weather.Coordinates, error) {
	s.calls++
	return s.coords, s.err
}

func TestChainFallsThrough(t *testing.T) {
	first := &stubGeocoder{err: errors.New("boom")}
	second := &stubGeocoder{err: ErrNoMatch}
	third := &stubGeocoder{coords: &weather.Coordinates{Latitude: 1, Longitude: 2}}

	coords, err := NewChain(zerolog.Nop(), first, second, third).Resolve(context.Background(), "somewhere")
	require.NoError(t, err)
	assert.Equal(t, 1.0, coords.Latitude)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChainEmptyQuery(t *testing.T) {
	g := &stubGeocoder{coords: &weather.Coordinates{}}
	_, err := NewChain(zerolog.Nop(), g).Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Zero(t, g.calls)
}

func TestChainReportsLastFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewChain(zerolog.Nop(), &stubGeocoder{err: boom}, &stubGeocoder{err: ErrNoMatch}).
		Resolve(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}
