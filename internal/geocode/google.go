package geocode

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/event-weather-advisor/internal/weather"
)

// geocoder keeps its API key in a package variable.
var googleMu sync.Mutex

// Google resolves locations with the Google Maps geocoding API.
type Google struct {
	apiKey string
	lookup func(geocoder.Address) (geocoder.Location, error)
}

func NewGoogle(apiKey string) *Google {
	return &Google{apiKey: apiKey, lookup: geocoder.Geocoding}
}

func (g *Google) Resolve(ctx context.Context, text string) (*weather.Coordinates, error) {
	if g.apiKey == "" {
		return nil, ErrNoMatch
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		googleMu.Lock()
		defer googleMu.Unlock()
		geocoder.ApiKey = g.apiKey
		loc, err := g.lookup(geocoder.Address{Street: text})
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("google geocoding: %w", r.err)
		}
		if r.loc.Latitude == 0 && r.loc.Longitude == 0 {
			return nil, ErrNoMatch
		}
		return &weather.Coordinates{Latitude: r.loc.Latitude, Longitude: r.loc.Longitude}, nil
	}
}
