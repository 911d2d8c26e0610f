// Package geocode resolves free-text event locations to coordinates.
package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/i474232898/event-weather-advisor/internal/weather"
)

// ErrNoMatch is returned when a geocoder has no result for the query.
var ErrNoMatch = errors.New("no geocoding match")

// Geocoder resolves a free-text location.
type Geocoder interface {
	Resolve(ctx context.Context, text string) (*weather.Coordinates, error)
}

// Chain tries each geocoder in order and returns the first match.
type Chain struct {
	geocoders []Geocoder
	log       zerolog.Logger
}

func NewChain(log zerolog.Logger, geocoders ...Geocoder) *Chain {
	return &Chain{geocoders: geocoders, log: log}
}

func (c *Chain) Resolve(ctx context.Context, text string) (*weather.Coordinates, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoMatch
	}

	var lastErr error = ErrNoMatch
	for _, g := range c.geocoders {
		coords, err := g.Resolve(ctx, text)
		if err == nil && coords != nil {
			return coords, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil && !errors.Is(err, ErrNoMatch) {
			c.log.Warn().Err(err).Str("query", text).Msg("geocoder failed")
			lastErr = err
		}
	}
	return nil, lastErr
}
