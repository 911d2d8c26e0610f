package weather

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// NamedForecaster labels a Forecaster for logging.
type NamedForecaster struct {
	Name string
	Forecaster
}

// Chain asks each forecaster in order and returns the first usable answer.
// A failed or empty answer moves on to the next forecaster. The last error
// is returned only when no forecaster had data.
type Chain struct {
	forecasters []NamedForecaster
	log         zerolog.Logger
}

func NewChain(log zerolog.Logger, forecasters ...NamedForecaster) *Chain {
	return &Chain{forecasters: forecasters, log: log}
}

func (c *Chain) SnapshotAt(ctx context.Context, coords Coordinates, at time.Time) (*Snapshot, error) {
	var lastErr error
	for _, f := range c.forecasters {
		snap, err := f.SnapshotAt(ctx, coords, at)
		if err == nil && snap != nil {
			return snap, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			c.log.Warn().Err(err).Str("provider", f.Name).Str("location", coords.Key()).Msg("forecast failed, trying next provider")
			lastErr = err
		}
	}
	return nil, lastErr
}

func (c *Chain) HourlySeries(ctx context.Context, coords Coordinates, start, end time.Time) ([]HourlyPoint, error) {
	var lastErr error
	for _, f := range c.forecasters {
		series, err := f.HourlySeries(ctx, coords, start, end)
		if err == nil && len(series) > 0 {
			return series, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			c.log.Warn().Err(err).Str("provider", f.Name).Str("location", coords.Key()).Msg("hourly forecast failed, trying next provider")
			lastErr = err
		}
	}
	return nil, lastErr
}

var _ Forecaster = (*Chain)(nil)
