// Package enrich attaches weather and suggestions to calendar events.
package enrich

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/event-weather-advisor/internal/calendar"
	"github.com/i474232898/event-weather-advisor/internal/geocode"
	"github.com/i474232898/event-weather-advisor/internal/onboarding"
	"github.com/i474232898/event-weather-advisor/internal/suggest"
	"github.com/i474232898/event-weather-advisor/internal/weather"
)

const (
	defaultConcurrency = 8
	// hourlyLead is how far before the event start the hourly series begins.
	hourlyLead = 2 * time.Hour
)

// EnrichedEvent is an event plus whatever weather data could be obtained.
// Suggestions and HourlyForecast are never nil.
type EnrichedEvent struct {
	calendar.Event
	Weather        *weather.Snapshot     `json:"weather"`
	CurrentWeather *weather.Snapshot     `json:"currentWeather"`
	HourlyForecast []weather.HourlyPoint `json:"hourlyForecast"`
	Suggestions    []suggest.Suggestion  `json:"suggestions"`
	Coordinates    *weather.Coordinates  `json:"coordinates"`
}

// Pipeline enriches events concurrently. Failures stay within one event.
type Pipeline struct {
	geocoder    geocode.Geocoder
	forecaster  weather.Forecaster
	log         zerolog.Logger
	location    *time.Location
	concurrency int
	now         func() time.Time
}

type Option func(*Pipeline)

// WithLocation sets the zone used to place all-day events.
func WithLocation(loc *time.Location) Option {
	return func(p *Pipeline) {
		if loc != nil {
			p.location = loc
		}
	}
}

// WithConcurrency caps the number of events enriched at once.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func NewPipeline(g geocode.Geocoder, f weather.Forecaster, log zerolog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		geocoder:    g,
		forecaster:  f,
		log:         log,
		location:    time.Local,
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enrich returns one EnrichedEvent per input event, in input order.
func (p *Pipeline) Enrich(ctx context.Context, events []calendar.Event, prefs onboarding.Snapshot) []EnrichedEvent {
	out := make([]EnrichedEvent, len(events))
	now := p.now()

	var eg errgroup.Group
	eg.SetLimit(p.concurrency)
	for i, ev := range events {
		i, ev := i, ev
		eg.Go(func() error {
			out[i] = p.enrichOne(ctx, ev, prefs, now)
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

func (p *Pipeline) logger(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return p.log
}

func (p *Pipeline) enrichOne(ctx context.Context, ev calendar.Event, prefs onboarding.Snapshot, now time.Time) (res EnrichedEvent) {
	res = EnrichedEvent{
		Event:          ev,
		HourlyForecast: []weather.HourlyPoint{},
		Suggestions:    []suggest.Suggestion{},
	}
	log := p.logger(ctx).With().Str("event_id", ev.ID).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("event enrichment panicked")
			res = EnrichedEvent{
				Event:          ev,
				HourlyForecast: []weather.HourlyPoint{},
				Suggestions:    []suggest.Suggestion{},
			}
		}
	}()

	res.Coordinates = p.resolve(ctx, log, ev, prefs.Home)
	if res.Coordinates == nil {
		log.Debug().Msg("no coordinates for event")
		return res
	}
	coords := *res.Coordinates

	start := ev.StartTime(p.location, now)
	end := ev.EndTime(p.location, now)
	seriesStart := start.Add(-hourlyLead)
	if seriesStart.Before(now) {
		seriesStart = now
	}

	// Sub-fetches never fail the group; an error only leaves its field empty.
	var (
		eg      errgroup.Group
		current *weather.Snapshot
		atStart *weather.Snapshot
		hourly  []weather.HourlyPoint
	)
	eg.Go(func() error {
		guard(log, "current", func() { current = p.snapshot(ctx, log, coords, now, "current") })
		return nil
	})
	eg.Go(func() error {
		guard(log, "event", func() { atStart = p.snapshot(ctx, log, coords, start, "event") })
		return nil
	})
	eg.Go(func() error {
		guard(log, "hourly", func() {
			series, err := p.forecaster.HourlySeries(ctx, coords, seriesStart, end)
			if err != nil {
				log.Warn().Err(err).Msg("hourly forecast unavailable")
				return
			}
			hourly = series
		})
		return nil
	})
	_ = eg.Wait()

	res.CurrentWeather = current
	res.Weather = atStart
	if len(hourly) > 0 {
		res.HourlyForecast = hourly
	}

	switch {
	case atStart != nil && len(hourly) > 0:
		res.Suggestions = suggest.Generate(suggest.Input{
			Weather: *atStart,
			Hourly:  hourly,
			Start:   start,
			End:     end,
			Title:   ev.Title,
			Prefs:   prefs.Preferences,
			Now:     now,
		})
	case atStart != nil:
		res.Suggestions = suggest.GenerateBasic(*atStart, prefs.Preferences)
	}
	return res
}

// resolve geocodes the event location, falling back to home.
func (p *Pipeline) resolve(ctx context.Context, log zerolog.Logger, ev calendar.Event, home *weather.Coordinates) *weather.Coordinates {
	if ev.Location != "" && p.geocoder != nil {
		coords, err := p.geocoder.Resolve(ctx, ev.Location)
		if err == nil && coords != nil {
			return coords
		}
		log.Warn().Err(err).Str("location", ev.Location).Msg("geocoding failed, using home location")
	}
	if home != nil {
		c := *home
		return &c
	}
	return nil
}

func (p *Pipeline) snapshot(ctx context.Context, log zerolog.Logger, coords weather.Coordinates, at time.Time, which string) *weather.Snapshot {
	snap, err := p.forecaster.SnapshotAt(ctx, coords, at)
	if err != nil {
		log.Warn().Err(err).Str("which", which).Msg("weather unavailable")
		return nil
	}
	return snap
}

// guard runs fn, logging a panic instead of crashing the process.
func guard(log zerolog.Logger, which string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("which", which).Msg("weather fetch panicked")
		}
	}()
	fn()
}
