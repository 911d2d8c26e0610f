package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/event-weather-advisor/internal/calendar"
	"github.com/i474232898/event-weather-advisor/internal/enrich"
)

const jobTimeout = 2 * time.Minute

// Scheduler periodically refreshes the calendar and re-enriches the events.
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    calendar.Source
	runner    *enrich.Runner
	interval  time.Duration
	lookahead time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// New creates a new Scheduler.
func New(source calendar.Source, runner *enrich.Runner, interval, lookahead time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		source:    source,
		runner:    runner,
		interval:  interval,
		lookahead: lookahead,
		log:       log.With().Str("component", "scheduler").Logger(),
		now:       time.Now,
	}
}

// Refresh fetches upcoming events and enriches them once.
func (s *Scheduler) Refresh(ctx context.Context) (enrich.Result, error) {
	from := s.now()
	events, err := s.source.Events(ctx, from, from.Add(s.lookahead))
	if err != nil {
		return enrich.Result{}, fmt.Errorf("fetch events: %w", err)
	}
	return s.runner.Run(ctx, events)
}

// Start schedules the refresh job and starts the underlying scheduler. The
// first refresh runs immediately.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		s.log.Debug().Msg("running refresh job")
		res, err := s.Refresh(ctx)
		switch {
		case errors.Is(err, calendar.ErrUnauthorized):
			s.log.Error().Err(err).Msg("calendar needs to be reconnected")
		case errors.Is(err, enrich.ErrSuperseded):
			s.log.Debug().Msg("refresh superseded by a newer run")
		case err != nil:
			s.log.Error().Err(err).Msg("refresh failed")
		default:
			s.log.Info().Str("run_id", res.RunID).Int("events", len(res.Events)).Msg("refresh completed")
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
