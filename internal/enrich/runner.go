package enrich

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/i474232898/event-weather-advisor/internal/calendar"
	"github.com/i474232898/event-weather-advisor/internal/onboarding"
)

// ErrSuperseded is returned by a run whose result was replaced by a newer run.
var ErrSuperseded = errors.New("enrichment run superseded")

// PreferenceSource supplies the preference snapshot for a run.
type PreferenceSource interface {
	Preferences(ctx context.Context) (onboarding.Snapshot, error)
}

// Result is the output of one completed run.
type Result struct {
	RunID       string          `json:"runId"`
	Key         string          `json:"key"`
	Events      []EnrichedEvent `json:"events"`
	CompletedAt time.Time       `json:"completedAt"`
}

type inflight struct {
	key    string
	cancel context.CancelFunc
}

// Runner serializes enrichment runs. Starting a run for a different event
// list cancels older runs; their results are discarded.
type Runner struct {
	pipeline *Pipeline
	prefs    PreferenceSource
	log      zerolog.Logger

	mu        sync.Mutex
	gen       uint64
	running   map[uint64]inflight
	latest    *Result
	latestGen uint64
}

func NewRunner(p *Pipeline, prefs PreferenceSource, log zerolog.Logger) *Runner {
	return &Runner{
		pipeline: p,
		prefs:    prefs,
		log:      log,
		running:  make(map[uint64]inflight),
	}
}

// Run enriches events and records the result as the latest one.
func (r *Runner) Run(ctx context.Context, events []calendar.Event) (Result, error) {
	key := calendar.Key(events)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.mu.Lock()
	for _, other := range r.running {
		if other.key != key {
			other.cancel()
		}
	}
	r.gen++
	gen := r.gen
	r.running[gen] = inflight{key: key, cancel: cancel}
	r.mu.Unlock()

	runID := uuid.NewString()
	log := r.log.With().Str("run_id", runID).Logger()
	runCtx = log.WithContext(runCtx)
	log.Info().Int("events", len(events)).Msg("enrichment started")

	snap, err := r.prefs.Preferences(runCtx)
	if err != nil {
		log.Warn().Err(err).Msg("preferences unavailable, using defaults")
		snap = onboarding.Snapshot{Preferences: onboarding.Defaults().WeatherFeatures.Preferences()}
	}

	enriched := r.pipeline.Enrich(runCtx, events, snap)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, gen)

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	if runCtx.Err() != nil || gen < r.latestGen {
		log.Info().Msg("enrichment superseded")
		return Result{}, ErrSuperseded
	}

	res := Result{
		RunID:       runID,
		Key:         key,
		Events:      enriched,
		CompletedAt: r.pipeline.now().UTC(),
	}
	r.latest = &res
	r.latestGen = gen
	log.Info().Int("events", len(enriched)).Msg("enrichment finished")
	return res, nil
}

// Latest returns the most recent completed result.
func (r *Runner) Latest() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return Result{}, false
	}
	return *r.latest, true
}
