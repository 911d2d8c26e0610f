package weather

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Service decorates a Forecaster with a response cache. Failed or empty
// upstream responses are never cached.
type Service struct {
	store      Store
	forecaster Forecaster
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates a new Service. store may be nil to disable caching.
func NewService(store Store, forecaster Forecaster, log zerolog.Logger) *Service {
	return &Service{
		store:      store,
		forecaster: forecaster,
		log:        log,
		now:        time.Now,
	}
}

// SnapshotAt returns the forecast snapshot for the hour containing at.
func (s *Service) SnapshotAt(ctx context.Context, coords Coordinates, at time.Time) (*Snapshot, error) {
	key := "at:" + hourKey(ceilHour(at))
	if entry, ok := s.lookup(coords, key); ok && entry.Snapshot != nil {
		snap := *entry.Snapshot
		return &snap, nil
	}

	snap, err := s.forecaster.SnapshotAt(ctx, coords, at)
	if err != nil {
		return nil, err
	}
	if snap != nil && s.store != nil {
		cached := *snap
		s.store.Save(coords.Key(), CacheEntry{Key: key, FetchedAt: s.now().UTC(), Snapshot: &cached})
	}
	return snap, nil
}

// HourlySeries returns hourly points between start and end inclusive.
func (s *Service) HourlySeries(ctx context.Context, coords Coordinates, start, end time.Time) ([]HourlyPoint, error) {
	key := "series:" + hourKey(start) + "/" + hourKey(end)
	if entry, ok := s.lookup(coords, key); ok && len(entry.Series) > 0 {
		return within(entry.Series, start, end), nil
	}

	series, err := s.forecaster.HourlySeries(ctx, coords, start, end)
	if err != nil {
		return nil, err
	}
	if len(series) > 0 && s.store != nil {
		s.store.Save(coords.Key(), CacheEntry{
			Key:       key,
			FetchedAt: s.now().UTC(),
			Series:    append([]HourlyPoint(nil), series...),
		})
	}
	return series, nil
}

func (s *Service) lookup(coords Coordinates, key string) (CacheEntry, bool) {
	if s.store == nil {
		return CacheEntry{}, false
	}
	entry, err := s.store.Get(coords.Key(), key)
	if err != nil {
		return CacheEntry{}, false
	}
	s.log.Debug().Str("location", coords.Key()).Str("key", key).Msg("forecast cache hit")
	return entry, true
}

// within copies the points of series that fall in [start, end]. Cache keys
// are hour-granular, so a cached series may begin before start.
func within(series []HourlyPoint, start, end time.Time) []HourlyPoint {
	out := make([]HourlyPoint, 0, len(series))
	for _, pt := range series {
		if pt.Time.Before(start) || pt.Time.After(end) {
			continue
		}
		out = append(out, pt)
	}
	return out
}

// ceilHour rounds t up to the next full hour. SnapshotAt picks the first
// hour at or after t, so every t in (h-1, h] resolves to hour h.
func ceilHour(t time.Time) time.Time {
	h := t.Truncate(time.Hour)
	if h.Before(t) {
		h = h.Add(time.Hour)
	}
	return h
}

func hourKey(t time.Time) string {
	return t.UTC().Truncate(time.Hour).Format(time.RFC3339)
}
