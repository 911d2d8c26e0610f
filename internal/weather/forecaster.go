package weather

import (
	"context"
	"time"
)

// Forecaster is the forecast data source. A nil snapshot or an empty series
// with a nil error means the weather is unknown for that request.
type Forecaster interface {
	SnapshotAt(ctx context.Context, coords Coordinates, at time.Time) (*Snapshot, error)
	HourlySeries(ctx context.Context, coords Coordinates, start, end time.Time) ([]HourlyPoint, error)
}

// CacheEntry is one cached forecast response.
type CacheEntry struct {
	Key       string
	FetchedAt time.Time
	Snapshot  *Snapshot
	Series    []HourlyPoint
}

// Store is the contract the forecast cache must satisfy.
type Store interface {
	Save(locationKey string, entry CacheEntry)
	Get(locationKey, key string) (CacheEntry, error)
}
