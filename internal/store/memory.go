package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/event-weather-advisor/internal/weather"
)

var (
	// ErrNotFound is returned when no usable entry exists for a key.
	ErrNotFound = errors.New("not found")
)

// EntryHistory holds the cached forecast responses for one location, oldest first.
type EntryHistory struct {
	Entries []weather.CacheEntry
}

// MemoryStore is a concurrency-safe in-memory forecast cache.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*EntryHistory

	maxHistory int           // max number of entries per location
	maxAge     time.Duration // entries older than this are ignored and evicted

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0 it is unlimited; if maxAge is <= 0 entries never expire.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*EntryHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends an entry for a location, replacing any entry with the same key,
// and enforces retention.
func (s *MemoryStore) Save(locationKey string, entry weather.CacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[locationKey]
	if !ok {
		history = &EntryHistory{}
		s.data[locationKey] = history
	}

	kept := history.Entries[:0]
	for _, e := range history.Entries {
		if e.Key != entry.Key {
			kept = append(kept, e)
		}
	}
	history.Entries = append(kept, entry)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Entries) > s.maxHistory {
		over := len(history.Entries) - s.maxHistory
		history.Entries = history.Entries[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Entries); i++ {
			if !history.Entries[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		history.Entries = history.Entries[i:]
	}
}

// Get returns the entry stored under key for a location if it has not expired.
func (s *MemoryStore) Get(locationKey, key string) (weather.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[locationKey]
	if !ok || len(history.Entries) == 0 {
		return weather.CacheEntry{}, ErrNotFound
	}

	for i := len(history.Entries) - 1; i >= 0; i-- {
		e := history.Entries[i]
		if e.Key != key {
			continue
		}
		if s.maxAge > 0 && s.now().Sub(e.FetchedAt) > s.maxAge {
			return weather.CacheEntry{}, ErrNotFound
		}
		return e, nil
	}
	return weather.CacheEntry{}, ErrNotFound
}

// Len returns the number of cached entries for a location.
func (s *MemoryStore) Len(locationKey string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h, ok := s.data[locationKey]; ok {
		return len(h.Entries)
	}
	return 0
}
