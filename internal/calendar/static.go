package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Static serves a fixed list of events.
type Static struct {
	events []Event
}

func NewStatic(events []Event) *Static {
	return &Static{events: append([]Event(nil), events...)}
}

// LoadStatic reads a JSON array of events from path.
func LoadStatic(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}
	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("parse events file: %w", err)
	}
	v := validator.New()
	for i := range events {
		if err := v.Struct(events[i]); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	return NewStatic(events), nil
}

// Events returns the normalized events starting within [from, to]. A zero
// bound is open.
func (s *Static) Events(_ context.Context, from, to time.Time) ([]Event, error) {
	var out []Event
	for _, e := range s.events {
		start := e.StartTime(time.Local, from)
		if !from.IsZero() && start.Before(from) {
			continue
		}
		if !to.IsZero() && start.After(to) {
			continue
		}
		out = append(out, e)
	}
	return Normalize(out), nil
}
