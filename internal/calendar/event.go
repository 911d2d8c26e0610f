// Package calendar fetches and normalizes the user's upcoming events.
package calendar

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/i474232898/event-weather-advisor/internal/common"
)

// ErrUnauthorized means the calendar token was rejected.
var ErrUnauthorized = errors.New("calendar token expired or revoked")

// Source yields normalized events within [from, to].
type Source interface {
	Events(ctx context.Context, from, to time.Time) ([]Event, error)
}

// EventTime holds either a timestamp or, for all-day entries, a bare date.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

func (t EventTime) raw() string {
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// Event is a normalized calendar entry.
type Event struct {
	ID           string    `json:"id" validate:"required"`
	Title        string    `json:"title"`
	Start        EventTime `json:"start"`
	End          EventTime `json:"end"`
	Location     string    `json:"location,omitempty"`
	CalendarName string    `json:"calendarName,omitempty"`
}

// AllDay reports whether the event only carries a start date.
func (e Event) AllDay() bool {
	return e.Start.DateTime == "" && e.Start.Date != ""
}

// StartTime resolves the start. Date-only starts are placed at noon in loc;
// a missing start resolves to now.
func (e Event) StartTime(loc *time.Location, now time.Time) time.Time {
	if t, ok := parseEventTime(e.Start, loc, 12); ok {
		return t
	}
	return now
}

// EndTime resolves the end. Date-only ends are placed at 17:00 in loc; a
// missing end is one hour after the start.
func (e Event) EndTime(loc *time.Location, now time.Time) time.Time {
	if t, ok := parseEventTime(e.End, loc, 17); ok {
		return t
	}
	return e.StartTime(loc, now).Add(time.Hour)
}

func parseEventTime(t EventTime, loc *time.Location, dateHour int) (time.Time, bool) {
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err == nil {
			return parsed, true
		}
	}
	if t.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", t.Date, loc)
		if err == nil {
			return d.Add(time.Duration(dateHour) * time.Hour), true
		}
	}
	return time.Time{}, false
}

var holidayKeywords = []string{
	"holiday", "no class", "college closed", "university closed", "school closed",
	"break", "recess", "day off", "closed", "martin luther king", "mlk",
	"presidents day", "memorial day", "independence day", "labor day",
	"thanksgiving", "christmas", "new year", "veterans day", "columbus day",
	"easter", "good friday",
}

// skip reports whether an event is an all-day entry or a holiday.
func skip(e Event) bool {
	if e.AllDay() {
		return true
	}
	if common.HasAny(e.CalendarName, "holiday") {
		return true
	}
	return common.HasAny(e.Title, holidayKeywords...)
}

// Normalize drops all-day and holiday events, removes entries repeated across
// calendars (same title and start), and sorts by start.
func Normalize(events []Event) []Event {
	seen := make(map[string]struct{}, len(events))
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if skip(e) {
			continue
		}
		key := e.Title + "_" + e.Start.raw()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := parseEventTime(out[i].Start, time.UTC, 12)
		tj, _ := parseEventTime(out[j].Start, time.UTC, 12)
		return ti.Before(tj)
	})
	return out
}

// Key identifies a list of events by their IDs in order.
func Key(events []Event) string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return strings.Join(ids, ",")
}
