package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/event-weather-advisor/internal/common"
)

const defaultGoogleURL = "https://www.googleapis.com/calendar/v3"

// Google reads events from every calendar the token can see.
type Google struct {
	baseURL string
	token   string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewGoogle(baseURL, token string, client *http.Client, retries int, log zerolog.Logger) *Google {
	if baseURL == "" {
		baseURL = defaultGoogleURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Google{
		baseURL: baseURL,
		token:   token,
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff(retries),
		},
		circuit: common.NewBreaker("google-calendar"),
		log:     log.With().Str("source", "google-calendar").Logger(),
	}
}

type calendarInfo struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

type googleEvent struct {
	ID       string    `json:"id"`
	Summary  string    `json:"summary"`
	Start    EventTime `json:"start"`
	End      EventTime `json:"end"`
	Location string    `json:"location"`
}

func (g *Google) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+g.token)
	return h
}

func (g *Google) Events(ctx context.Context, from, to time.Time) ([]Event, error) {
	if g.token == "" {
		return nil, ErrUnauthorized
	}

	calendars, err := g.calendars(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]Event, len(calendars))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, cal := range calendars {
		i, cal := i, cal
		eg.Go(func() error {
			events, err := g.calendarEvents(egCtx, cal, from, to)
			if err != nil {
				return err
			}
			results[i] = events
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []Event
	for _, events := range results {
		all = append(all, events...)
	}
	out := Normalize(all)
	g.log.Info().
		Int("calendars", len(calendars)).
		Int("fetched", len(all)).
		Int("kept", len(out)).
		Msg("calendar events fetched")
	return out, nil
}

// calendars lists readable calendars, falling back to the primary calendar
// when the list cannot be fetched.
func (g *Google) calendars(ctx context.Context) ([]calendarInfo, error) {
	var payload struct {
		Items []calendarInfo `json:"items"`
	}
	u := g.baseURL + "/users/me/calendarList?minAccessRole=reader"
	err := common.GetJSON(ctx, g.httpCfg, g.circuit, u, g.header(), &payload)
	switch {
	case common.StatusCode(err) == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case err != nil:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g.log.Warn().Err(err).Msg("calendar list unavailable, using primary")
		return []calendarInfo{{ID: "primary", Summary: "primary"}}, nil
	}

	for i := range payload.Items {
		if payload.Items[i].Summary == "" {
			payload.Items[i].Summary = payload.Items[i].ID
		}
	}
	return payload.Items, nil
}

// calendarEvents fetches one calendar. Failures other than an expired token
// skip the calendar.
func (g *Google) calendarEvents(ctx context.Context, cal calendarInfo, from, to time.Time) ([]Event, error) {
	values := url.Values{}
	values.Set("timeMin", from.UTC().Format(time.RFC3339))
	values.Set("timeMax", to.UTC().Format(time.RFC3339))
	values.Set("singleEvents", "true")
	values.Set("orderBy", "startTime")

	var payload struct {
		Items []googleEvent `json:"items"`
	}
	u := fmt.Sprintf("%s/calendars/%s/events?%s", g.baseURL, url.PathEscape(cal.ID), values.Encode())
	err := common.GetJSON(ctx, g.httpCfg, g.circuit, u, g.header(), &payload)
	if err != nil {
		if common.StatusCode(err) == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		g.log.Warn().Err(err).Str("calendar", cal.ID).Msg("skipping calendar")
		return nil, nil
	}

	out := make([]Event, 0, len(payload.Items))
	for _, item := range payload.Items {
		title := item.Summary
		if title == "" {
			title = "Untitled Event"
		}
		out = append(out, Event{
			ID:           cal.ID + "_" + item.ID,
			Title:        title,
			Start:        item.Start,
			End:          item.End,
			Location:     item.Location,
			CalendarName: cal.Summary,
		})
	}
	return out, nil
}

var _ Source = (*Google)(nil)
var _ Source = (*Static)(nil)
