package suggest

import (
	"time"

	"github.com/i474232898/event-weather-advisor/internal/weather"
)

const (
	maxSuggestions      = 4
	maxBasicSuggestions = 3
	diversityFloor      = 2
)

// Input is everything the engine needs for one event.
type Input struct {
	Weather weather.Snapshot
	Hourly  []weather.HourlyPoint
	Start   time.Time
	End     time.Time
	Title   string
	Prefs   Preferences
	// Now anchors the departure-time estimate so output depends only on inputs.
	Now time.Time
}

// ruleContext holds the derived values shared by every rule block.
type ruleContext struct {
	snap      weather.Snapshot
	prefs     Preferences
	condition weather.Condition
	title     string

	// Temperatures forecast between event start and end.
	eventTemps []float64
	departure  *weather.HourlyPoint
}

func (c *ruleContext) temp() float64 { return c.snap.Temperature }
func (c *ruleContext) precip() int   { return c.snap.PrecipitationChance }

// wind reports the wind speed when the user wants wind rules and it was measured.
func (c *ruleContext) wind() (float64, bool) {
	if !c.prefs.WindSpeed || c.snap.WindSpeed == nil {
		return 0, false
	}
	return *c.snap.WindSpeed, true
}

func (c *ruleContext) uv() (float64, bool) {
	if !c.prefs.UVIndex || c.snap.UVIndex == nil {
		return 0, false
	}
	return *c.snap.UVIndex, true
}

// tempRange returns max-min of the in-event temperatures.
func (c *ruleContext) tempRange() (lo, hi, spread float64) {
	if len(c.eventTemps) == 0 {
		return 0, 0, 0
	}
	lo, hi = c.eventTemps[0], c.eventTemps[0]
	for _, t := range c.eventTemps[1:] {
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}
	return lo, hi, hi - lo
}

type ruleBlock func(c *ruleContext) []Suggestion

// enhancedRules run in this order; order only matters for tie-breaks within a priority.
var enhancedRules = []ruleBlock{
	safetyRules,
	precipitationRules,
	sunRules,
	temperatureRules,
	windRules,
	layeringRules,
	departureRules,
	sidewalkRules,
}

// Generate returns at most four suggestions for an event. With no hourly
// series it falls back to GenerateBasic.
func Generate(in Input) []Suggestion {
	if len(in.Hourly) == 0 {
		return GenerateBasic(in.Weather, in.Prefs)
	}

	c := &ruleContext{
		snap:      in.Weather,
		prefs:     in.Prefs,
		condition: weather.Classify(in.Weather.Condition),
		title:     in.Title,
	}
	for _, h := range in.Hourly {
		if !h.Time.Before(in.Start) && !h.Time.After(in.End) {
			c.eventTemps = append(c.eventTemps, h.Temperature)
		}
	}
	c.departure = weather.ClosestPoint(in.Hourly, DepartureTime(in.Start, in.Now))

	var candidates []Suggestion
	for _, rule := range enhancedRules {
		candidates = append(candidates, rule(c)...)
	}
	return selectSuggestions(candidates, maxSuggestions)
}

// GenerateBasic is the reduced rule set used when no hourly series exists.
// It returns at most three suggestions.
func GenerateBasic(snap weather.Snapshot, prefs Preferences) []Suggestion {
	c := &ruleContext{
		snap:      snap,
		prefs:     prefs,
		condition: weather.Classify(snap.Condition),
	}

	var candidates []Suggestion
	for _, rule := range basicRules {
		candidates = append(candidates, rule(c)...)
	}
	sorted := sortByPriority(dedupe(candidates))
	if len(sorted) > maxBasicSuggestions {
		sorted = sorted[:maxBasicSuggestions]
	}
	return sorted
}

// DepartureTime estimates when the user leaves: 90 minutes before events at
// least two hours away, otherwise one hour before.
func DepartureTime(start, now time.Time) time.Time {
	if start.Sub(now) >= 2*time.Hour {
		return start.Add(-90 * time.Minute)
	}
	return start.Add(-time.Hour)
}
