package providers

import (
	"time"

	"github.com/i474232898/event-weather-advisor/internal/weather"
)

// snapshotAt picks the first hour at or after at, or the last hour when at is
// past the end of the series.
func snapshotAt(series []weather.HourlyPoint, at time.Time) *weather.Snapshot {
	if len(series) == 0 {
		return nil
	}
	for _, pt := range series {
		if !pt.Time.Before(at) {
			snap := pt.Snapshot
			return &snap
		}
	}
	snap := series[len(series)-1].Snapshot
	return &snap
}

// clip keeps the hours within [start, end].
func clip(series []weather.HourlyPoint, start, end time.Time) []weather.HourlyPoint {
	out := make([]weather.HourlyPoint, 0, len(series))
	for _, pt := range series {
		if pt.Time.Before(start) || pt.Time.After(end) {
			continue
		}
		out = append(out, pt)
	}
	return out
}
