package weather

import (
	"fmt"
	"math"
	"time"
)

// Condition is the closed set of categories a free-text condition maps to.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionPartlyCloudy Condition = "partly-cloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionRain         Condition = "rain"
	ConditionSnow         Condition = "snow"
	ConditionOther        Condition = "other"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Key returns a cache key rounded to two decimals (about 1.1km).
func (c Coordinates) Key() string {
	const precision = 100.0
	lat := math.Round(c.Latitude*precision) / precision
	lon := math.Round(c.Longitude*precision) / precision
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

// Snapshot is one weather observation or forecast at a point in time.
// Temperatures are °F, wind mph, visibility miles. Nil optional fields
// mean the metric was not measured and must never be read as zero.
type Snapshot struct {
	Temperature         float64  `json:"temp"`
	Condition           string   `json:"condition"`
	PrecipitationChance int      `json:"precipitation" validate:"gte=0,lte=100"`
	WindSpeed           *float64 `json:"wind,omitempty"`
	Humidity            *int     `json:"humidity,omitempty"`
	UVIndex             *float64 `json:"uv,omitempty"`
	FeelsLike           *float64 `json:"feelsLike,omitempty"`
	AirQualityIndex     *int     `json:"airQuality,omitempty"`
	Visibility          *float64 `json:"visibility,omitempty"`
	Sunrise             *string  `json:"sunrise,omitempty"`
	Sunset              *string  `json:"sunset,omitempty"`
}

// HourlyPoint is a Snapshot stamped with its forecast hour.
type HourlyPoint struct {
	Time time.Time `json:"time"`
	Snapshot
}

// ClampPrecipitation keeps a probability within [0,100].
func ClampPrecipitation(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// ClosestPoint returns the point nearest in time to t, or nil for an empty
// series. Ties resolve to the earlier point.
func ClosestPoint(series []HourlyPoint, t time.Time) *HourlyPoint {
	if len(series) == 0 {
		return nil
	}
	best := 0
	bestDiff := absDuration(series[0].Time.Sub(t))
	for i := 1; i < len(series); i++ {
		if d := absDuration(series[i].Time.Sub(t)); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	p := series[best]
	return &p
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
