package suggest

import (
	"fmt"

	"github.com/i474232898/event-weather-advisor/internal/weather"
)

// Reason returns a short line naming the measurement behind a suggestion.
// It is empty when the relevant metric is unknown.
func Reason(s Suggestion, snap weather.Snapshot) string {
	switch s.Category {
	case CategorySafety:
		if feels, ok := apparent(snap); ok {
			return fmt.Sprintf("feels like %s°F", deg(feels))
		}
		return fmt.Sprintf("%s°F", deg(snap.Temperature))
	case CategoryTemperature, CategoryLayering:
		return fmt.Sprintf("%s°F", deg(snap.Temperature))
	case CategoryPrecipitation, CategoryFootwear:
		return fmt.Sprintf("%d%% chance of rain", snap.PrecipitationChance)
	case CategorySun:
		if snap.UVIndex != nil {
			return fmt.Sprintf("UV index: %s", num(*snap.UVIndex))
		}
		return snap.Condition
	case CategoryWind:
		if snap.WindSpeed != nil {
			return fmt.Sprintf("wind %s mph", deg(*snap.WindSpeed))
		}
	case CategoryAirQuality:
		if snap.AirQualityIndex != nil {
			return fmt.Sprintf("AQI %d", *snap.AirQualityIndex)
		}
	case CategoryVisibility:
		if snap.Visibility != nil {
			return fmt.Sprintf("visibility %s mi", num(*snap.Visibility))
		}
	case CategoryComparison:
		return "conditions change before the event"
	}
	return ""
}

// apparent returns the felt temperature when it differs from the air
// temperature.
func apparent(snap weather.Snapshot) (float64, bool) {
	t := snap.Temperature
	switch {
	case snap.FeelsLike != nil && *snap.FeelsLike != t:
		return *snap.FeelsLike, true
	case snap.WindSpeed != nil && weather.WindChill(t, *snap.WindSpeed) != t:
		return weather.WindChill(t, *snap.WindSpeed), true
	case snap.Humidity != nil && weather.HeatIndex(t, float64(*snap.Humidity)) != t:
		return weather.HeatIndex(t, float64(*snap.Humidity)), true
	}
	return 0, false
}
