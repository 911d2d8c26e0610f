// Package suggest turns weather snapshots and event context into a short,
// prioritized list of "what to bring" advisories.
//
// Rules are grouped into independent blocks evaluated in a fixed order. Each
// block appends zero or more candidates; the candidates are then sorted by
// priority and trimmed by a diversity-aware selection pass.
package suggest

import (
	"fmt"
	"math"
	"strconv"
)

// Priority ranks a suggestion. High sorts first.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Category identifies the rule family that produced a suggestion.
type Category string

const (
	CategorySafety        Category = "safety"
	CategoryPrecipitation Category = "precipitation"
	CategoryFootwear      Category = "footwear"
	CategorySun           Category = "sun"
	CategoryTemperature   Category = "temperature"
	CategoryWind          Category = "wind"
	CategoryLayering      Category = "layering"
	CategoryComparison    Category = "comparison"
	CategoryAirQuality    Category = "air-quality"
	CategoryVisibility    Category = "visibility"
)

// Icon is a symbolic tag the presentation layer maps to a glyph.
type Icon string

const (
	IconWarning         Icon = "warning"
	IconCold            Icon = "cold"
	IconCoat            Icon = "coat"
	IconHeat            Icon = "heat"
	IconDroplet         Icon = "droplet"
	IconUmbrella        Icon = "umbrella"
	IconCompactUmbrella Icon = "compact-umbrella"
	IconBoots           Icon = "boots"
	IconHikingBoots     Icon = "hiking-boots"
	IconSneakers        Icon = "sneakers"
	IconSunglasses      Icon = "sunglasses"
	IconSun             Icon = "sun"
	IconPartlySunny     Icon = "partly-sunny"
	IconFog             Icon = "fog"
	IconCloud           Icon = "cloud"
	IconWind            Icon = "wind"
	IconHat             Icon = "hat"
	IconScarf           Icon = "scarf"
	IconShirt           Icon = "shirt"
	IconBuilding        Icon = "building"
	IconRain            Icon = "rain"
	IconMask            Icon = "mask"
)

// Suggestion is one advisory line.
type Suggestion struct {
	Text     string   `json:"text"`
	Icon     Icon     `json:"icon"`
	Priority Priority `json:"priority"`
	Category Category `json:"category"`
}

// Preferences are the user's weather-dimension toggles. A disabled toggle
// suppresses every rule of that family.
type Preferences struct {
	Precipitation bool `json:"precipitation"`
	UVIndex       bool `json:"uvIndex"`
	WindSpeed     bool `json:"windSpeed"`
	Humidity      bool `json:"humidity"`
	AirQuality    bool `json:"airQuality"`
	Visibility    bool `json:"visibility"`
	FeelsLike     bool `json:"feelsLike"`
	SunriseSunset bool `json:"sunriseSunset"`
}

// AllEnabled returns preferences with every toggle on.
func AllEnabled() Preferences {
	return Preferences{
		Precipitation: true,
		UVIndex:       true,
		WindSpeed:     true,
		Humidity:      true,
		AirQuality:    true,
		Visibility:    true,
		FeelsLike:     true,
		SunriseSunset: true,
	}
}

func newSuggestion(cat Category, pri Priority, icon Icon, format string, args ...interface{}) Suggestion {
	return Suggestion{
		Text:     fmt.Sprintf(format, args...),
		Icon:     icon,
		Priority: pri,
		Category: cat,
	}
}

// deg formats a temperature or speed as a whole number.
func deg(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}

// num formats an index value with at most one decimal.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
