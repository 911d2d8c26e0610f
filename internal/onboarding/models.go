// Package onboarding holds the user's setup answers: home location, enabled
// weather features and notification preferences.
package onboarding

import (
	"github.com/i474232898/event-weather-advisor/internal/suggest"
	"github.com/i474232898/event-weather-advisor/internal/weather"
)

// Step is a position in the onboarding flow.
type Step int

const (
	StepWelcome Step = iota
	StepAddress
	StepLocationPermission
	StepCalendar
	StepNotifications
	StepFeatures
	StepCompletion
)

// Next returns the following step. The location-permission screen is part of
// the address step and is skipped.
func (s Step) Next() Step {
	next := s + 1
	if next == StepLocationPermission {
		return StepCalendar
	}
	if next > StepCompletion {
		return StepCompletion
	}
	return next
}

// Prev returns the preceding step, never before StepWelcome.
func (s Step) Prev() Step {
	if s <= StepWelcome {
		return StepWelcome
	}
	return s - 1
}

// HomeLocation is the fallback location for events without one.
type HomeLocation struct {
	Address     string              `json:"address" validate:"required"`
	City        string              `json:"city"`
	State       string              `json:"state"`
	Coordinates weather.Coordinates `json:"coordinates"`
}

type Permissions struct {
	Location      string `json:"location" validate:"oneof=granted denied prompt not_requested"`
	Calendar      bool   `json:"calendar"`
	Notifications bool   `json:"notifications"`
}

// WeatherFeatures are the dashboard toggles chosen during onboarding.
type WeatherFeatures struct {
	Temperature    bool `json:"temperature"`
	HourlyForecast bool `json:"hourlyForecast"`
	Precipitation  bool `json:"precipitation"`
	UVIndex        bool `json:"uvIndex"`
	SunriseSunset  bool `json:"sunriseSunset"`
	WindSpeed      bool `json:"windSpeed"`
	Humidity       bool `json:"humidity"`
	AirQuality     bool `json:"airQuality"`
	Visibility     bool `json:"visibility"`
	Pressure       bool `json:"pressure"`
	FeelsLike      bool `json:"feelsLike"`
}

// withEssentials forces the features that cannot be turned off.
func (f WeatherFeatures) withEssentials() WeatherFeatures {
	f.Temperature = true
	f.HourlyForecast = true
	f.Precipitation = true
	return f
}

// Preferences converts the toggles the suggestion engine understands.
func (f WeatherFeatures) Preferences() suggest.Preferences {
	return suggest.Preferences{
		Precipitation: f.Precipitation,
		UVIndex:       f.UVIndex,
		WindSpeed:     f.WindSpeed,
		Humidity:      f.Humidity,
		AirQuality:    f.AirQuality,
		Visibility:    f.Visibility,
		FeelsLike:     f.FeelsLike,
		SunriseSunset: f.SunriseSunset,
	}
}

type NotificationPreferences struct {
	MorningBriefingEnabled bool   `json:"morningBriefingEnabled"`
	EventRemindersEnabled  bool   `json:"eventRemindersEnabled"`
	MorningBriefingTime    string `json:"morningBriefingTime" validate:"clock"`
	EventReminderTime      string `json:"eventReminderTime" validate:"required,max=64"`
}

// OnboardingData is the persisted onboarding state.
type OnboardingData struct {
	Completed               bool                    `json:"completed"`
	CurrentStep             Step                    `json:"currentStep" validate:"gte=0,lte=6"`
	HomeLocation            *HomeLocation           `json:"homeLocation"`
	Permissions             Permissions             `json:"permissions"`
	WeatherFeatures         WeatherFeatures         `json:"weatherFeatures"`
	CalendarToken           string                  `json:"calendarToken,omitempty"`
	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
}

// Defaults returns the state of a user who has not started onboarding.
func Defaults() OnboardingData {
	return OnboardingData{
		CurrentStep: StepWelcome,
		Permissions: Permissions{Location: "not_requested"},
		WeatherFeatures: WeatherFeatures{
			Temperature:    true,
			HourlyForecast: true,
			Precipitation:  true,
			UVIndex:        true,
			SunriseSunset:  true,
			WindSpeed:      true,
		},
		NotificationPreferences: NotificationPreferences{
			MorningBriefingEnabled: true,
			EventRemindersEnabled:  true,
			MorningBriefingTime:    "7:00 AM",
			EventReminderTime:      "1 hour before heading out",
		},
	}
}

// Snapshot is the read-only view the enrichment pipeline takes at the start
// of a run.
type Snapshot struct {
	Preferences suggest.Preferences  `json:"preferences"`
	Home        *weather.Coordinates `json:"home,omitempty"`
}
