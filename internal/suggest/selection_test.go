package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i474232898/event-weather-advisor/internal/weather"
)

func s(text string, p Priority, icon Icon) Suggestion {
	return Suggestion{Text: text, Priority: p, Icon: icon}
}

func TestSelectPrefersUnusedIcons(t *testing.T) {
	candidates := []Suggestion{
		s("low hat", PriorityLow, IconHat),
		s("medium umbrella a", PriorityMedium, IconUmbrella),
		s("high warning", PriorityHigh, IconWarning),
		s("medium umbrella b", PriorityMedium, IconUmbrella),
		s("medium sun", PriorityMedium, IconSun),
	}

	got := selectSuggestions(candidates, 4)

	assert.Equal(t, []string{"high warning", "medium umbrella a", "medium sun", "low hat"}, texts(got))
}

func TestSelectRelaxesDiversityBelowFloor(t *testing.T) {
	candidates := []Suggestion{
		s("umbrella 1", PriorityMedium, IconUmbrella),
		s("umbrella 2", PriorityMedium, IconUmbrella),
		s("umbrella 3", PriorityMedium, IconUmbrella),
		s("hat", PriorityLow, IconHat),
	}

	got := selectSuggestions(candidates, 4)

	assert.Equal(t, []string{"umbrella 1", "umbrella 2", "hat"}, texts(got))
}

func TestSelectCapsHighPriority(t *testing.T) {
	var candidates []Suggestion
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		candidates = append(candidates, s(text, PriorityHigh, IconWarning))
	}
	candidates = append(candidates, s("medium", PriorityMedium, IconSun))

	assert.Equal(t, []string{"a", "b", "c", "d"}, texts(selectSuggestions(candidates, 4)))
}

func TestSelectDropsDuplicateText(t *testing.T) {
	candidates := []Suggestion{
		s("same", PriorityMedium, IconSun),
		s("same", PriorityMedium, IconSun),
		s("other", PriorityLow, IconHat),
	}

	assert.Equal(t, []string{"same", "other"}, texts(selectSuggestions(candidates, 4)))
}

func TestSelectEmpty(t *testing.T) {
	got := selectSuggestions(nil, 4)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReason(t *testing.T) {
	snap := weather.Snapshot{
		Temperature:         20,
		PrecipitationChance: 40,
		WindSpeed:           weather.Float(30),
		UVIndex:             weather.Float(7),
		FeelsLike:           weather.Float(1),
	}

	assert.Equal(t, "feels like 1°F", Reason(Suggestion{Category: CategorySafety}, snap))
	assert.Equal(t, "40% chance of rain", Reason(Suggestion{Category: CategoryPrecipitation}, snap))
	assert.Equal(t, "UV index: 7", Reason(Suggestion{Category: CategorySun}, snap))
	assert.Equal(t, "wind 30 mph", Reason(Suggestion{Category: CategoryWind}, snap))
	assert.Equal(t, "", Reason(Suggestion{Category: CategoryAirQuality}, snap))
}
