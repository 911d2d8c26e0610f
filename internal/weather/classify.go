package weather

import "github.com/i474232898/event-weather-advisor/internal/common"

// Classify maps a free-text condition to a Condition category. Keyword sets
// are checked in a fixed order and the first match wins.
func Classify(condition string) Condition {
	switch {
	case common.HasAny(condition, "clear", "sunny"):
		return ConditionClear
	case common.HasAny(condition, "partly", "partially"):
		return ConditionPartlyCloudy
	case common.HasAny(condition, "rain", "drizzle", "shower"):
		return ConditionRain
	case common.HasAny(condition, "snow", "sleet", "flurry"):
		return ConditionSnow
	case common.HasAny(condition, "cloud", "overcast", "fog"):
		return ConditionCloudy
	default:
		return ConditionOther
	}
}
