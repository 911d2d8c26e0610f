package suggest

import (
	"github.com/i474232898/event-weather-advisor/internal/common"
	"github.com/i474232898/event-weather-advisor/internal/weather"
)

var outdoorKeywords = []string{
	"outdoor", "park", "walk", "run", "bike", "hike", "beach", "picnic", "stadium", "field",
}

// windChillBands emits the wind-chill advisory. bundleUp adds the mildest band.
func windChillBands(c *ruleContext, bundleUp bool) []Suggestion {
	if !c.prefs.FeelsLike {
		return nil
	}
	wind, ok := c.wind()
	if !ok || c.temp() >= 50 || wind <= 15 {
		return nil
	}

	feels := weather.WindChill(c.temp(), wind)
	if c.snap.FeelsLike != nil {
		feels = *c.snap.FeelsLike
	}

	switch {
	case feels < 0:
		return []Suggestion{newSuggestion(CategorySafety, PriorityHigh, IconWarning,
			"Dangerous wind chill - feels like %s°F (cover all exposed skin)", deg(feels))}
	case feels < 15:
		return []Suggestion{newSuggestion(CategorySafety, PriorityHigh, IconCold,
			"Severe wind chill - feels like %s°F (limit time outside)", deg(feels))}
	case feels < 25 && bundleUp:
		return []Suggestion{newSuggestion(CategorySafety, PriorityHigh, IconCoat,
			"Wind chill makes it feel like %s°F - bundle up", deg(feels))}
	}
	return nil
}

// heatIndexRule only needs humidity data; it is not gated by a toggle.
func heatIndexRule(c *ruleContext) []Suggestion {
	h := c.snap.Humidity
	if h == nil || c.temp() <= 80 || *h <= 70 {
		return nil
	}
	if hi := weather.HeatIndex(c.temp(), float64(*h)); hi > 90 {
		return []Suggestion{newSuggestion(CategorySafety, PriorityHigh, IconDroplet,
			"Feels like %s°F due to humidity - stay hydrated", deg(hi))}
	}
	return nil
}

func safetyRules(c *ruleContext) []Suggestion {
	out := windChillBands(c, true)

	if wind, ok := c.wind(); ok && wind > 45 {
		out = append(out, newSuggestion(CategoryWind, PriorityHigh, IconWarning,
			"DANGEROUS WINDS (%s mph) - avoid outdoor activities if possible", deg(wind)))
	}

	switch t := c.temp(); {
	case t < 0:
		out = append(out, newSuggestion(CategorySafety, PriorityHigh, IconCold,
			"Dangerous cold (%s°F) - frostbite possible in minutes", deg(t)))
	case t > 95:
		out = append(out, newSuggestion(CategorySafety, PriorityHigh, IconHeat,
			"Dangerous heat (%s°F) - limit outdoor activities", deg(t)))
	}

	out = append(out, heatIndexRule(c)...)

	if v := c.snap.Visibility; c.prefs.Visibility && v != nil {
		switch {
		case *v < 0.25:
			out = append(out, newSuggestion(CategoryVisibility, PriorityHigh, IconFog,
				"Very low visibility (%s mi) - allow extra travel time and use caution crossing streets", num(*v)))
		case *v < 1:
			out = append(out, newSuggestion(CategoryVisibility, PriorityMedium, IconFog,
				"Low visibility (%s mi) - allow extra travel time", num(*v)))
		}
	}

	if aqi := c.snap.AirQualityIndex; c.prefs.AirQuality && aqi != nil {
		switch {
		case *aqi > 150:
			out = append(out, newSuggestion(CategoryAirQuality, PriorityHigh, IconMask,
				"Unhealthy air (AQI %d) - wear a mask and limit outdoor exertion", *aqi))
		case *aqi > 100:
			out = append(out, newSuggestion(CategoryAirQuality, PriorityMedium, IconMask,
				"Air quality poor for sensitive groups (AQI %d) - take it easy outdoors", *aqi))
		}
	}

	return out
}

func precipitationRules(c *ruleContext) []Suggestion {
	if !c.prefs.Precipitation {
		return nil
	}
	p, t := c.precip(), c.temp()
	var out []Suggestion

	switch {
	case p > 60:
		out = append(out, newSuggestion(CategoryPrecipitation, PriorityHigh, IconUmbrella,
			"Rain very likely (%d%%) - full rain gear (umbrella, jacket, boots)", p))
	case p > 40:
		out = append(out, newSuggestion(CategoryPrecipitation, PriorityHigh, IconUmbrella,
			"Likely to rain (%d%%) - umbrella and waterproof jacket", p))
	case p > 20:
		out = append(out, newSuggestion(CategoryPrecipitation, PriorityMedium, IconCompactUmbrella,
			"Rain possible (%d%%) - definitely bring an umbrella", p))
	case p > 0:
		out = append(out, newSuggestion(CategoryPrecipitation, PriorityLow, IconCompactUmbrella,
			"Only %d%% chance of rain but bring a compact umbrella just in case", p))
	}

	if p > 20 && t < 40 {
		out = append(out, newSuggestion(CategoryPrecipitation, PriorityHigh, IconCoat,
			"Cold rain expected - waterproof AND insulated jacket"))
	}

	switch {
	case p > 20:
		out = append(out, newSuggestion(CategoryFootwear, PriorityMedium, IconBoots,
			"Rain likely - wear waterproof shoes or boots"))
	case p > 0 && t < 40:
		out = append(out, newSuggestion(CategoryFootwear, PriorityLow, IconHikingBoots,
			"Possible wet conditions - waterproof boots recommended"))
	case p > 0:
		out = append(out, newSuggestion(CategoryFootwear, PriorityLow, IconSneakers,
			"Small rain chance - wear shoes you don't mind getting wet"))
	}

	if p > 0 && t >= 28 && t <= 35 {
		out = append(out, newSuggestion(CategoryFootwear, PriorityHigh, IconWarning,
			"Possible ice - definitely wear boots with grip"))
	}

	return out
}

func sunRules(c *ruleContext) []Suggestion {
	var out []Suggestion
	uv, hasUV := c.uv()

	switch c.condition {
	case weather.ConditionClear:
		if c.temp() < 40 {
			out = append(out, newSuggestion(CategorySun, PriorityMedium, IconSunglasses,
				"Cold but bright sun - dress warm and bring sunglasses"))
		} else {
			out = append(out, newSuggestion(CategorySun, PriorityMedium, IconSunglasses,
				"Bright sun - bring sunglasses"))
		}
		if hasUV && uv > 3 {
			out = append(out, newSuggestion(CategorySun, PriorityMedium, IconSun,
				"Strong sun exposure (UV: %s) - wear sunscreen and sunglasses", num(uv)))
		}

	case weather.ConditionPartlyCloudy:
		out = append(out, newSuggestion(CategorySun, PriorityLow, IconSunglasses,
			"Partly cloudy - sun may peek through, bring sunglasses"))
		if hasUV && uv > 5 {
			out = append(out, newSuggestion(CategorySun, PriorityMedium, IconSunglasses,
				"UV still high despite clouds (%s) - sunglasses recommended", num(uv)))
		}
		if _, _, spread := c.tempRange(); spread > 10 {
			out = append(out, newSuggestion(CategoryLayering, PriorityMedium, IconPartlySunny,
				"Mix of sun and clouds - layer up for changing conditions"))
		}

	case weather.ConditionCloudy:
		out = append(out, newSuggestion(CategoryTemperature, PriorityLow, IconFog,
			"Overcast - will feel cooler than forecast suggests"))
		if wind, ok := c.wind(); ok && wind > 15 {
			out = append(out, newSuggestion(CategoryWind, PriorityMedium, IconCloud,
				"Cloudy and windy - dress warmer, feels %s° colder", deg(wind*0.5)))
		}
	}

	if hasUV {
		switch {
		case uv > 8:
			out = append(out, newSuggestion(CategorySun, PriorityHigh, IconSun,
				"Very high UV (%s) - SPF 50, a hat and sunglasses; seek shade midday", num(uv)))
		case uv > 6:
			out = append(out, newSuggestion(CategorySun, PriorityMedium, IconSun,
				"Strong sun (UV: %s) - sunglasses and SPF 30+ sunscreen", num(uv)))
		case uv > 3 && c.condition != weather.ConditionCloudy:
			out = append(out, newSuggestion(CategorySun, PriorityLow, IconSunglasses,
				"Moderate UV (%s) - sunglasses recommended", num(uv)))
		}
	}

	return out
}

func temperatureRules(c *ruleContext) []Suggestion {
	var out []Suggestion

	switch t := c.temp(); {
	case t < 15:
		out = append(out, newSuggestion(CategoryTemperature, PriorityHigh, IconCold,
			"Extreme cold (%s°F) - cover all exposed skin", deg(t)))
	case t < 32:
		out = append(out, newSuggestion(CategoryTemperature, PriorityHigh, IconCoat,
			"Freezing (%s°F) - wear insulated coat", deg(t)))
	case t < 50:
		out = append(out, newSuggestion(CategoryTemperature, PriorityMedium, IconCoat,
			"Cold (%s°F) - jacket needed", deg(t)))
	case t > 85:
		out = append(out, newSuggestion(CategoryTemperature, PriorityMedium, IconDroplet,
			"Hot (%s°F) - stay hydrated, seek shade", deg(t)))
	}

	if c.temp() < 40 && c.condition == weather.ConditionCloudy {
		out = append(out, newSuggestion(CategoryTemperature, PriorityMedium, IconFog,
			"Cold and gray - dress extra warm, no sun to help"))
	}

	return out
}

func windRules(c *ruleContext) []Suggestion {
	wind, ok := c.wind()
	if !ok || wind <= 15 {
		return nil
	}
	var out []Suggestion

	switch {
	case wind > 45:
		out = append(out, newSuggestion(CategoryWind, PriorityHigh, IconWarning,
			"Dangerous winds (%s mph) - stay near buildings, away from trees", deg(wind)))
	case wind > 35:
		if c.prefs.Precipitation {
			out = append(out, newSuggestion(CategoryWind, PriorityHigh, IconCoat,
				"Very windy (%s mph) - skip umbrella, use hooded jacket instead", deg(wind)))
		} else {
			out = append(out, newSuggestion(CategoryWind, PriorityHigh, IconCoat,
				"Very windy (%s mph) - wear a hooded jacket", deg(wind)))
		}
		out = append(out, newSuggestion(CategoryWind, PriorityMedium, IconWind,
			"Strong gusts - secure all loose items, bags, scarves"))
	case wind > 25:
		if c.prefs.Precipitation {
			out = append(out, newSuggestion(CategoryWind, PriorityMedium, IconUmbrella,
				"Windy (%s mph) - umbrella will be difficult to use", deg(wind)))
		}
		out = append(out, newSuggestion(CategoryWind, PriorityLow, IconHat,
			"Strong wind - wear a tight-fitting hat or skip the hat"))
	default:
		out = append(out, newSuggestion(CategoryWind, PriorityLow, IconScarf,
			"Breezy (%s mph) - hats and scarves should be secured", deg(wind)))
	}

	if c.condition == weather.ConditionClear && wind > 25 {
		out = append(out, newSuggestion(CategoryWind, PriorityMedium, IconSunglasses,
			"Sunny but very windy (%s mph) - sunglasses that won't blow off", deg(wind)))
	}
	if c.condition == weather.ConditionCloudy {
		out = append(out, newSuggestion(CategoryWind, PriorityMedium, IconCloud,
			"Cloudy and windy - feels colder than forecast, dress warm"))
	}
	if c.condition == weather.ConditionRain && wind > 20 && c.prefs.Precipitation {
		if wind > 25 {
			out = append(out, newSuggestion(CategoryWind, PriorityHigh, IconUmbrella,
				"Rainy and windy - umbrella may not help, wear hooded raincoat"))
		} else {
			out = append(out, newSuggestion(CategoryWind, PriorityMedium, IconRain,
				"Wet and windy - waterproof everything, avoid umbrellas if wind > 25mph"))
		}
	}

	return out
}

func layeringRules(c *ruleContext) []Suggestion {
	var out []Suggestion

	if lo, hi, spread := c.tempRange(); spread > 10 {
		if hi > c.temp() {
			out = append(out, newSuggestion(CategoryLayering, PriorityMedium, IconShirt,
				"Warming up during event (%s° → %s°) - dress in removable layers", deg(lo), deg(hi)))
		} else {
			out = append(out, newSuggestion(CategoryLayering, PriorityMedium, IconCoat,
				"Cooling down during event (%s° → %s°) - bring an extra layer", deg(hi), deg(lo)))
		}
	}

	if !common.HasAny(c.title, outdoorKeywords...) && c.temp() < 32 {
		out = append(out, newSuggestion(CategoryLayering, PriorityLow, IconBuilding,
			"Buildings tend to overheat - wear layers you can remove indoors"))
	}

	return out
}

// departureRules contrast the weather when leaving with the weather at the event.
func departureRules(c *ruleContext) []Suggestion {
	dep := c.departure
	if dep == nil {
		return nil
	}
	var out []Suggestion
	p := c.precip()

	depCondition := weather.Classify(dep.Condition)
	if depCondition != c.condition {
		switch {
		case depCondition == weather.ConditionClear && c.condition == weather.ConditionCloudy:
			out = append(out, newSuggestion(CategoryComparison, PriorityLow, IconSunglasses,
				"Clear when you leave, cloudy during event - bring sunglasses anyway"))
		case depCondition == weather.ConditionCloudy && c.condition == weather.ConditionRain && c.prefs.Precipitation:
			out = append(out, newSuggestion(CategoryComparison, PriorityMedium, IconCompactUmbrella,
				"Dry when you leave but %d%% rain chance during event - pack umbrella", p))
		}
	}

	if wind, ok := c.wind(); ok && dep.WindSpeed != nil && *dep.WindSpeed < 20 && wind > 30 {
		out = append(out, newSuggestion(CategoryComparison, PriorityMedium, IconWind,
			"Calm winds when leaving but %s mph gusts during event - prepare for wind", deg(wind)))
	}

	if c.prefs.Precipitation && dep.PrecipitationChance < 10 && p > 30 {
		out = append(out, newSuggestion(CategoryComparison, PriorityMedium, IconCompactUmbrella,
			"Dry when you leave but %d%% rain chance during event - pack umbrella", p))
	}

	return out
}

func sidewalkRules(c *ruleContext) []Suggestion {
	if !c.prefs.Precipitation || c.precip() <= 0 || c.temp() >= 40 {
		return nil
	}
	return []Suggestion{newSuggestion(CategoryFootwear, PriorityMedium, IconBoots,
		"Sidewalks may be icy - wear boots with good traction")}
}

// basicRules is the reduced battery used without an hourly series.
var basicRules = []ruleBlock{
	func(c *ruleContext) []Suggestion { return windChillBands(c, false) },
	basicWindRule,
	heatIndexRule,
	basicPrecipitationRule,
	basicSunRule,
	basicTemperatureRule,
}

func basicWindRule(c *ruleContext) []Suggestion {
	if wind, ok := c.wind(); ok && wind > 45 {
		return []Suggestion{newSuggestion(CategoryWind, PriorityHigh, IconWarning,
			"DANGEROUS WINDS (%s mph) - avoid outdoor activities", deg(wind))}
	}
	return nil
}

func basicPrecipitationRule(c *ruleContext) []Suggestion {
	p := c.precip()
	if !c.prefs.Precipitation || p <= 0 {
		return nil
	}
	switch {
	case p > 60:
		return []Suggestion{newSuggestion(CategoryPrecipitation, PriorityHigh, IconUmbrella,
			"Rain very likely (%d%%) - full rain gear", p)}
	case p > 40:
		return []Suggestion{newSuggestion(CategoryPrecipitation, PriorityHigh, IconUmbrella,
			"Likely to rain (%d%%) - umbrella and waterproof jacket", p)}
	case p > 20:
		return []Suggestion{newSuggestion(CategoryPrecipitation, PriorityMedium, IconCompactUmbrella,
			"Rain possible (%d%%) - bring an umbrella", p)}
	default:
		return []Suggestion{newSuggestion(CategoryPrecipitation, PriorityLow, IconCompactUmbrella,
			"Only %d%% chance but bring compact umbrella just in case", p)}
	}
}

func basicSunRule(c *ruleContext) []Suggestion {
	var out []Suggestion
	switch c.condition {
	case weather.ConditionClear:
		out = append(out, newSuggestion(CategorySun, PriorityMedium, IconSunglasses,
			"Bright sun - bring sunglasses"))
	case weather.ConditionPartlyCloudy:
		out = append(out, newSuggestion(CategorySun, PriorityLow, IconSunglasses,
			"Partly cloudy - sun may peek through, bring sunglasses"))
	}
	if uv, ok := c.uv(); ok && uv > 6 {
		out = append(out, newSuggestion(CategorySun, PriorityMedium, IconSun,
			"Strong sun (UV: %s) - sunglasses and SPF 30+", num(uv)))
	}
	return out
}

func basicTemperatureRule(c *ruleContext) []Suggestion {
	switch t := c.temp(); {
	case t < 32:
		return []Suggestion{newSuggestion(CategoryTemperature, PriorityHigh, IconCoat,
			"Freezing (%s°F) - wear insulated coat", deg(t))}
	case t < 50:
		return []Suggestion{newSuggestion(CategoryTemperature, PriorityMedium, IconCoat,
			"Cold (%s°F) - jacket needed", deg(t))}
	}
	return nil
}
