package weather

import "math"

// WindChill applies the NWS wind chill formula. Temperatures above 50°F or
// winds under 3 mph are returned unchanged.
func WindChill(tempF, windMph float64) float64 {
	if tempF > 50 || windMph < 3 {
		return tempF
	}
	v := math.Pow(windMph, 0.16)
	return math.Round(35.74 + 0.6215*tempF - 35.75*v + 0.4275*tempF*v)
}

// HeatIndex applies the Rothfusz regression. Temperatures under 80°F or
// humidity under 40% are returned unchanged.
func HeatIndex(tempF float64, humidityPct float64) float64 {
	if tempF < 80 || humidityPct < 40 {
		return tempF
	}
	t, h := tempF, humidityPct
	hi := -42.379 + 2.04901523*t + 10.14333127*h - 0.22475541*t*h -
		6.83783e-3*t*t - 5.481717e-2*h*h +
		1.22874e-3*t*t*h + 8.5282e-4*t*h*h -
		1.99e-6*t*t*h*h
	return math.Round(hi)
}
