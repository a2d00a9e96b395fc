package logic

import "math"

// Magnus approximation constants.
const (
	magnusA = 17.27
	magnusB = 237.7
)

// MinHumidityPct is the floor applied to humidity readings that are not
// strictly positive, where ln(H/100) is undefined.
const MinHumidityPct = 0.01

// DewPoint returns the dew point in °C for the given temperature and
// relative humidity. Humidity <= 0 (or NaN) is raised to MinHumidityPct.
func DewPoint(tempC, humidityPct float64) float64 {
	if !(humidityPct > 0) {
		humidityPct = MinHumidityPct
	}
	alpha := (magnusA*tempC)/(magnusB+tempC) + math.Log(humidityPct/100.0)
	return (magnusB * alpha) / (magnusA - alpha)
}

// Spread returns the temperature minus the dew point.
func Spread(tempC, humidityPct float64) float64 {
	return tempC - DewPoint(tempC, humidityPct)
}

// Classify maps a spread to a comfort state. The threshold is inclusive on
// the wet side.
func Classify(spread float64) Comfort {
	if spread <= ComfortThreshold {
		return ComfortWet
	}
	return ComfortGood
}
