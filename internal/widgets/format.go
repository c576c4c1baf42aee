package widgets

import (
	"math"
	"strconv"
)

// FormatTemperature formats degrees Celsius with one decimal: "23.5°C".
func FormatTemperature(v float64) string {
	return formatFixed(v, 1) + "°C"
}

// FormatHumidity formats relative humidity with one decimal: "45.2%".
func FormatHumidity(v float64) string {
	return formatFixed(v, 1) + "%"
}

// FormatAirQuality formats air quality as whole PPM: "88 PPM".
func FormatAirQuality(v float64) string {
	return formatFixed(v, 0) + " PPM"
}

// formatFixed rounds half away from zero to the given decimals.
func formatFixed(v float64, decimals int) string {
	p := math.Pow(10, float64(decimals))
	r := math.Round(v*p) / p
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', decimals, 64)
}
