package utils

import "math"

// RoundDecimal rounds half away from zero to the given number of decimals.
// RoundDecimal(97.456, 2) returns 97.46.
func RoundDecimal(value float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.Round(value*pow) / pow
}
