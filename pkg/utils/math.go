package utils

import "math"

// Round rounds v to the given number of decimal places, halves away from zero.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// Round2 rounds v to two decimal places. Distances and jump ranges are always
// displayed and compared at this precision.
func Round2(v float64) float64 {
	return Round(v, 2)
}

// RoundHalfEven rounds v to the nearest integer, ties to even.
func RoundHalfEven(v float64) int {
	return int(math.RoundToEven(v))
}
