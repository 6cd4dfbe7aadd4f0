package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// DegsToRads converts every element of a slice of degrees to radians.
func DegsToRads(degrees []float64) []float64 {
	rads := make([]float64, len(degrees))
	for i, d := range degrees {
		rads[i] = DegToRad(d)
	}
	return rads
}

// RadsToDegs converts every element of a slice of radians to degrees.
func RadsToDegs(radians []float64) []float64 {
	degs := make([]float64, len(radians))
	for i, r := range radians {
		degs[i] = RadToDeg(r)
	}
	return degs
}

// WrapRad returns the angle equivalent to ang in the half-open interval (-pi, pi].
func WrapRad(ang float64) float64 {
	wrapped := math.Mod(ang, 2*math.Pi)
	switch {
	case wrapped > math.Pi:
		wrapped -= 2 * math.Pi
	case wrapped <= -math.Pi:
		wrapped += 2 * math.Pi
	}
	return wrapped
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Square returns n*n.
func Square(n float64) float64 {
	return n * n
}

// Clamp returns value limited to [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// AllFinite reports whether no value in the slice is NaN or infinite.
func AllFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
