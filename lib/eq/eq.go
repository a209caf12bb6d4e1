/*package eq is a simple package for telling whether two arrays are equal to
one another.*/
package eq

import (
	"math"
)

// Ints returns true if two []int arrays are the same and false otherwise.
func Ints(x, y []int) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float32s returns true if two []float32 arrays are the same and false
// otherwise.
func Float32s(x, y []float32) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float64s returns true if two []float64 arrays are the same and false
// otherwise.
func Float64s(x, y []float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float32Bits returns true if two []float32 arrays have identical bit
// patterns and false otherwise. Unlike Float32s, NaNs compare equal to
// themselves and 0 and -0 are different.
func Float32Bits(x, y []float32) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if math.Float32bits(x[i]) != math.Float32bits(y[i]) { return false }
	}
	return true
}

// Float64sEps returns true if the two []float64 arrays are within eps of one
// another and false otherwise.
func Float64sEps(x, y []float64, eps float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] + eps < y[i] || x[i] - eps > y[i] {
			return false
		}
	}
	return true
}
