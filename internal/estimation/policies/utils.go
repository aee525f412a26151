package policies

import (
	"math"
)

// epsilon absorbs floating point noise such as 10*0.3 = 3.0000000000000004 before rounding up.
const epsilon = 1e-9

// ceil rounds a non-negative amount up to the next whole unit. Negative amounts become zero and any
// positive amount up to one is a single unit.
func ceil(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v <= 1 {
		return 1
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Ceil(v - epsilon))
}

// ceilDiv returns ceil(v / divisor) with the divisor floored at 1.
func ceilDiv(v, divisor float64) int {
	return ceil(v / guardDivisor(divisor))
}

func guardDivisor(d float64) float64 {
	if math.IsNaN(d) || d < 1 {
		return 1
	}
	return d
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
