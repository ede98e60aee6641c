// Package fixed implements Q16.16 fixed-point arithmetic for the simulation.
// It contains no external dependencies and no floating point on any value
// derivation path: two peers running on different hardware must narrow every
// product and quotient to the identical 32-bit result, which rules out native
// float promotion entirely. Float conversions exist only for the config and
// presentation boundaries.
package fixed

import (
	"fmt"
	"math"
)

// Fx is a Q16.16 fixed-point value: 16 integer bits, 16 fractional bits.
type Fx = int32

// One is 1.0 in Q16.16.
const One Fx = 1 << 16

// FromFloat converts a float to fixed-point. Boundary use only (config, UI);
// never call this while stepping the simulation.
func FromFloat(f float64) Fx {
	return Fx(f * float64(One))
}

// ToFloat converts a fixed-point value to a float. Boundary use only.
func ToFloat(v Fx) float64 {
	return float64(v) / float64(One)
}

// Mul multiplies two fixed-point values, widening to 64 bits before the
// shift so the intermediate product cannot overflow. Panics if the narrowed
// result does not fit in 32 bits: that is a config error, not a runtime
// condition, and silently wrapping it would cause undetectable divergence.
func Mul(a, b Fx) Fx {
	r := (int64(a) * int64(b)) >> 16
	return narrow(r)
}

// Div divides a by b, pre-shifting the dividend by 16 bits. Integer division
// truncates toward zero on every platform Go targets. Panics on a zero
// divisor or 32-bit overflow of the quotient.
func Div(a, b Fx) Fx {
	if b == 0 {
		panic("fixed: division by zero")
	}
	r := (int64(a) << 16) / int64(b)
	return narrow(r)
}

// Abs returns the absolute value of a.
func Abs(a Fx) Fx {
	if a < 0 {
		return -a
	}
	return a
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi Fx) Fx {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func narrow(r int64) Fx {
	if r > math.MaxInt32 || r < math.MinInt32 {
		panic(fmt.Sprintf("fixed: overflow narrowing %d to 32 bits", r))
	}
	return Fx(r)
}
