// Package frac implements fracunits, the Q32.32 fixed-point scalar used for
// every coordinate and length in cellspace.
//
// A fracunit value is a plain int64 whose low 32 bits hold the fractional
// part. Integer arithmetic keeps simulations bit-for-bit reproducible across
// machines; float64 conversions exist only for presentation (drawing, tweens,
// logs).
package frac

import (
	"math"
	"math/bits"
)

// Q32.32 constants
const (
	Bits = 32
	Unit = int64(1) << Bits
	Mask = Unit - 1
	Half = Unit >> 1
)

// --- Conversion ---

func FromInt(i int) int64       { return int64(i) << Bits }
func ToInt(f int64) int         { return int(f >> Bits) }
func FromFloat(f float64) int64 { return int64(math.Round(f * float64(Unit))) }
func ToFloat(f int64) float64   { return float64(f) / float64(Unit) }

// Floor rounds toward negative infinity, keeping the fracunit scale.
func Floor(f int64) int64 { return f &^ Mask }

// Ceil rounds toward positive infinity, keeping the fracunit scale.
func Ceil(f int64) int64 { return Floor(f + Mask) }

// Round rounds half away from zero, keeping the fracunit scale.
func Round(f int64) int64 {
	if f < 0 {
		return -Floor(-f + Half)
	}
	return Floor(f + Half)
}

// --- Arithmetic ---

// Mul multiplies two fracunit values with a 128-bit intermediate.
// Results that do not fit are saturated.
func Mul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	negative := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(absU(a), absU(b))
	// Q64.64 -> Q32.32
	if hi>>(Bits-1) != 0 {
		return saturate(negative)
	}
	result := hi<<Bits | lo>>Bits
	if negative {
		return -int64(result)
	}
	return int64(result)
}

// Div divides a by b. Division by zero returns 0; overflow saturates.
func Div(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	negative := (a < 0) != (b < 0)
	ua, ub := absU(a), absU(b)

	// a << 32 as 128-bit
	hi := ua >> Bits
	lo := ua << Bits
	if hi >= ub {
		return saturate(negative)
	}
	quo, _ := bits.Div64(hi, lo, ub)
	if quo > math.MaxInt64 {
		return saturate(negative)
	}
	if negative {
		return -int64(quo)
	}
	return int64(quo)
}

// MulFloat scales a fracunit value by a float64 factor, rounding to nearest.
// Used where a trigonometric ratio meets a fixed-point length.
func MulFloat(f int64, factor float64) int64 {
	return int64(math.Round(float64(f) * factor))
}

// FloorDiv returns floor(a / b) as a plain integer. b must be positive.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && (a < 0) {
		q--
	}
	return q
}

func Abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func Max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi int64) int64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// --- Roots ---

// Sqrt returns the fracunit square root of x, floored to the nearest
// representable value. Non-positive input returns 0.
func Sqrt(x int64) int64 {
	if x <= 0 {
		return 0
	}
	// sqrt(x / 2^32) * 2^32 == isqrt(x << 32)
	return int64(isqrt128(uint64(x)>>(64-Bits), uint64(x)<<Bits))
}

// Hypot returns sqrt(x² + y²) for fracunit x and y, exact to one fracunit
// step. Inputs use the full int64 range without overflow.
func Hypot(x, y int64) int64 {
	ax, ay := absU(x), absU(y)
	xh, xl := bits.Mul64(ax, ax)
	yh, yl := bits.Mul64(ay, ay)
	lo, carry := bits.Add64(xl, yl, 0)
	hi, _ := bits.Add64(xh, yh, carry)
	r := isqrt128(hi, lo)
	if r > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(r)
}

// CmpHypot compares sqrt(x² + y²) with d exactly, returning -1, 0 or +1.
func CmpHypot(x, y, d int64) int {
	if d < 0 {
		return 1
	}
	ax, ay := absU(x), absU(y)
	xh, xl := bits.Mul64(ax, ax)
	yh, yl := bits.Mul64(ay, ay)
	lo, carry := bits.Add64(xl, yl, 0)
	hi, _ := bits.Add64(xh, yh, carry)
	dh, dl := sq(uint64(d))
	return cmp128(hi, lo, dh, dl)
}

// isqrt128 returns floor(sqrt(hi:lo)). The float estimate lands within a few
// units of the answer; the integer correction makes it exact.
func isqrt128(hi, lo uint64) uint64 {
	if hi == 0 && lo == 0 {
		return 0
	}
	est := math.Sqrt(float64(hi)*0x1p64 + float64(lo))
	var r uint64
	if est >= 0x1p64 {
		r = math.MaxUint64
	} else {
		r = uint64(est)
	}
	for r > 0 {
		rh, rl := sq(r)
		if cmp128(rh, rl, hi, lo) <= 0 {
			break
		}
		r--
	}
	for r < math.MaxUint64 {
		nh, nl := sq(r + 1)
		if cmp128(nh, nl, hi, lo) > 0 {
			break
		}
		r++
	}
	return r
}

func sq(r uint64) (uint64, uint64) { return bits.Mul64(r, r) }

func cmp128(ah, al, bh, bl uint64) int {
	switch {
	case ah != bh:
		if ah < bh {
			return -1
		}
		return 1
	case al < bl:
		return -1
	case al > bl:
		return 1
	}
	return 0
}

func absU(x int64) uint64 {
	if x < 0 {
		return uint64(-x)
	}
	return uint64(x)
}

func saturate(negative bool) int64 {
	if negative {
		return math.MinInt64
	}
	return math.MaxInt64
}
