// Package ledger provides the checked arithmetic primitives used by all
// accounting code. Amounts are unsigned 64-bit token units; any operation
// that would wrap returns an error instead of silently truncating.
package ledger

import (
	"errors"
	"math/bits"
)

var (
	// ErrOverflow is returned when a checked operation would wrap.
	ErrOverflow = errors.New("math overflow")

	// ErrDivideByZero is returned by MulDiv with a zero denominator.
	ErrDivideByZero = errors.New("division by zero")
)

// Add returns a+b, or ErrOverflow if the sum wraps.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b, or ErrOverflow if b > a.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrOverflow
	}
	return diff, nil
}

// Mul returns a*b, or ErrOverflow if the product does not fit in 64 bits.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// MulDiv returns a*b/den computed with a 128-bit intermediate product, so
// the multiplication cannot overflow before the division. ErrOverflow is
// returned only when the final quotient does not fit in 64 bits.
func MulDiv(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, ErrDivideByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= den {
		return 0, ErrOverflow
	}
	quo, _ := bits.Div64(hi, lo, den)
	return quo, nil
}

// BasisPointsOf returns total*bp/10000 using a widened intermediate.
// Basis points range 0-10000, so the result always fits.
func BasisPointsOf(total uint64, bp uint16) uint64 {
	v, _ := MulDiv(total, uint64(bp), 10000)
	return v
}

// Isqrt returns the floor of the square root of n.
func Isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	// Newton's method converges in a handful of iterations for 64 bits.
	x := uint64(1) << ((bits.Len64(n) + 1) / 2)
	for {
		y := (x + n/x) / 2
		if y >= x {
			return x
		}
		x = y
	}
}
