package core

import (
	"math"
	"math/big"

	"fortio.org/safecast"
)

// FitsInt32 reports whether v is representable as a signed 32-bit integer.
func FitsInt32(v int64) bool {
	_, err := safecast.Conv[int32](v)
	return err == nil
}

func AddInt32(a, b int32) (int32, bool) {
	r, err := safecast.Conv[int32](int64(a) + int64(b))
	return r, err == nil
}

func SubInt32(a, b int32) (int32, bool) {
	r, err := safecast.Conv[int32](int64(a) - int64(b))
	return r, err == nil
}

func MulInt32(a, b int32) (int32, bool) {
	r, err := safecast.Conv[int32](int64(a) * int64(b))
	return r, err == nil
}

func AddInt64(a, b int64) (int64, bool) {
	s := a + b
	return s, (a^s)&(b^s) >= 0
}

func SubInt64(a, b int64) (int64, bool) {
	s := a - b
	return s, (a^b)&(a^s) >= 0
}

func MulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return r, false
	}
	return r, r/b == a
}

func NegInt64(a int64) (int64, bool) {
	return -a, a != math.MinInt64
}

// ShiftLeftInt64 shifts a left by n bits, reporting false once the result no
// longer fits. A negative n shifts right.
func ShiftLeftInt64(a int64, n int64) (int64, bool) {
	if n < 0 {
		if n == math.MinInt64 {
			n++
		}
		return ShiftRightInt64(a, -n), true
	}
	if a == 0 {
		return 0, true
	}
	if n >= 63 {
		return 0, false
	}
	r := a << uint(n)
	return r, r>>uint(n) == a
}

// ShiftRightInt64 is an arithmetic right shift; shifting every bit out gives
// 0 for non-negative a and -1 for negative a. A negative n shifts left and
// saturates to 0 on overflow, so callers needing promotion use ShiftLeftInt64.
func ShiftRightInt64(a int64, n int64) int64 {
	if n < 0 {
		if n == math.MinInt64 {
			return 0
		}
		r, ok := ShiftLeftInt64(a, -n)
		if !ok {
			return 0
		}
		return r
	}
	if n >= 63 {
		if a < 0 {
			return -1
		}
		return 0
	}
	return a >> uint(n)
}

// FloorDivInt64 divides rounding toward negative infinity. b must be non-zero.
// The only overflowing case is MinInt64 / -1.
func FloorDivInt64(a, b int64) (int64, bool) {
	switch {
	case b == -1:
		return NegInt64(a)
	case b > 0:
		if a >= 0 {
			return a / b, true
		}
		return (a+1)/b - 1, true
	case a > 0:
		return (a-1)/b - 1, true
	default:
		return a / b, true
	}
}

// FloorModInt64 returns the remainder with the sign of b. b must be non-zero.
func FloorModInt64(a, b int64) int64 {
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func floorDivModBig(a, b *big.Int) (*big.Int, *big.Int) {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && r.Sign() != b.Sign() {
		q.Sub(q, big.NewInt(1))
		r.Add(r, b)
	}
	return q, r
}

func floorModFloat(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}
