package core

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

var floorGrid = []int64{
	math.MinInt64, math.MinInt64 + 1, math.MinInt32 - 1, -1000, -7, -3, -2, -1, 0,
	1, 2, 3, 7, 1000, math.MaxInt32 + 1, math.MaxInt64 - 1, math.MaxInt64,
}

func TestFloorDivModLaw(t *testing.T) {
	for _, a := range floorGrid {
		for _, b := range floorGrid {
			if b == 0 {
				continue
			}
			q, ok := FloorDivInt64(a, b)
			if !ok {
				if a != math.MinInt64 || b != -1 {
					t.Fatalf("FloorDivInt64(%d, %d) reported overflow", a, b)
				}
				continue
			}
			r := FloorModInt64(a, b)
			lhs := new(big.Int).Mul(big.NewInt(q), big.NewInt(b))
			lhs.Add(lhs, big.NewInt(r))
			if lhs.Cmp(big.NewInt(a)) != 0 {
				t.Fatalf("%d = %d*%d + %d does not hold", a, q, b, r)
			}
			if r != 0 && (r < 0) != (b < 0) {
				t.Fatalf("FloorModInt64(%d, %d) = %d has the wrong sign", a, b, r)
			}
			if new(big.Int).Abs(big.NewInt(r)).Cmp(new(big.Int).Abs(big.NewInt(b))) >= 0 {
				t.Fatalf("|FloorModInt64(%d, %d)| = |%d| is not below |b|", a, b, r)
			}
		}
	}
}

func TestFloorDivExamples(t *testing.T) {
	cases := []struct {
		a, b, q, r int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{7, -2, -4, -1},
		{-7, -2, 3, -1},
		{6, 3, 2, 0},
		{-6, 3, -2, 0},
	}
	for _, tc := range cases {
		q, ok := FloorDivInt64(tc.a, tc.b)
		if !ok || q != tc.q {
			t.Fatalf("FloorDivInt64(%d, %d) = %d, %v; want %d", tc.a, tc.b, q, ok, tc.q)
		}
		if r := FloorModInt64(tc.a, tc.b); r != tc.r {
			t.Fatalf("FloorModInt64(%d, %d) = %d; want %d", tc.a, tc.b, r, tc.r)
		}
	}
}

func TestFixedWidthOverflowDetection(t *testing.T) {
	if _, ok := AddInt32(math.MaxInt32, 1); ok {
		t.Fatalf("expected int32 add overflow")
	}
	if r, ok := AddInt32(math.MaxInt32-1, 1); !ok || r != math.MaxInt32 {
		t.Fatalf("unexpected int32 add result %d, %v", r, ok)
	}
	if _, ok := SubInt32(math.MinInt32, 1); ok {
		t.Fatalf("expected int32 sub overflow")
	}
	if _, ok := MulInt32(1<<16, 1<<16); ok {
		t.Fatalf("expected int32 mul overflow")
	}
	if _, ok := AddInt64(math.MaxInt64, 1); ok {
		t.Fatalf("expected int64 add overflow")
	}
	if _, ok := SubInt64(math.MinInt64, 1); ok {
		t.Fatalf("expected int64 sub overflow")
	}
	if _, ok := MulInt64(math.MinInt64, -1); ok {
		t.Fatalf("expected int64 mul overflow for MinInt64 * -1")
	}
	if _, ok := MulInt64(1<<32, 1<<32); ok {
		t.Fatalf("expected int64 mul overflow")
	}
	if _, ok := NegInt64(math.MinInt64); ok {
		t.Fatalf("expected negation overflow")
	}
	if _, ok := ShiftLeftInt64(1, 63); ok {
		t.Fatalf("expected shift overflow at bit 63")
	}
	if r, ok := ShiftLeftInt64(1, 62); !ok || r != 1<<62 {
		t.Fatalf("1 << 62 = %d, %v", r, ok)
	}
	if !FitsInt32(math.MinInt32) || FitsInt32(math.MaxInt32+1) {
		t.Fatalf("FitsInt32 boundary mismatch")
	}
}

func TestIntegerPromotion(t *testing.T) {
	sum, err := IntAdd(NewInt(math.MaxInt64), NewInt(1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if sum.Kind() != KindBigInt || sum.Inspect() != "9223372036854775808" {
		t.Fatalf("expected promoted bignum, got %s (%s)", sum.Inspect(), sum.Kind())
	}
	back, err := IntSub(sum, NewInt(1))
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	if back.Kind() != KindInt || back.Int() != math.MaxInt64 {
		t.Fatalf("expected demotion to int, got %s", back.Inspect())
	}

	q, err := IntDiv(NewInt(math.MinInt64), NewInt(-1))
	if err != nil {
		t.Fatalf("div: %v", err)
	}
	if q.Inspect() != "9223372036854775808" {
		t.Fatalf("MinInt64 / -1 = %s", q.Inspect())
	}

	p, err := IntPow(NewInt(2), NewInt(100))
	if err != nil {
		t.Fatalf("pow: %v", err)
	}
	if p.Inspect() != "1267650600228229401496703205376" {
		t.Fatalf("2**100 = %s", p.Inspect())
	}
	half, err := IntPow(NewInt(2), NewInt(-1))
	if err != nil || half.Kind() != KindFloat || half.Float() != 0.5 {
		t.Fatalf("2**-1 = %s, %v", half.Inspect(), err)
	}
}

func TestShiftSemantics(t *testing.T) {
	cases := []struct {
		name string
		op   func(l, n Value) (Value, error)
		l, n int64
		want string
	}{
		{"left into bignum", IntShiftLeft, 1, 64, "18446744073709551616"},
		{"left negative count", IntShiftLeft, 8, -2, "2"},
		{"right past width negative", IntShiftRight, -1, 100, "-1"},
		{"right past width positive", IntShiftRight, 12345, 100, "0"},
		{"right negative count", IntShiftRight, 3, -2, "12"},
	}
	for _, tc := range cases {
		got, err := tc.op(NewInt(tc.l), NewInt(tc.n))
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got.Inspect() != tc.want {
			t.Fatalf("%s: got %s want %s", tc.name, got.Inspect(), tc.want)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	if _, err := IntDiv(NewInt(1), NewInt(0)); !errors.Is(err, ErrZeroDivision) {
		t.Fatalf("expected ErrZeroDivision, got %v", err)
	}
	if _, err := IntMod(NewInt(1), NewInt(0)); !errors.Is(err, ErrZeroDivision) {
		t.Fatalf("expected ErrZeroDivision, got %v", err)
	}
	if ErrorType(func() error { _, err := IntDiv(NewInt(1), NewInt(0)); return err }()) != "ZeroDivisionError" {
		t.Fatalf("expected ZeroDivisionError type")
	}
	f, err := IntDiv(NewFloat(1), NewInt(0))
	if err != nil || !math.IsInf(f.Float(), 1) {
		t.Fatalf("1.0 / 0 = %s, %v", f.Inspect(), err)
	}
}

func TestCompareNumbersAcrossRepresentations(t *testing.T) {
	huge, _ := IntShiftLeft(NewInt(1), NewInt(64))
	cases := []struct {
		l, r Value
		want int
		ok   bool
	}{
		{NewInt(1), NewFloat(1), 0, true},
		{NewInt(2), NewFloat(1.5), 1, true},
		{huge, NewFloat(1e19), 1, true},
		{huge, NewInt(math.MaxInt64), 1, true},
		{NewInt(math.MinInt64), huge, -1, true},
		{NewFloat(math.NaN()), NewInt(1), 0, false},
	}
	for i, tc := range cases {
		got, ok := CompareNumbers(tc.l, tc.r)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("case %d: CompareNumbers(%s, %s) = %d, %v", i, tc.l.Inspect(), tc.r.Inspect(), got, ok)
		}
	}
}
