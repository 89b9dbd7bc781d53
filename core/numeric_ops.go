package core

import (
	"math"
	"math/big"
)

// maxShiftBits caps left shifts that would otherwise allocate unbounded
// bignums.
const maxShiftBits = 1 << 24

func IntAdd(l, r Value) (Value, error) {
	if l.kind == KindInt && r.kind == KindInt {
		if s, ok := AddInt64(l.Int(), r.Int()); ok {
			return NewInt(s), nil
		}
	}
	if l.isInteger() && r.isInteger() {
		return NewBigInt(new(big.Int).Add(l.bigRef(), r.bigRef())), nil
	}
	if l.isNumeric() && r.isNumeric() {
		return NewFloat(l.Float() + r.Float()), nil
	}
	return NewNil(), typeMismatch("%s can't be coerced into %s", r.kind, l.kind)
}

func IntSub(l, r Value) (Value, error) {
	if l.kind == KindInt && r.kind == KindInt {
		if s, ok := SubInt64(l.Int(), r.Int()); ok {
			return NewInt(s), nil
		}
	}
	if l.isInteger() && r.isInteger() {
		return NewBigInt(new(big.Int).Sub(l.bigRef(), r.bigRef())), nil
	}
	if l.isNumeric() && r.isNumeric() {
		return NewFloat(l.Float() - r.Float()), nil
	}
	return NewNil(), typeMismatch("%s can't be coerced into %s", r.kind, l.kind)
}

func IntMul(l, r Value) (Value, error) {
	if l.kind == KindInt && r.kind == KindInt {
		if p, ok := MulInt64(l.Int(), r.Int()); ok {
			return NewInt(p), nil
		}
	}
	if l.isInteger() && r.isInteger() {
		return NewBigInt(new(big.Int).Mul(l.bigRef(), r.bigRef())), nil
	}
	if l.isNumeric() && r.isNumeric() {
		return NewFloat(l.Float() * r.Float()), nil
	}
	return NewNil(), typeMismatch("%s can't be coerced into %s", r.kind, l.kind)
}

// IntDiv is floor division for integers and true division once a float is
// involved.
func IntDiv(l, r Value) (Value, error) {
	if l.isInteger() && r.isInteger() {
		if r.kind == KindInt && r.Int() == 0 {
			return NewNil(), zeroDivision()
		}
		if l.kind == KindInt && r.kind == KindInt {
			if q, ok := FloorDivInt64(l.Int(), r.Int()); ok {
				return NewInt(q), nil
			}
		}
		q, _ := floorDivModBig(l.bigRef(), r.bigRef())
		return NewBigInt(q), nil
	}
	if l.isNumeric() && r.isNumeric() {
		return NewFloat(l.Float() / r.Float()), nil
	}
	return NewNil(), typeMismatch("%s can't be coerced into %s", r.kind, l.kind)
}

func IntMod(l, r Value) (Value, error) {
	if l.isInteger() && r.isInteger() {
		if r.kind == KindInt && r.Int() == 0 {
			return NewNil(), zeroDivision()
		}
		if l.kind == KindInt && r.kind == KindInt {
			return NewInt(FloorModInt64(l.Int(), r.Int())), nil
		}
		_, m := floorDivModBig(l.bigRef(), r.bigRef())
		return NewBigInt(m), nil
	}
	if l.isNumeric() && r.isNumeric() {
		return NewFloat(floorModFloat(l.Float(), r.Float())), nil
	}
	return NewNil(), typeMismatch("%s can't be coerced into %s", r.kind, l.kind)
}

// IntPow raises l to r. Negative integer exponents produce floats.
func IntPow(l, r Value) (Value, error) {
	if l.isInteger() && r.kind == KindInt {
		exp := r.Int()
		if exp < 0 {
			return NewFloat(math.Pow(l.Float(), float64(exp))), nil
		}
		if l.kind == KindInt {
			if p, ok := powInt64(l.Int(), exp); ok {
				return NewInt(p), nil
			}
		}
		if exp > maxShiftBits {
			return NewNil(), argumentError("exponent %d too large", exp)
		}
		return NewBigInt(new(big.Int).Exp(l.bigRef(), big.NewInt(exp), nil)), nil
	}
	if l.isNumeric() && r.isNumeric() {
		return NewFloat(math.Pow(l.Float(), r.Float())), nil
	}
	return NewNil(), typeMismatch("%s can't be coerced into %s", r.kind, l.kind)
}

func powInt64(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			var ok bool
			if result, ok = MulInt64(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			var ok bool
			if base, ok = MulInt64(base, base); !ok {
				return 0, false
			}
		}
	}
	return result, true
}

func IntNegate(v Value) (Value, error) {
	switch v.kind {
	case KindInt:
		if n, ok := NegInt64(v.Int()); ok {
			return NewInt(n), nil
		}
		return NewBigInt(new(big.Int).Neg(v.bigRef())), nil
	case KindBigInt:
		return NewBigInt(new(big.Int).Neg(v.bigRef())), nil
	case KindFloat:
		return NewFloat(-v.Float()), nil
	default:
		return NewNil(), typeMismatch("can't negate %s", v.kind)
	}
}

func shiftCount(n Value) (int64, error) {
	switch n.kind {
	case KindInt:
		return n.Int(), nil
	case KindBigInt:
		if n.bigRef().Sign() < 0 {
			return math.MinInt64 + 1, nil
		}
		return math.MaxInt64, nil
	default:
		return 0, typeMismatch("no implicit conversion of %s into Integer", n.kind)
	}
}

// IntShiftLeft shifts l by n bits; negative n shifts right.
func IntShiftLeft(l, n Value) (Value, error) {
	if !l.isInteger() {
		return NewNil(), typeMismatch("%s does not support <<", l.kind)
	}
	count, err := shiftCount(n)
	if err != nil {
		return NewNil(), err
	}
	if count < 0 {
		return IntShiftRight(l, NewInt(-count))
	}
	if l.kind == KindInt {
		if r, ok := ShiftLeftInt64(l.Int(), count); ok {
			return NewInt(r), nil
		}
	}
	if l.bigRef().Sign() == 0 {
		return NewInt(0), nil
	}
	if count > maxShiftBits {
		return NewNil(), argumentError("shift width too big")
	}
	return NewBigInt(new(big.Int).Lsh(l.bigRef(), uint(count))), nil
}

// IntShiftRight shifts l right by n bits; negative n shifts left.
func IntShiftRight(l, n Value) (Value, error) {
	if !l.isInteger() {
		return NewNil(), typeMismatch("%s does not support >>", l.kind)
	}
	count, err := shiftCount(n)
	if err != nil {
		return NewNil(), err
	}
	if count < 0 {
		return IntShiftLeft(l, NewInt(-count))
	}
	if l.kind == KindInt {
		return NewInt(ShiftRightInt64(l.Int(), count)), nil
	}
	if count > math.MaxInt32 {
		if l.bigRef().Sign() < 0 {
			return NewInt(-1), nil
		}
		return NewInt(0), nil
	}
	return NewBigInt(new(big.Int).Rsh(l.bigRef(), uint(count))), nil
}

func IntAnd(l, r Value) (Value, error) {
	return bitwise(l, r, "&", func(a, b int64) int64 { return a & b }, (*big.Int).And)
}

func IntOr(l, r Value) (Value, error) {
	return bitwise(l, r, "|", func(a, b int64) int64 { return a | b }, (*big.Int).Or)
}

func IntXor(l, r Value) (Value, error) {
	return bitwise(l, r, "^", func(a, b int64) int64 { return a ^ b }, (*big.Int).Xor)
}

func bitwise(l, r Value, op string, small func(a, b int64) int64, wide func(z, x, y *big.Int) *big.Int) (Value, error) {
	if !l.isInteger() || !r.isInteger() {
		return NewNil(), typeMismatch("%s %s %s is not supported", l.kind, op, r.kind)
	}
	if l.kind == KindInt && r.kind == KindInt {
		return NewInt(small(l.Int(), r.Int())), nil
	}
	return NewBigInt(wide(new(big.Int), l.bigRef(), r.bigRef())), nil
}

// CompareNumbers implements <=> across int, bignum and float operands. ok is
// false when either side is not numeric or a NaN is involved.
func CompareNumbers(l, r Value) (cmp int, ok bool) {
	if !l.isNumeric() || !r.isNumeric() {
		return 0, false
	}
	switch {
	case l.kind == KindInt && r.kind == KindInt:
		a, b := l.Int(), r.Int()
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	case l.kind == KindFloat && r.kind == KindFloat:
		a, b := l.Float(), r.Float()
		if math.IsNaN(a) || math.IsNaN(b) {
			return 0, false
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	case l.kind != KindFloat && r.kind != KindFloat:
		return l.bigRef().Cmp(r.bigRef()), true
	default:
		lf, lok := exactFloat(l)
		rf, rok := exactFloat(r)
		if !lok || !rok {
			return 0, false
		}
		return lf.Cmp(rf), true
	}
}

func exactFloat(v Value) (*big.Float, bool) {
	if v.kind == KindFloat {
		f := v.Float()
		if math.IsNaN(f) {
			return nil, false
		}
		return new(big.Float).SetFloat64(f), true
	}
	return new(big.Float).SetInt(v.bigRef()), true
}

// NumericArith applies a binary arithmetic operator by name.
func NumericArith(op string, l, r Value) (Value, error) {
	switch op {
	case "+":
		return IntAdd(l, r)
	case "-":
		return IntSub(l, r)
	case "*":
		return IntMul(l, r)
	case "/":
		return IntDiv(l, r)
	case "%", "modulo":
		return IntMod(l, r)
	case "**":
		return IntPow(l, r)
	case "<<":
		return IntShiftLeft(l, r)
	case ">>":
		return IntShiftRight(l, r)
	case "&":
		return IntAnd(l, r)
	case "|":
		return IntOr(l, r)
	case "^":
		return IntXor(l, r)
	default:
		return NewNil(), noMethod(op, l)
	}
}
