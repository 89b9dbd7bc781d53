package core

import "math/big"

func NewNil() Value                { return Value{kind: KindNil} }
func NewBool(b bool) Value         { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value         { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value     { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value     { return Value{kind: KindString, data: s} }
func NewSymbol(name string) Value  { return Value{kind: KindSymbol, data: name} }
func NewArrayValue(a *Array) Value { return Value{kind: KindArray, data: a} }
func NewMapValue(m *Map) Value     { return Value{kind: KindHash, data: m} }
func NewObject(r Receiver) Value   { return Value{kind: KindObject, data: r} }

// NewBigInt wraps an arbitrary-precision integer. Values inside the int64
// range are demoted to KindInt so every integer has exactly one representation.
func NewBigInt(b *big.Int) Value {
	if b.IsInt64() {
		return NewInt(b.Int64())
	}
	return Value{kind: KindBigInt, data: new(big.Int).Set(b)}
}

// ArrayOf builds a literal array through the builder so the literal gets the
// tightest storage for its elements.
func ArrayOf(values ...Value) Value {
	return NewArrayValue(NewArrayFrom(nil, values))
}

// Ints is a convenience for literal integer arrays.
func Ints(values ...int64) Value {
	b := NewArrayBuilder(nil, len(values))
	for _, v := range values {
		b.Append(NewInt(v))
	}
	return NewArrayValue(b.Finish())
}
