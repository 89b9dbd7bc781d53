package core

import "math/big"

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindFloat:
		return int64(v.data.(float64))
	default:
		return 0
	}
}

// BigInt returns the integer as a fresh big.Int for KindInt and KindBigInt.
func (v Value) BigInt() *big.Int {
	switch v.kind {
	case KindInt:
		return big.NewInt(v.data.(int64))
	case KindBigInt:
		return new(big.Int).Set(v.data.(*big.Int))
	default:
		return nil
	}
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	case KindBigInt:
		f, _ := new(big.Float).SetInt(v.data.(*big.Int)).Float64()
		return f
	default:
		return 0
	}
}

func (v Value) Str() string {
	if v.kind == KindString || v.kind == KindSymbol {
		return v.data.(string)
	}
	return ""
}

func (v Value) Array() *Array {
	if v.kind != KindArray {
		return nil
	}
	return v.data.(*Array)
}

func (v Value) Map() *Map {
	if v.kind != KindHash {
		return nil
	}
	return v.data.(*Map)
}

func (v Value) Object() Receiver {
	if v.kind != KindObject {
		return nil
	}
	return v.data.(Receiver)
}

func (v Value) isInteger() bool { return v.kind == KindInt || v.kind == KindBigInt }

func (v Value) isNumeric() bool {
	return v.kind == KindInt || v.kind == KindBigInt || v.kind == KindFloat
}

// bigRef returns the stored big.Int without copying. Callers must not mutate it.
func (v Value) bigRef() *big.Int {
	if v.kind == KindBigInt {
		return v.data.(*big.Int)
	}
	return big.NewInt(v.Int())
}
