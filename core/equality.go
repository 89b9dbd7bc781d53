package core

import (
	"hash/maphash"
	"strings"
)

var hashSeed = maphash.MakeSeed()

const (
	hashSaltNil    = 0x9e3779b97f4a7c15
	hashSaltTrue   = 0xbf58476d1ce4e5b9
	hashSaltFalse  = 0x94d049bb133111eb
	hashSaltString = 0x2545f4914f6cdd1d
	hashSaltSymbol = 0x5851f42d4c957f2d
	hashSaltArray  = 0x14057b7ef767814f
	hashSaltMap    = 0x27bb2ee687b0b0fd
	maxHashDepth   = 64
)

// valuesEqual is language `==`.
func valuesEqual(rt Runtime, a, b Value) (bool, error) {
	if a.isNumeric() && b.isNumeric() {
		cmp, ok := CompareNumbers(a, b)
		return ok && cmp == 0, nil
	}
	switch a.kind {
	case KindNil:
		return b.kind == KindNil, nil
	case KindBool:
		return b.kind == KindBool && a.Bool() == b.Bool(), nil
	case KindString, KindSymbol:
		return a.kind == b.kind && a.data.(string) == b.data.(string), nil
	case KindArray:
		if b.kind != KindArray {
			return false, nil
		}
		return a.Array().Equal(rt, b.Array())
	case KindHash:
		if b.kind != KindHash {
			return false, nil
		}
		return a.Map().Equal(rt, b.Map())
	case KindObject:
		if rt == nil {
			return b.kind == KindObject && a.data == b.data, nil
		}
		res, err := rt.CallMethod(a, "==", []Value{b}, nil)
		if err != nil {
			return false, err
		}
		return rt.IsTruthy(res), nil
	default:
		return false, nil
	}
}

// valuesEql is language `eql?`: like == but without numeric type coercion.
func valuesEql(rt Runtime, a, b Value) (bool, error) {
	switch a.kind {
	case KindInt:
		return b.kind == KindInt && a.data.(int64) == b.data.(int64), nil
	case KindBigInt:
		return b.kind == KindBigInt && a.bigRef().Cmp(b.bigRef()) == 0, nil
	case KindFloat:
		return b.kind == KindFloat && a.data.(float64) == b.data.(float64), nil
	case KindArray:
		if b.kind != KindArray {
			return false, nil
		}
		x, y := a.Array(), b.Array()
		if x == y {
			return true, nil
		}
		if x.length != y.length {
			return false, nil
		}
		for i := 0; i < x.length && i < y.length; i++ {
			ok, err := valuesEql(rt, x.at(i), y.at(i))
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case KindObject:
		if rt == nil {
			return b.kind == KindObject && a.data == b.data, nil
		}
		res, err := rt.CallMethod(a, "eql?", []Value{b}, nil)
		if err != nil {
			return false, err
		}
		return rt.IsTruthy(res), nil
	default:
		return valuesEqual(rt, a, b)
	}
}

// valueHash is language `hash`. Values that are eql? hash equal.
func valueHash(rt Runtime, v Value) (uint64, error) {
	return valueHashDepth(rt, v, 0)
}

func valueHashDepth(rt Runtime, v Value, depth int) (uint64, error) {
	switch v.kind {
	case KindNil:
		return hashSaltNil, nil
	case KindBool:
		if v.Bool() {
			return hashSaltTrue, nil
		}
		return hashSaltFalse, nil
	case KindInt:
		return maphash.Comparable(hashSeed, v.data.(int64)), nil
	case KindBigInt:
		b := v.bigRef()
		return maphash.Bytes(hashSeed, b.Bytes()) ^ uint64(b.Sign()+1), nil
	case KindFloat:
		return maphash.Comparable(hashSeed, v.data.(float64)) ^ 1, nil
	case KindString:
		return maphash.String(hashSeed, v.data.(string)) ^ hashSaltString, nil
	case KindSymbol:
		return maphash.String(hashSeed, v.data.(string)) ^ hashSaltSymbol, nil
	case KindArray:
		arr := v.Array()
		h := uint64(hashSaltArray) ^ uint64(arr.length)
		if depth >= maxHashDepth {
			return h, nil
		}
		for i := 0; i < arr.length; i++ {
			eh, err := valueHashDepth(rt, arr.at(i), depth+1)
			if err != nil {
				return 0, err
			}
			h = h*31 + eh
		}
		return h, nil
	case KindHash:
		m := v.Map()
		h := uint64(hashSaltMap) ^ uint64(m.Len())
		if depth >= maxHashDepth {
			return h, nil
		}
		var err error
		m.forEach(func(key, value Value) bool {
			var kh, vh uint64
			if kh, err = valueHashDepth(rt, key, depth+1); err != nil {
				return false
			}
			if vh, err = valueHashDepth(rt, value, depth+1); err != nil {
				return false
			}
			h += kh*7 + vh
			return true
		})
		return h, err
	case KindObject:
		if rt == nil {
			return maphash.Comparable(hashSeed, v.data), nil
		}
		res, err := rt.CallMethod(v, "hash", nil, nil)
		if err != nil {
			return 0, err
		}
		if !res.isInteger() {
			return 0, typeMismatch("hash must return an Integer, got %s", res.kind)
		}
		return uint64(res.bigRef().Int64()), nil
	default:
		return 0, typeMismatch("unhashable value %s", v.kind)
	}
}

// compareValues is language `<=>` for sorting, min and max.
func compareValues(rt Runtime, a, b Value) (int, error) {
	if a.isNumeric() && b.isNumeric() {
		if cmp, ok := CompareNumbers(a, b); ok {
			return cmp, nil
		}
		return 0, comparisonFailed(a, b)
	}
	if (a.kind == KindString || a.kind == KindSymbol) && a.kind == b.kind {
		return strings.Compare(a.data.(string), b.data.(string)), nil
	}
	if a.kind == KindArray && b.kind == KindArray {
		x, y := a.Array(), b.Array()
		for i := 0; i < x.length && i < y.length; i++ {
			cmp, err := compareValues(rt, x.at(i), y.at(i))
			if err != nil || cmp != 0 {
				return cmp, err
			}
		}
		return sign(x.length - y.length), nil
	}
	if a.kind == KindObject && rt != nil {
		res, err := rt.CallMethod(a, "<=>", []Value{b}, nil)
		if err != nil {
			return 0, err
		}
		if res.isInteger() {
			return res.bigRef().Sign(), nil
		}
	}
	return 0, comparisonFailed(a, b)
}

func comparisonFailed(a, b Value) error {
	return argumentError("comparison of %s with %s failed", a.kind, b.Inspect())
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
