package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt, KindBigInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindArray:
		return "array"
	case KindHash:
		return "hash"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// String renders the value the way `to_s` does.
func (v Value) String() string {
	switch v.kind {
	case KindString, KindSymbol:
		return v.data.(string)
	case KindNil:
		return ""
	default:
		return v.Inspect()
	}
}

// Inspect renders the value as a literal.
func (v Value) Inspect() string {
	var b strings.Builder
	inspectInto(&b, v, make(map[any]struct{}))
	return b.String()
}

func inspectInto(b *strings.Builder, v Value, seen map[any]struct{}) {
	switch v.kind {
	case KindNil:
		b.WriteString("nil")
	case KindBool:
		if v.Bool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindInt:
		b.WriteString(strconv.FormatInt(v.data.(int64), 10))
	case KindBigInt:
		b.WriteString(v.bigRef().String())
	case KindFloat:
		b.WriteString(formatFloat(v.data.(float64)))
	case KindString:
		b.WriteString(strconv.Quote(v.data.(string)))
	case KindSymbol:
		b.WriteByte(':')
		b.WriteString(v.data.(string))
	case KindArray:
		arr := v.data.(*Array)
		if _, ok := seen[arr]; ok {
			b.WriteString("[...]")
			return
		}
		seen[arr] = struct{}{}
		defer delete(seen, arr)
		b.WriteByte('[')
		for i := 0; i < arr.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			inspectInto(b, arr.at(i), seen)
		}
		b.WriteByte(']')
	case KindHash:
		m := v.data.(*Map)
		if _, ok := seen[m]; ok {
			b.WriteString("{...}")
			return
		}
		seen[m] = struct{}{}
		defer delete(seen, m)
		b.WriteByte('{')
		first := true
		m.forEach(func(key, value Value) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			inspectInto(b, key, seen)
			b.WriteString("=>")
			inspectInto(b, value, seen)
			return true
		})
		b.WriteByte('}')
	case KindObject:
		if s, ok := v.data.(fmt.Stringer); ok {
			b.WriteString(s.String())
			return
		}
		fmt.Fprintf(b, "#<%T>", v.data)
	default:
		fmt.Fprintf(b, "<%v>", v.kind)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		return mantissa + "e" + exp
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Truthy reports language truthiness: only nil and false are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool()
	default:
		return true
	}
}
