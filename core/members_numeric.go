package core

import (
	"math"
	"math/big"
)

func integerMember(property string) (BuiltinFunc, bool) {
	switch property {
	case "+", "-", "*", "/", "%", "modulo", "**", "<<", ">>", "&", "|", "^":
		return binaryNumeric(property), true
	case "<", "<=", ">", ">=":
		return numericComparison(property), true
	case "-@":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return IntNegate(receiver)
		}, true
	case "abs":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			if receiver.bigRef().Sign() < 0 {
				return IntNegate(receiver)
			}
			return receiver, nil
		}, true
	case "zero?":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return NewBool(receiver.bigRef().Sign() == 0), nil
		}, true
	case "even?", "odd?":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			even := receiver.bigRef().Bit(0) == 0
			return NewBool(even == (property == "even?")), nil
		}, true
	case "to_i":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return receiver, nil
		}, true
	case "to_f":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return NewFloat(receiver.Float()), nil
		}, true
	case "times":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			if err := ensureBlock(block, "integer.times"); err != nil {
				return NewNil(), err
			}
			if receiver.kind != KindInt {
				return NewNil(), argumentError("times count too large")
			}
			for i := int64(0); i < receiver.Int(); i++ {
				v, flow, err := yield(block, NewInt(i))
				if err != nil {
					return NewNil(), err
				}
				if flow == FlowBreak {
					return v, nil
				}
			}
			return receiver, nil
		}, true
	default:
		return commonMember(property)
	}
}

func floatMember(property string) (BuiltinFunc, bool) {
	switch property {
	case "+", "-", "*", "/", "%", "modulo", "**":
		return binaryNumeric(property), true
	case "<", "<=", ">", ">=":
		return numericComparison(property), true
	case "-@":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return NewFloat(-receiver.Float()), nil
		}, true
	case "abs":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return NewFloat(math.Abs(receiver.Float())), nil
		}, true
	case "zero?":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return NewBool(receiver.Float() == 0), nil
		}, true
	case "nan?":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return NewBool(math.IsNaN(receiver.Float())), nil
		}, true
	case "to_f":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return receiver, nil
		}, true
	case "to_i", "floor", "ceil", "round":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return floatToInt(receiver.Float(), property)
		}, true
	default:
		return commonMember(property)
	}
}

func binaryNumeric(op string) BuiltinFunc {
	return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
		if err := arity(op, args, 1, 1); err != nil {
			return NewNil(), err
		}
		return NumericArith(op, receiver, args[0])
	}
}

func numericComparison(op string) BuiltinFunc {
	return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
		if err := arity(op, args, 1, 1); err != nil {
			return NewNil(), err
		}
		if !args[0].isNumeric() {
			return NewNil(), comparisonFailed(receiver, args[0])
		}
		cmp, ok := CompareNumbers(receiver, args[0])
		if !ok {
			return NewBool(false), nil
		}
		switch op {
		case "<":
			return NewBool(cmp < 0), nil
		case "<=":
			return NewBool(cmp <= 0), nil
		case ">":
			return NewBool(cmp > 0), nil
		default:
			return NewBool(cmp >= 0), nil
		}
	}
}

func floatToInt(f float64, mode string) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NewNil(), argumentError("cannot convert %s to Integer", formatFloat(f))
	}
	switch mode {
	case "floor":
		f = math.Floor(f)
	case "ceil":
		f = math.Ceil(f)
	case "round":
		f = math.Round(f)
	default:
		f = math.Trunc(f)
	}
	n, _ := new(big.Float).SetFloat64(f).Int(nil)
	return NewBigInt(n), nil
}
