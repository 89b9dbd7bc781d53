package core

import "strings"

// objectMember serves nil, booleans, strings and symbols.
func objectMember(property string) (BuiltinFunc, bool) {
	switch property {
	case "!":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return NewBool(!receiver.Truthy()), nil
		}, true
	case "+":
		return stringMethod(property, func(s string, args []Value) (Value, error) {
			if err := arity("string.+", args, 1, 1); err != nil {
				return NewNil(), err
			}
			if args[0].kind != KindString {
				return NewNil(), typeMismatch("no implicit conversion of %s into String", args[0].kind)
			}
			return NewString(s + args[0].Str()), nil
		}), true
	case "size", "length":
		return stringMethod(property, func(s string, args []Value) (Value, error) {
			return NewInt(int64(len([]rune(s)))), nil
		}), true
	case "upcase":
		return stringMethod(property, func(s string, args []Value) (Value, error) {
			return NewString(strings.ToUpper(s)), nil
		}), true
	case "downcase":
		return stringMethod(property, func(s string, args []Value) (Value, error) {
			return NewString(strings.ToLower(s)), nil
		}), true
	case "to_sym":
		return stringMethod(property, func(s string, args []Value) (Value, error) {
			return NewSymbol(s), nil
		}), true
	case "to_str":
		return stringMethod(property, func(s string, args []Value) (Value, error) {
			return NewString(s), nil
		}), true
	default:
		return commonMember(property)
	}
}

// stringMethod restricts a method to string and symbol receivers.
func stringMethod(name string, fn func(s string, args []Value) (Value, error)) BuiltinFunc {
	return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
		if receiver.kind != KindString && receiver.kind != KindSymbol {
			return NewNil(), noMethod(name, receiver)
		}
		return fn(receiver.Str(), args)
	}
}
