package core

import (
	"fortio.org/safecast"
)

// Kernel is the default Runtime. It dispatches method calls on built-in
// values to per-kind member tables and forwards host objects to their
// Receiver.
type Kernel struct {
	cfg *Config
}

func NewKernel(cfg *Config) *Kernel {
	return &Kernel{cfg: resolveConfig(cfg)}
}

// Config returns the configuration new containers are created with.
func (k *Kernel) Config() *Config { return k.cfg }

func (k *Kernel) NewArray(values ...Value) *Array {
	return NewArrayFrom(k.cfg, values)
}

func (k *Kernel) NewMap() *Map { return NewMap(k.cfg) }

func (k *Kernel) IsTruthy(v Value) bool { return v.Truthy() }

func (k *Kernel) CallMethod(receiver Value, name string, args []Value, block Block) (Value, error) {
	if receiver.kind == KindObject {
		return receiver.Object().Call(k, name, args, block)
	}
	fn, ok := member(receiver, name)
	if !ok {
		return NewNil(), noMethod(name, receiver)
	}
	return fn(k, receiver, args, block)
}

// RespondTo reports whether name resolves on receiver. Host objects are
// assumed to respond to everything.
func (k *Kernel) RespondTo(receiver Value, name string) bool {
	if receiver.kind == KindObject {
		return true
	}
	_, ok := member(receiver, name)
	return ok
}

func member(receiver Value, name string) (BuiltinFunc, bool) {
	switch receiver.kind {
	case KindInt, KindBigInt:
		return integerMember(name)
	case KindFloat:
		return floatMember(name)
	case KindArray:
		return arrayMember(name)
	case KindHash:
		return hashMember(name)
	default:
		return objectMember(name)
	}
}

func arity(name string, args []Value, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return argumentError("wrong number of arguments for %s (given %d, expected %d)", name, len(args), lo)
		}
		return argumentError("wrong number of arguments for %s (given %d, expected %d..%d)", name, len(args), lo, hi)
	}
	return nil
}

func ensureBlock(block Block, name string) error {
	if block == nil {
		return argumentError("%s requires a block", name)
	}
	return nil
}

// intArg converts an Integer argument to a Go int.
func intArg(name string, v Value) (int, error) {
	switch v.kind {
	case KindInt:
		n, err := safecast.Conv[int](v.Int())
		if err != nil {
			return 0, argumentError("%s: integer %d out of range", name, v.Int())
		}
		return n, nil
	case KindBigInt:
		return 0, argumentError("%s: bignum too big to convert into an index", name)
	default:
		return 0, typeMismatch("no implicit conversion of %s into Integer", v.kind)
	}
}

func arrayArg(v Value) (*Array, error) {
	if arr := v.Array(); arr != nil {
		return arr, nil
	}
	return nil, typeMismatch("no implicit conversion of %s into Array", v.kind)
}

func arrayArgs(args []Value) ([]*Array, error) {
	out := make([]*Array, len(args))
	for i, arg := range args {
		arr, err := arrayArg(arg)
		if err != nil {
			return nil, err
		}
		out[i] = arr
	}
	return out, nil
}

func mapArg(v Value) (*Map, error) {
	if m := v.Map(); m != nil {
		return m, nil
	}
	return nil, typeMismatch("no implicit conversion of %s into Hash", v.kind)
}

func stringArg(v Value) (string, error) {
	if v.kind == KindString || v.kind == KindSymbol {
		return v.Str(), nil
	}
	return "", typeMismatch("no implicit conversion of %s into String", v.kind)
}

func hashValue(h uint64) Value {
	return NewInt(int64(h))
}

// commonMember covers the methods every kind shares.
func commonMember(property string) (BuiltinFunc, bool) {
	switch property {
	case "==":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			if err := arity("==", args, 1, 1); err != nil {
				return NewNil(), err
			}
			eq, err := valuesEqual(rt, receiver, args[0])
			return NewBool(eq), err
		}, true
	case "!=":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			if err := arity("!=", args, 1, 1); err != nil {
				return NewNil(), err
			}
			eq, err := valuesEqual(rt, receiver, args[0])
			return NewBool(!eq), err
		}, true
	case "eql?":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			if err := arity("eql?", args, 1, 1); err != nil {
				return NewNil(), err
			}
			eq, err := valuesEql(rt, receiver, args[0])
			return NewBool(eq), err
		}, true
	case "hash":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			h, err := valueHash(rt, receiver)
			if err != nil {
				return NewNil(), err
			}
			return hashValue(h), nil
		}, true
	case "<=>":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			if err := arity("<=>", args, 1, 1); err != nil {
				return NewNil(), err
			}
			cmp, err := compareValues(rt, receiver, args[0])
			if err != nil {
				return NewNil(), nil
			}
			return NewInt(int64(cmp)), nil
		}, true
	case "inspect":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return NewString(receiver.Inspect()), nil
		}, true
	case "to_s":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return NewString(receiver.String()), nil
		}, true
	case "nil?":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return NewBool(receiver.kind == KindNil), nil
		}, true
	case "class":
		return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
			return NewString(receiver.kind.String()), nil
		}, true
	default:
		return nil, false
	}
}
