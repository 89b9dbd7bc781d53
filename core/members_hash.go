package core

type hashMethod func(rt Runtime, m *Map, args []Value, block Block) (Value, error)

func hashBuiltin(fn hashMethod) BuiltinFunc {
	return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
		return fn(rt, receiver.Map(), args, block)
	}
}

func hashMember(property string) (BuiltinFunc, bool) {
	switch property {
	case "size", "length":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			return NewInt(int64(m.Len())), nil
		}), true
	case "empty?":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			return NewBool(m.Empty()), nil
		}), true
	case "[]":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			if err := arity("hash.[]", args, 1, 1); err != nil {
				return NewNil(), err
			}
			return m.Get(rt, args[0])
		}), true
	case "[]=", "store":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			if err := arity("hash.[]=", args, 2, 2); err != nil {
				return NewNil(), err
			}
			return args[1], m.Set(rt, args[0], args[1])
		}), true
	case "fetch":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			if err := arity("hash.fetch", args, 1, 2); err != nil {
				return NewNil(), err
			}
			var fallback *Value
			if len(args) == 2 {
				fallback = &args[1]
			}
			return m.Fetch(rt, args[0], fallback, block)
		}), true
	case "delete":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			if err := arity("hash.delete", args, 1, 1); err != nil {
				return NewNil(), err
			}
			v, found, err := m.Delete(rt, args[0])
			if err != nil || found || block == nil {
				return v, err
			}
			v, _, err = yield(block, args[0])
			return v, err
		}), true
	case "key?", "has_key?", "include?", "member?":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			if err := arity("hash."+property, args, 1, 1); err != nil {
				return NewNil(), err
			}
			ok, err := m.HasKey(rt, args[0])
			return NewBool(ok), err
		}), true
	case "keys":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			return NewArrayValue(m.Keys()), nil
		}), true
	case "values":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			return NewArrayValue(m.Values()), nil
		}), true
	case "to_a":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			return NewArrayValue(m.ToArray()), nil
		}), true
	case "to_h":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			return NewMapValue(m), nil
		}), true
	case "dup", "clone":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			return NewMapValue(m.Dup()), nil
		}), true
	case "clear":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			return NewMapValue(m.Clear()), nil
		}), true
	case "each", "each_pair", "map", "collect":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			if err := ensureBlock(block, "hash."+property); err != nil {
				return NewNil(), err
			}
			if property == "map" || property == "collect" {
				return m.MapPairs(block)
			}
			return m.Each(block)
		}), true
	case "merge":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			others := make([]*Map, len(args))
			for i, arg := range args {
				other, err := mapArg(arg)
				if err != nil {
					return NewNil(), err
				}
				others[i] = other
			}
			out, err := m.Merge(rt, block, others...)
			if err != nil {
				return NewNil(), err
			}
			return NewMapValue(out), nil
		}), true
	case "initialize":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			if err := arity("hash.initialize", args, 0, 1); err != nil {
				return NewNil(), err
			}
			def := NewNil()
			if len(args) == 1 {
				if block != nil {
					return NewNil(), argumentError("hash.initialize takes a default value or a block, not both")
				}
				def = args[0]
			}
			return NewMapValue(m.Initialize(rt, def, block)), nil
		}), true
	case "default":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			return m.DefaultValue(), nil
		}), true
	case "default=":
		return hashBuiltin(func(rt Runtime, m *Map, args []Value, block Block) (Value, error) {
			if err := arity("hash.default=", args, 1, 1); err != nil {
				return NewNil(), err
			}
			m.SetDefault(args[0])
			return args[0], nil
		}), true
	default:
		return commonMember(property)
	}
}
