package core

type arrayMethod func(rt Runtime, arr *Array, args []Value, block Block) (Value, error)

// arrayBuiltin adapts a method on the receiver's *Array to a BuiltinFunc.
func arrayBuiltin(fn arrayMethod) BuiltinFunc {
	return func(rt Runtime, receiver Value, args []Value, block Block) (Value, error) {
		return fn(rt, receiver.Array(), args, block)
	}
}

func arrayMember(property string) (BuiltinFunc, bool) {
	switch property {
	case "size", "length":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			return NewInt(int64(arr.Len())), nil
		}), true
	case "empty?":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			return NewBool(arr.Empty()), nil
		}), true
	case "[]", "slice":
		return arrayBuiltin(arrayIndex), true
	case "[]=":
		return arrayBuiltin(arrayIndexAssign), true
	case "first", "last":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array."+property, args, 0, 1); err != nil {
				return NewNil(), err
			}
			if len(args) == 0 {
				if property == "first" {
					return arr.First(), nil
				}
				return arr.Last(), nil
			}
			n, err := intArg("array."+property, args[0])
			if err != nil {
				return NewNil(), err
			}
			var out *Array
			if property == "first" {
				out, err = arr.FirstN(n)
			} else {
				out, err = arr.LastN(n)
			}
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(out), nil
		}), true
	case "push", "<<", "append":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			return NewArrayValue(arr.Push(args...)), nil
		}), true
	case "unshift", "prepend":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			return NewArrayValue(arr.Unshift(args...)), nil
		}), true
	case "pop", "shift":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array."+property, args, 0, 1); err != nil {
				return NewNil(), err
			}
			if len(args) == 0 {
				if property == "pop" {
					return arr.Pop(), nil
				}
				return arr.Shift(), nil
			}
			n, err := intArg("array."+property, args[0])
			if err != nil {
				return NewNil(), err
			}
			var out *Array
			if property == "pop" {
				out, err = arr.PopN(n)
			} else {
				out, err = arr.ShiftN(n)
			}
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(out), nil
		}), true
	case "insert":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if len(args) == 0 {
				return NewNil(), arity("array.insert", args, 1, 1)
			}
			i, err := intArg("array.insert", args[0])
			if err != nil {
				return NewNil(), err
			}
			if err := arr.Insert(i, args[1:]...); err != nil {
				return NewNil(), err
			}
			return NewArrayValue(arr), nil
		}), true
	case "delete_at":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array.delete_at", args, 1, 1); err != nil {
				return NewNil(), err
			}
			i, err := intArg("array.delete_at", args[0])
			if err != nil {
				return NewNil(), err
			}
			return arr.DeleteAt(i), nil
		}), true
	case "delete":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array.delete", args, 1, 1); err != nil {
				return NewNil(), err
			}
			return arr.Delete(rt, args[0])
		}), true
	case "clear":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			return NewArrayValue(arr.Clear()), nil
		}), true
	case "concat":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			others, err := arrayArgs(args)
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(arr.Concat(others...)), nil
		}), true
	case "replace", "initialize_copy":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array."+property, args, 1, 1); err != nil {
				return NewNil(), err
			}
			other, err := arrayArg(args[0])
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(arr.Replace(other)), nil
		}), true
	case "initialize":
		return arrayBuiltin(arrayInitialize), true
	case "compact":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			return NewArrayValue(arr.Compact()), nil
		}), true
	case "compact!":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if arr.CompactBang() {
				return NewArrayValue(arr), nil
			}
			return NewNil(), nil
		}), true
	case "dup", "to_a":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if property == "to_a" {
				return NewArrayValue(arr), nil
			}
			return NewArrayValue(arr.Dup()), nil
		}), true
	case "each", "each_with_index", "map", "collect", "map!", "select", "filter", "reject", "reject!", "find", "detect":
		return arrayBuiltin(arrayIterator(property)), true
	case "all?", "any?":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if property == "all?" {
				return arr.All(rt, block)
			}
			return arr.Any(rt, block)
		}), true
	case "inject", "reduce":
		return arrayBuiltin(arrayInject), true
	case "include?":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array.include?", args, 1, 1); err != nil {
				return NewNil(), err
			}
			ok, err := arr.Include(rt, args[0])
			return NewBool(ok), err
		}), true
	case "index":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array.index", args, 1, 1); err != nil {
				return NewNil(), err
			}
			i, err := arr.IndexOf(rt, args[0])
			if err != nil || i < 0 {
				return NewNil(), err
			}
			return NewInt(int64(i)), nil
		}), true
	case "+":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array.+", args, 1, 1); err != nil {
				return NewNil(), err
			}
			other, err := arrayArg(args[0])
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(arr.Plus(other)), nil
		}), true
	case "-", "difference":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array.-", args, 1, 1); err != nil {
				return NewNil(), err
			}
			other, err := arrayArg(args[0])
			if err != nil {
				return NewNil(), err
			}
			out, err := arr.Minus(rt, other)
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(out), nil
		}), true
	case "|", "union":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			others, err := arrayArgs(args)
			if err != nil {
				return NewNil(), err
			}
			out, err := arr.Union(rt, others...)
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(out), nil
		}), true
	case "uniq":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			out, err := arr.Uniq(rt)
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(out), nil
		}), true
	case "*":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array.*", args, 1, 1); err != nil {
				return NewNil(), err
			}
			return arr.Times(rt, args[0])
		}), true
	case "hash":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			h, err := arr.HashCode(rt)
			if err != nil {
				return NewNil(), err
			}
			return hashValue(h), nil
		}), true
	case "product":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			others, err := arrayArgs(args)
			if err != nil {
				return NewNil(), err
			}
			out, err := arr.Product(others...)
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(out), nil
		}), true
	case "zip":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			others, err := arrayArgs(args)
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(arr.Zip(others...)), nil
		}), true
	case "permutation":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array.permutation", args, 0, 1); err != nil {
				return NewNil(), err
			}
			n := arr.Len()
			if len(args) == 1 {
				var err error
				if n, err = intArg("array.permutation", args[0]); err != nil {
					return NewNil(), err
				}
			}
			return arr.Permutation(n, block)
		}), true
	case "flatten":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array.flatten", args, 0, 1); err != nil {
				return NewNil(), err
			}
			depth := -1
			if len(args) == 1 {
				var err error
				if depth, err = intArg("array.flatten", args[0]); err != nil {
					return NewNil(), err
				}
			}
			out, err := arr.Flatten(depth)
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(out), nil
		}), true
	case "max", "min":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if property == "max" {
				return arr.Max(rt, block)
			}
			return arr.Min(rt, block)
		}), true
	case "sort":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			out, err := arr.Sort(rt, block)
			if err != nil {
				return NewNil(), err
			}
			return NewArrayValue(out), nil
		}), true
	case "sort!":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arr.SortBang(rt, block); err != nil {
				return NewNil(), err
			}
			return NewArrayValue(arr), nil
		}), true
	case "join":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array.join", args, 0, 1); err != nil {
				return NewNil(), err
			}
			sep := ""
			if len(args) == 1 && !args[0].IsNil() {
				var err error
				if sep, err = stringArg(args[0]); err != nil {
					return NewNil(), err
				}
			}
			s, err := arr.Join(rt, sep)
			if err != nil {
				return NewNil(), err
			}
			return NewString(s), nil
		}), true
	case "pack":
		return arrayBuiltin(func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
			if err := arity("array.pack", args, 1, 1); err != nil {
				return NewNil(), err
			}
			template, err := stringArg(args[0])
			if err != nil {
				return NewNil(), err
			}
			s, err := arr.Pack(template)
			if err != nil {
				return NewNil(), err
			}
			return NewString(s), nil
		}), true
	default:
		return commonMember(property)
	}
}

// arrayIndex is arr[i] and arr[start, length].
func arrayIndex(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
	if err := arity("array.[]", args, 1, 2); err != nil {
		return NewNil(), err
	}
	start, err := intArg("array.[]", args[0])
	if err != nil {
		return NewNil(), err
	}
	if len(args) == 1 {
		return arr.Get(start), nil
	}
	n, err := intArg("array.[]", args[1])
	if err != nil {
		return NewNil(), err
	}
	return arr.Slice(start, n), nil
}

// arrayIndexAssign is arr[i] = v and arr[start, length] = v. The assigned
// value is the result.
func arrayIndexAssign(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
	if err := arity("array.[]=", args, 2, 3); err != nil {
		return NewNil(), err
	}
	start, err := intArg("array.[]=", args[0])
	if err != nil {
		return NewNil(), err
	}
	value := args[len(args)-1]
	if len(args) == 2 {
		return value, arr.Set(start, value)
	}
	n, err := intArg("array.[]=", args[1])
	if err != nil {
		return NewNil(), err
	}
	return value, arr.SetRange(start, n, value)
}

// arrayInitialize is Array.new(size = 0, fill = nil), Array.new(other) and
// Array.new(size) { |i| }.
func arrayInitialize(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
	if err := arity("array.initialize", args, 0, 2); err != nil {
		return NewNil(), err
	}
	if len(args) == 1 && args[0].kind == KindArray {
		return NewArrayValue(arr.Replace(args[0].Array())), nil
	}
	size := 0
	fill := NewNil()
	if len(args) > 0 {
		var err error
		if size, err = intArg("array.initialize", args[0]); err != nil {
			return NewNil(), err
		}
	}
	if len(args) == 2 {
		fill = args[1]
	}
	return arr.Initialize(size, fill, block)
}

func arrayIterator(property string) arrayMethod {
	return func(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
		if err := arity("array."+property, args, 0, 0); err != nil {
			return NewNil(), err
		}
		if err := ensureBlock(block, "array."+property); err != nil {
			return NewNil(), err
		}
		switch property {
		case "each":
			return arr.Each(block)
		case "each_with_index":
			return arr.EachWithIndex(block)
		case "map", "collect":
			return arr.Map(block)
		case "map!":
			return arr.MapBang(block)
		case "select", "filter":
			return arr.Select(rt, block)
		case "reject":
			return arr.Reject(rt, block)
		case "reject!":
			return arr.RejectBang(rt, block)
		default:
			return arr.Find(rt, block)
		}
	}
}

// arrayInject accepts (), (op), (initial), (initial, op) and an optional
// block. A lone symbol argument without a block names the operator.
func arrayInject(rt Runtime, arr *Array, args []Value, block Block) (Value, error) {
	if err := arity("array.inject", args, 0, 2); err != nil {
		return NewNil(), err
	}
	var initial Value
	hasInitial := false
	op := ""
	switch {
	case len(args) == 2:
		initial, hasInitial = args[0], true
		name, err := stringArg(args[1])
		if err != nil {
			return NewNil(), err
		}
		op = name
	case len(args) == 1 && args[0].kind == KindSymbol && block == nil:
		op = args[0].Str()
	case len(args) == 1:
		initial, hasInitial = args[0], true
	}
	if op == "" && block == nil {
		return NewNil(), argumentError("array.inject requires a block or an operator")
	}
	return arr.Inject(rt, initial, hasInitial, op, block)
}
