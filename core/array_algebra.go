package core

// Membership checks in this file are linear eql? scans, so -, | and uniq are
// O(n*m) in the worst case. Arrays in practice are small enough that this
// beats building a hash set.

// Plus is arr + other: a new array with the elements of both.
func (a *Array) Plus(other *Array) *Array {
	out := a.Dup()
	out.Concat(other)
	return out
}

// Minus is arr - other: elements of a not eql? to any element of other.
func (a *Array) Minus(rt Runtime, other *Array) (*Array, error) {
	b := NewArrayBuilder(a.cfg, a.length).WithSite(a.site)
	for i := 0; i < a.length; i++ {
		item := a.at(i)
		idx, err := other.indexEql(rt, item)
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			b.Append(item)
		}
	}
	return b.Finish(), nil
}

// Union is arr | other: elements of both in order, without duplicates.
func (a *Array) Union(rt Runtime, others ...*Array) (*Array, error) {
	out := NewArray(a.cfg).WithSite(a.site)
	add := func(src *Array) error {
		for i := 0; i < src.length; i++ {
			item := src.at(i)
			idx, err := out.indexEql(rt, item)
			if err != nil {
				return err
			}
			if idx < 0 {
				out.Push(item)
			}
		}
		return nil
	}
	if err := add(a); err != nil {
		return nil, err
	}
	for _, other := range others {
		if err := add(other); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Uniq returns a copy with duplicates removed, keeping first occurrences.
func (a *Array) Uniq(rt Runtime) (*Array, error) {
	return a.Union(rt)
}

// indexEql returns the first index holding a value eql? to v, or -1. Packed
// storage only holds Integers or only Floats, so a value of the other numeric
// class never matches.
func (a *Array) indexEql(rt Runtime, v Value) (int, error) {
	switch {
	case a.store.kind == StorageInt32 && v.kind == KindInt:
		if !FitsInt32(v.Int()) {
			return -1, nil
		}
		return packedIndex(a.store.int32s[:a.length], int32(v.Int())), nil
	case a.store.kind == StorageInt64 && v.kind == KindInt:
		return packedIndex(a.store.int64s[:a.length], v.Int()), nil
	case a.store.kind == StorageFloat64 && v.kind == KindFloat:
		return packedIndex(a.store.float64s[:a.length], v.Float()), nil
	case a.store.kind.IsPacked() && v.isNumeric():
		return -1, nil
	}
	for i := 0; i < a.length; i++ {
		ok, err := valuesEql(rt, a.at(i), v)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

// Times is arr * n (repetition) or arr * sep (join).
func (a *Array) Times(rt Runtime, arg Value) (Value, error) {
	switch arg.kind {
	case KindString:
		s, err := a.Join(rt, arg.Str())
		if err != nil {
			return NewNil(), err
		}
		return NewString(s), nil
	case KindInt:
		n := arg.Int()
		if n < 0 {
			return NewNil(), argumentError("negative argument")
		}
		total, ok := MulInt64(int64(a.length), n)
		if !ok || total > int64(maxArraySize) {
			return NewNil(), argumentError("argument too big")
		}
		out := a.newSibling()
		if total == 0 {
			return NewArrayValue(out), nil
		}
		out.store = allocStorage(a.store.kind, int(total))
		for k := 0; k < int(n); k++ {
			out.store.appendFrom(k*a.length, &a.store, a.length)
		}
		out.length = int(total)
		return NewArrayValue(out), nil
	default:
		return NewNil(), typeMismatch("no implicit conversion of %s into Integer", arg.kind)
	}
}

// maxArraySize bounds arrays built from size arithmetic (repetition, product).
const maxArraySize = 1<<31 - 1

// Equal is element-wise ==.
func (a *Array) Equal(rt Runtime, other *Array) (bool, error) {
	if a == other {
		return true, nil
	}
	if a.length != other.length {
		return false, nil
	}
	if a.store.kind == other.store.kind {
		switch a.store.kind {
		case StorageInt32:
			return packedEqual(a.store.int32s[:a.length], other.store.int32s[:a.length]), nil
		case StorageInt64:
			return packedEqual(a.store.int64s[:a.length], other.store.int64s[:a.length]), nil
		case StorageFloat64:
			return packedEqual(a.store.float64s[:a.length], other.store.float64s[:a.length]), nil
		}
	}
	for i := 0; i < a.length && i < other.length; i++ {
		ok, err := valuesEqual(rt, a.at(i), other.at(i))
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// HashCode is the language `hash` of the array; == arrays of eql? elements
// hash equal.
func (a *Array) HashCode(rt Runtime) (uint64, error) {
	return valueHash(rt, NewArrayValue(a))
}

// Product is the cartesian product of a with others, as an array of arrays.
func (a *Array) Product(others ...*Array) (*Array, error) {
	lists := append([]*Array{a}, others...)
	total := int64(1)
	for _, l := range lists {
		var ok bool
		total, ok = MulInt64(total, int64(l.length))
		if !ok || total > maxArraySize {
			return nil, argumentError("too big to product")
		}
	}
	b := NewArrayBuilder(a.cfg, int(total)).WithSite(a.site)
	if total == 0 {
		return b.Finish(), nil
	}
	idx := make([]int, len(lists))
	for {
		tuple := make([]Value, len(lists))
		for i, l := range lists {
			tuple[i] = l.at(idx[i])
		}
		b.Append(NewArrayValue(NewArrayFrom(a.cfg, tuple)))
		k := len(lists) - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < lists[k].length {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			return b.Finish(), nil
		}
	}
}

// Zip pairs each element of a with the elements at the same index in others,
// padding with nil.
func (a *Array) Zip(others ...*Array) *Array {
	b := NewArrayBuilder(a.cfg, a.length).WithSite(a.site)
	for i := 0; i < a.length; i++ {
		tuple := make([]Value, 0, len(others)+1)
		tuple = append(tuple, a.at(i))
		for _, o := range others {
			tuple = append(tuple, o.Get(i))
		}
		b.Append(NewArrayValue(NewArrayFrom(a.cfg, tuple)))
	}
	return b.Finish()
}

// Permutation yields every ordered n-selection of elements, in index order.
// Without a block the permutations are collected. n < 0 or n > length yields
// nothing.
func (a *Array) Permutation(n int, block Block) (Value, error) {
	snapshot := a.ToSlice()
	var collected *ArrayBuilder
	if block == nil {
		collected = NewArrayBuilder(a.cfg, 0).WithSite(a.site)
	}
	if n < 0 || n > len(snapshot) {
		if block == nil {
			return NewArrayValue(collected.Finish()), nil
		}
		return NewArrayValue(a), nil
	}
	used := make([]bool, len(snapshot))
	current := make([]Value, 0, n)
	var broke bool
	var result Value
	var walk func() error
	walk = func() error {
		if len(current) == n {
			perm := NewArrayValue(NewArrayFrom(a.cfg, current))
			if block == nil {
				collected.Append(perm)
				return nil
			}
			v, flow, err := yield(block, perm)
			if err != nil {
				return err
			}
			if flow == FlowBreak {
				broke, result = true, v
			}
			return nil
		}
		for i := range snapshot {
			if used[i] || broke {
				continue
			}
			used[i] = true
			current = append(current, snapshot[i])
			if err := walk(); err != nil {
				return err
			}
			current = current[:len(current)-1]
			used[i] = false
		}
		return nil
	}
	if err := walk(); err != nil {
		return NewNil(), err
	}
	if broke {
		return result, nil
	}
	if block == nil {
		return NewArrayValue(collected.Finish()), nil
	}
	return NewArrayValue(a), nil
}

// Flatten splices nested arrays up to depth levels; a negative depth
// flattens completely. A self-containing array is an ArgumentError.
func (a *Array) Flatten(depth int) (*Array, error) {
	b := NewArrayBuilder(a.cfg, a.length).WithSite(a.site)
	stack := map[*Array]struct{}{}
	var walk func(src *Array, level int) error
	walk = func(src *Array, level int) error {
		if _, ok := stack[src]; ok {
			return argumentError("tried to flatten recursive array")
		}
		stack[src] = struct{}{}
		defer delete(stack, src)
		for i := 0; i < src.length; i++ {
			item := src.at(i)
			if nested := item.Array(); nested != nil && (depth < 0 || level < depth) {
				if err := walk(nested, level+1); err != nil {
					return err
				}
				continue
			}
			b.Append(item)
		}
		return nil
	}
	if err := walk(a, 0); err != nil {
		return nil, err
	}
	return b.Finish(), nil
}

func (a *Array) Max(rt Runtime, block Block) (Value, error) {
	return a.extreme(rt, block, 1)
}

func (a *Array) Min(rt Runtime, block Block) (Value, error) {
	return a.extreme(rt, block, -1)
}

func (a *Array) extreme(rt Runtime, block Block, want int) (Value, error) {
	if a.length == 0 {
		return NewNil(), nil
	}
	if block == nil {
		switch a.store.kind {
		case StorageInt32:
			return NewInt(int64(packedExtreme(a.store.int32s[:a.length], want))), nil
		case StorageInt64:
			return NewInt(packedExtreme(a.store.int64s[:a.length], want)), nil
		}
	}
	best := a.at(0)
	for i := 1; i < a.length; i++ {
		item := a.at(i)
		cmp, err := a.compareWith(rt, block, item, best)
		if err != nil {
			return NewNil(), err
		}
		if cmp == want {
			best = item
		}
	}
	return best, nil
}

func packedExtreme[T packedElem](buf []T, want int) T {
	best := buf[0]
	for _, v := range buf[1:] {
		if (want > 0 && v > best) || (want < 0 && v < best) {
			best = v
		}
	}
	return best
}

// compareWith orders x and y with the block comparator when given, else <=>.
func (a *Array) compareWith(rt Runtime, block Block, x, y Value) (int, error) {
	if block == nil {
		return compareValues(rt, x, y)
	}
	res, _, err := yield(block, x, y)
	if err != nil {
		return 0, err
	}
	if !res.isInteger() {
		return 0, comparisonFailed(x, y)
	}
	return res.bigRef().Sign(), nil
}
