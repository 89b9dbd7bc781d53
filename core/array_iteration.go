package core

// Iteration re-reads a.length on every step, so a block that shrinks the
// array simply ends the loop early. A FlowBreak result stops the loop and
// its value becomes the method's return value.

func (a *Array) Each(block Block) (Value, error) {
	for i := 0; i < a.length; i++ {
		v, flow, err := yield(block, a.at(i))
		if err != nil {
			return NewNil(), err
		}
		if flow == FlowBreak {
			return v, nil
		}
	}
	return NewArrayValue(a), nil
}

func (a *Array) EachWithIndex(block Block) (Value, error) {
	for i := 0; i < a.length; i++ {
		v, flow, err := yield(block, a.at(i), NewInt(int64(i)))
		if err != nil {
			return NewNil(), err
		}
		if flow == FlowBreak {
			return v, nil
		}
	}
	return NewArrayValue(a), nil
}

// Map collects block results through the builder, so numeric results come
// back packed.
func (a *Array) Map(block Block) (Value, error) {
	b := NewArrayBuilder(a.cfg, a.length).WithSite(a.site)
	for i := 0; i < a.length; i++ {
		v, flow, err := yield(block, a.at(i))
		if err != nil {
			return NewNil(), err
		}
		if flow == FlowBreak {
			return v, nil
		}
		b.Append(v)
	}
	return NewArrayValue(b.Finish()), nil
}

// MapBang replaces each element with its block result in place.
func (a *Array) MapBang(block Block) (Value, error) {
	for i := 0; i < a.length; i++ {
		v, flow, err := yield(block, a.at(i))
		if err != nil {
			return NewNil(), err
		}
		if flow == FlowBreak {
			return v, nil
		}
		if i < a.length {
			a.prepareWrite(a.length, v)
			a.store.put(i, v)
		}
	}
	return NewArrayValue(a), nil
}

func (a *Array) Select(rt Runtime, block Block) (Value, error) {
	return a.filter(rt, block, true)
}

func (a *Array) Reject(rt Runtime, block Block) (Value, error) {
	return a.filter(rt, block, false)
}

func (a *Array) filter(rt Runtime, block Block, keep bool) (Value, error) {
	b := NewArrayBuilder(a.cfg, 0).WithSite(a.site)
	for i := 0; i < a.length; i++ {
		item := a.at(i)
		v, flow, err := yield(block, item)
		if err != nil {
			return NewNil(), err
		}
		if flow == FlowBreak {
			return v, nil
		}
		if truthy(rt, v) == keep {
			b.Append(item)
		}
	}
	return NewArrayValue(b.Finish()), nil
}

// RejectBang deletes elements for which block is truthy. It returns nil when
// nothing was removed. Elements already visited stay removed if the block
// raises part way.
func (a *Array) RejectBang(rt Runtime, block Block) (Value, error) {
	kept := 0
	i := 0
	finish := func() bool {
		for j := i; j < a.length; j++ {
			if kept != j {
				a.store.put(kept, a.at(j))
			}
			kept++
		}
		changed := kept != a.length
		a.store.release(kept, a.length)
		a.length = kept
		return changed
	}
	for ; i < a.length; i++ {
		item := a.at(i)
		v, flow, err := yield(block, item)
		if err != nil {
			finish()
			return NewNil(), err
		}
		if flow == FlowBreak {
			finish()
			return v, nil
		}
		if truthy(rt, v) {
			continue
		}
		if kept != i {
			a.store.put(kept, item)
		}
		kept++
	}
	if finish() {
		return NewArrayValue(a), nil
	}
	return NewNil(), nil
}

// Find returns the first element for which block is truthy, or nil.
func (a *Array) Find(rt Runtime, block Block) (Value, error) {
	for i := 0; i < a.length; i++ {
		item := a.at(i)
		v, flow, err := yield(block, item)
		if err != nil {
			return NewNil(), err
		}
		if flow == FlowBreak {
			return v, nil
		}
		if truthy(rt, v) {
			return item, nil
		}
	}
	return NewNil(), nil
}

// All reports whether every element (or block result) is truthy.
func (a *Array) All(rt Runtime, block Block) (Value, error) {
	return a.quantify(rt, block, false)
}

// Any reports whether some element (or block result) is truthy.
func (a *Array) Any(rt Runtime, block Block) (Value, error) {
	return a.quantify(rt, block, true)
}

func (a *Array) quantify(rt Runtime, block Block, stopOn bool) (Value, error) {
	for i := 0; i < a.length; i++ {
		v := a.at(i)
		if block != nil {
			var flow Flow
			var err error
			v, flow, err = yield(block, v)
			if err != nil {
				return NewNil(), err
			}
			if flow == FlowBreak {
				return v, nil
			}
		}
		if truthy(rt, v) == stopOn {
			return NewBool(stopOn), nil
		}
	}
	return NewBool(!stopOn), nil
}

// Inject folds the array. With op set, each step sends op to the
// accumulator; otherwise block receives (acc, element). Without an initial
// value the first element seeds the fold; an empty array then yields nil.
func (a *Array) Inject(rt Runtime, initial Value, hasInitial bool, op string, block Block) (Value, error) {
	start := 0
	acc := initial
	if !hasInitial {
		if a.length == 0 {
			return NewNil(), nil
		}
		acc = a.at(0)
		start = 1
	}
	if op == "+" && block == nil {
		if sum, ok := a.packedSum(acc, start); ok {
			return sum, nil
		}
	}
	for i := start; i < a.length; i++ {
		item := a.at(i)
		if op != "" {
			next, err := rt.CallMethod(acc, op, []Value{item}, nil)
			if err != nil {
				return NewNil(), err
			}
			acc = next
			continue
		}
		v, flow, err := yield(block, acc, item)
		if err != nil {
			return NewNil(), err
		}
		if flow == FlowBreak {
			return v, nil
		}
		acc = v
	}
	return acc, nil
}

// packedSum adds packed elements without boxing, accumulating in int32 until
// it overflows, then int64, then arbitrary precision.
func (a *Array) packedSum(acc Value, start int) (Value, bool) {
	switch a.store.kind {
	case StorageInt32, StorageInt64:
		if acc.kind != KindInt {
			return NewNil(), false
		}
	case StorageFloat64:
		if !acc.isNumeric() {
			return NewNil(), false
		}
		total := acc.Float()
		for _, f := range a.store.float64s[start:a.length] {
			total += f
		}
		return NewFloat(total), true
	default:
		return NewNil(), false
	}
	i := start
	if a.store.kind == StorageInt32 && FitsInt32(acc.Int()) {
		small := int32(acc.Int())
		for ; i < a.length; i++ {
			next, ok := AddInt32(small, a.store.int32s[i])
			if !ok {
				break
			}
			small = next
		}
		acc = NewInt(int64(small))
	}
	wide := acc.Int()
	for ; i < a.length; i++ {
		var x int64
		if a.store.kind == StorageInt32 {
			x = int64(a.store.int32s[i])
		} else {
			x = a.store.int64s[i]
		}
		next, ok := AddInt64(wide, x)
		if !ok {
			total, _ := IntAdd(NewInt(wide), NewInt(x))
			for i++; i < a.length; i++ {
				total, _ = IntAdd(total, a.at(i))
			}
			return total, true
		}
		wide = next
	}
	return NewInt(wide), true
}
