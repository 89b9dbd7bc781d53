package core

// Array is a growable, insertion-ordered sequence whose buffer is specialised
// to its contents. See StorageKind for the legal representations.
type Array struct {
	store    arrayStorage
	length   int
	cfg      *Config
	site     *AllocationSite
	reallocs int
}

// NewArray returns an empty array with no backing buffer.
func NewArray(cfg *Config) *Array {
	return &Array{cfg: resolveConfig(cfg)}
}

// NewArrayFrom builds an array holding values in the tightest storage.
func NewArrayFrom(cfg *Config, values []Value) *Array {
	b := NewArrayBuilder(cfg, len(values))
	b.AppendAll(values...)
	return b.Finish()
}

// WithSite tags the array for transition telemetry.
func (a *Array) WithSite(site *AllocationSite) *Array {
	a.site = site
	return a
}

func (a *Array) Site() *AllocationSite { return a.site }

func (a *Array) Len() int { return a.length }

func (a *Array) Empty() bool { return a.length == 0 }

func (a *Array) Kind() StorageKind { return a.store.kind }

func (a *Array) Capacity() int { return a.store.capacity() }

// Reallocations counts buffer reallocations caused by growth or transitions.
func (a *Array) Reallocations() int { return a.reallocs }

func (a *Array) at(i int) Value { return a.store.get(i) }

// ToSlice copies the elements out as boxed values.
func (a *Array) ToSlice() []Value {
	out := make([]Value, a.length)
	for i := range out {
		out[i] = a.at(i)
	}
	return out
}

func (a *Array) newSibling() *Array {
	return &Array{cfg: a.cfg, site: a.site}
}

// Dup returns a shallow copy with the same storage kind.
func (a *Array) Dup() *Array {
	out := a.newSibling()
	out.store = a.store.slice(0, a.length)
	out.length = a.length
	return out
}

func (a *Array) grownCapacity(required int) int {
	c := a.length * a.cfg.GrowthFactor
	if c < required {
		c = required
	}
	if c < a.cfg.MinArrayCapacity {
		c = a.cfg.MinArrayCapacity
	}
	return c
}

// transition migrates the buffer to kind to, keeping at least the current
// capacity. The new (kind, buffer) pair is installed in one assignment.
func (a *Array) transition(to StorageKind, required int) {
	capacity := a.store.capacity()
	if capacity < required {
		capacity = a.grownCapacity(required)
	}
	from := a.store.kind
	a.store = a.store.converted(to, a.length, capacity)
	a.reallocs++
	a.site.record(from, to, a.length)
	if from != StorageEmpty && a.cfg.Logger != nil && a.site == nil {
		a.cfg.Logger.Debug("array storage transition", "from", from.String(), "to", to.String(), "length", a.length)
	}
}

func (a *Array) ensureCapacity(required int) {
	if required <= a.store.capacity() {
		return
	}
	a.store = a.store.resized(a.length, a.grownCapacity(required))
	a.reallocs++
}

// prepareWrite makes the buffer able to hold every value in values with
// room for required elements, transitioning the storage kind if needed.
func (a *Array) prepareWrite(required int, values ...Value) {
	target := a.store.kind
	for _, v := range values {
		if !target.accepts(v) {
			target = target.generalize(storageKindFor(v))
		}
	}
	if target != a.store.kind {
		a.transition(target, required)
		return
	}
	a.ensureCapacity(required)
}

// normalizeIndex maps a negative index onto the array; ok is false when the
// result is still negative.
func (a *Array) normalizeIndex(i int) (int, bool) {
	if i < 0 {
		i += a.length
	}
	return i, i >= 0
}

// Get is the plain indexed read. Out-of-range indexes yield nil.
func (a *Array) Get(i int) Value {
	i, ok := a.normalizeIndex(i)
	if !ok || i >= a.length {
		return NewNil()
	}
	return a.at(i)
}

// Slice is the ranged read arr[start, n]. A start outside [0, length] yields
// nil; n is clamped to the elements available and a negative n yields an
// empty array.
func (a *Array) Slice(start, n int) Value {
	start, ok := a.normalizeIndex(start)
	if !ok || start > a.length {
		return NewNil()
	}
	if n > a.length-start {
		n = a.length - start
	}
	if n < 0 {
		n = 0
	}
	return NewArrayValue(a.subArray(start, n))
}

func (a *Array) subArray(start, n int) *Array {
	out := a.newSibling()
	if n > 0 {
		out.store = a.store.slice(start, n)
		out.length = n
	}
	return out
}

func (a *Array) First() Value { return a.Get(0) }

func (a *Array) Last() Value { return a.Get(-1) }

func (a *Array) FirstN(n int) (*Array, error) {
	if n < 0 {
		return nil, argumentError("negative array size")
	}
	return a.subArray(0, min(n, a.length)), nil
}

func (a *Array) LastN(n int) (*Array, error) {
	if n < 0 {
		return nil, argumentError("negative array size")
	}
	n = min(n, a.length)
	return a.subArray(a.length-n, n), nil
}

// Set is arr[i] = v. Writing at length appends; writing further out is an
// UnsupportedGap error and a negative index past the front is IndexTooSmall.
func (a *Array) Set(i int, v Value) error {
	idx, ok := a.normalizeIndex(i)
	if !ok {
		return indexTooSmall(i, a.length)
	}
	if idx > a.length {
		return unsupportedGap(idx, a.length)
	}
	if idx == a.length {
		a.Push(v)
		return nil
	}
	a.prepareWrite(a.length, v)
	a.store.put(idx, v)
	return nil
}

// SetRange is arr[start, n] = v. An array v splices its elements; any other
// value replaces the range with that single element.
func (a *Array) SetRange(start, n int, v Value) error {
	idx, ok := a.normalizeIndex(start)
	if !ok {
		return indexTooSmall(start, a.length)
	}
	if n < 0 {
		return negativeLength(n)
	}
	if idx > a.length {
		return unsupportedGap(idx, a.length)
	}
	var repl []Value
	if other := v.Array(); other != nil {
		repl = other.ToSlice()
	} else {
		repl = []Value{v}
	}
	a.splice(idx, min(n, a.length-idx), repl)
	return nil
}

// splice replaces removed elements at idx with repl. Callers validate bounds.
func (a *Array) splice(idx, removed int, repl []Value) {
	newLen := a.length - removed + len(repl)
	tail := a.length - idx - removed
	if len(repl) > 0 || newLen > a.store.capacity() {
		a.prepareWrite(newLen, repl...)
	}
	if tail > 0 {
		a.store.move(idx+len(repl), idx+removed, tail)
	}
	for i, v := range repl {
		a.store.put(idx+i, v)
	}
	if newLen < a.length {
		a.store.release(newLen, a.length)
	}
	a.length = newLen
}

func (a *Array) Push(values ...Value) *Array {
	if len(values) == 0 {
		return a
	}
	a.prepareWrite(a.length+len(values), values...)
	for _, v := range values {
		a.store.put(a.length, v)
		a.length++
	}
	return a
}

// Pop removes the last element; an empty array yields nil.
func (a *Array) Pop() Value {
	if a.length == 0 {
		return NewNil()
	}
	a.length--
	v := a.at(a.length)
	a.store.release(a.length, a.length+1)
	return v
}

func (a *Array) PopN(n int) (*Array, error) {
	out, err := a.LastN(n)
	if err != nil {
		return nil, err
	}
	a.store.release(a.length-out.length, a.length)
	a.length -= out.length
	return out, nil
}

// Shift removes the first element; an empty array yields nil.
func (a *Array) Shift() Value {
	if a.length == 0 {
		return NewNil()
	}
	v := a.at(0)
	a.splice(0, 1, nil)
	return v
}

func (a *Array) ShiftN(n int) (*Array, error) {
	out, err := a.FirstN(n)
	if err != nil {
		return nil, err
	}
	a.splice(0, out.length, nil)
	return out, nil
}

func (a *Array) Unshift(values ...Value) *Array {
	if len(values) > 0 {
		a.splice(0, 0, values)
	}
	return a
}

// Insert places values before index i. A negative i counts from the end so
// that -1 appends.
func (a *Array) Insert(i int, values ...Value) error {
	idx := i
	if idx < 0 {
		idx += a.length + 1
		if idx < 0 {
			return indexTooSmall(i, a.length)
		}
	}
	if idx > a.length {
		return unsupportedGap(idx, a.length)
	}
	if len(values) > 0 {
		a.splice(idx, 0, values)
	}
	return nil
}

// DeleteAt removes and returns the element at i, or nil when out of range.
func (a *Array) DeleteAt(i int) Value {
	idx, ok := a.normalizeIndex(i)
	if !ok || idx >= a.length {
		return NewNil()
	}
	v := a.at(idx)
	a.splice(idx, 1, nil)
	return v
}

// Delete removes every element == v and returns the last removed element,
// or nil when nothing matched. Every comparison runs before the buffer is
// touched, so a failing == leaves the array unchanged.
func (a *Array) Delete(rt Runtime, v Value) (Value, error) {
	var matches []int
	for i := 0; i < a.length; i++ {
		match, err := a.equalsAt(rt, i, v)
		if err != nil {
			return NewNil(), err
		}
		if match {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return NewNil(), nil
	}
	found := a.at(matches[len(matches)-1])
	kept, next := 0, 0
	for i := 0; i < a.length; i++ {
		if next < len(matches) && matches[next] == i {
			next++
			continue
		}
		if kept != i {
			a.store.put(kept, a.at(i))
		}
		kept++
	}
	a.store.release(kept, a.length)
	a.length = kept
	return found, nil
}

func (a *Array) Clear() *Array {
	a.store = arrayStorage{}
	a.length = 0
	return a
}

// Concat appends the elements of others. Same-kind packed operands are
// copied in bulk; anything else widens and copies element by element.
func (a *Array) Concat(others ...*Array) *Array {
	snapshots := make([]*Array, len(others))
	for i, other := range others {
		if other == a {
			other = a.Dup()
		}
		snapshots[i] = other
	}
	for _, other := range snapshots {
		if other.length == 0 {
			continue
		}
		required := a.length + other.length
		target := a.store.kind.generalize(other.store.kind)
		if target != a.store.kind {
			a.transition(target, required)
		} else {
			a.ensureCapacity(required)
		}
		if target == other.store.kind {
			a.store.appendFrom(a.length, &other.store, other.length)
		} else {
			for i := 0; i < other.length; i++ {
				a.store.put(a.length+i, other.at(i))
			}
		}
		a.length = required
	}
	return a
}

// Replace makes a a copy of other, adopting its storage kind.
func (a *Array) Replace(other *Array) *Array {
	if other == a {
		return a
	}
	a.store = other.store.slice(0, other.length)
	a.length = other.length
	a.reallocs++
	return a
}

// Initialize resets a to size copies of fill, or to the block results for
// each index when block is given.
func (a *Array) Initialize(size int, fill Value, block Block) (Value, error) {
	if size < 0 {
		return NewNil(), argumentError("negative array size")
	}
	b := NewArrayBuilder(a.cfg, size)
	for i := 0; i < size; i++ {
		if block == nil {
			b.Append(fill)
			continue
		}
		v, flow, err := yield(block, NewInt(int64(i)))
		if err != nil {
			return NewNil(), err
		}
		if flow == FlowBreak {
			return v, nil
		}
		b.Append(v)
	}
	built := b.Finish()
	from := a.store.kind
	a.store, a.length = built.store, built.length
	a.reallocs++
	a.site.record(from, a.store.kind, a.length)
	return NewArrayValue(a), nil
}

// Compact returns a copy without nil elements.
func (a *Array) Compact() *Array {
	if a.store.kind != StorageBoxed {
		return a.Dup()
	}
	b := NewArrayBuilder(a.cfg, a.length)
	for i := 0; i < a.length; i++ {
		if v := a.at(i); !v.IsNil() {
			b.Append(v)
		}
	}
	return b.Finish().WithSite(a.site)
}

// CompactBang removes nil elements in place, reporting whether any were found.
func (a *Array) CompactBang() bool {
	if a.store.kind != StorageBoxed {
		return false
	}
	kept := 0
	for i := 0; i < a.length; i++ {
		v := a.store.boxed[i]
		if v.IsNil() {
			continue
		}
		a.store.boxed[kept] = v
		kept++
	}
	changed := kept != a.length
	a.store.release(kept, a.length)
	a.length = kept
	return changed
}

// equalsAt compares element i with v, avoiding boxing when the storage kind
// and v's representation agree.
func (a *Array) equalsAt(rt Runtime, i int, v Value) (bool, error) {
	switch {
	case a.store.kind == StorageInt32 && v.kind == KindInt:
		return int64(a.store.int32s[i]) == v.Int(), nil
	case a.store.kind == StorageInt64 && v.kind == KindInt:
		return a.store.int64s[i] == v.Int(), nil
	case a.store.kind == StorageFloat64 && v.kind == KindFloat:
		return a.store.float64s[i] == v.Float(), nil
	default:
		return valuesEqual(rt, a.at(i), v)
	}
}

func (a *Array) Include(rt Runtime, v Value) (bool, error) {
	idx, err := a.IndexOf(rt, v)
	return idx >= 0, err
}

// IndexOf returns the first index holding a value == v, or -1.
func (a *Array) IndexOf(rt Runtime, v Value) (int, error) {
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
	}
	for i := 0; i < a.length; i++ {
		ok, err := a.equalsAt(rt, i, v)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}
