package core

import "golang.org/x/exp/constraints"

type packedElem interface {
	constraints.Signed | constraints.Float
}

// arrayStorage is the backing buffer of an Array. Exactly one slice is live,
// selected by kind; the slice length is the buffer capacity. A transition
// builds a fresh arrayStorage and replaces the old one in a single assignment.
type arrayStorage struct {
	kind     StorageKind
	int32s   []int32
	int64s   []int64
	float64s []float64
	boxed    []Value
}

func allocStorage(kind StorageKind, capacity int) arrayStorage {
	s := arrayStorage{kind: kind}
	switch kind {
	case StorageInt32:
		s.int32s = make([]int32, capacity)
	case StorageInt64:
		s.int64s = make([]int64, capacity)
	case StorageFloat64:
		s.float64s = make([]float64, capacity)
	case StorageBoxed:
		s.boxed = make([]Value, capacity)
	}
	return s
}

func (s *arrayStorage) capacity() int {
	switch s.kind {
	case StorageInt32:
		return len(s.int32s)
	case StorageInt64:
		return len(s.int64s)
	case StorageFloat64:
		return len(s.float64s)
	case StorageBoxed:
		return len(s.boxed)
	default:
		return 0
	}
}

func (s *arrayStorage) get(i int) Value {
	switch s.kind {
	case StorageInt32:
		return NewInt(int64(s.int32s[i]))
	case StorageInt64:
		return NewInt(s.int64s[i])
	case StorageFloat64:
		return NewFloat(s.float64s[i])
	case StorageBoxed:
		return s.boxed[i]
	default:
		return NewNil()
	}
}

// put stores v at i. The caller has already checked s.kind.accepts(v).
func (s *arrayStorage) put(i int, v Value) {
	switch s.kind {
	case StorageInt32:
		s.int32s[i] = int32(v.Int())
	case StorageInt64:
		s.int64s[i] = v.Int()
	case StorageFloat64:
		s.float64s[i] = v.Float()
	case StorageBoxed:
		s.boxed[i] = v
	}
}

// move copies n elements from src to dst inside the buffer; ranges may overlap.
func (s *arrayStorage) move(dst, src, n int) {
	switch s.kind {
	case StorageInt32:
		copy(s.int32s[dst:dst+n], s.int32s[src:src+n])
	case StorageInt64:
		copy(s.int64s[dst:dst+n], s.int64s[src:src+n])
	case StorageFloat64:
		copy(s.float64s[dst:dst+n], s.float64s[src:src+n])
	case StorageBoxed:
		copy(s.boxed[dst:dst+n], s.boxed[src:src+n])
	}
}

// release drops references held by boxed slots in [from, to) so the garbage
// collector can reclaim them.
func (s *arrayStorage) release(from, to int) {
	if s.kind == StorageBoxed {
		clear(s.boxed[from:to])
	}
}

// resized returns a buffer of the same kind with the first length elements.
func (s *arrayStorage) resized(length, capacity int) arrayStorage {
	out := arrayStorage{kind: s.kind}
	switch s.kind {
	case StorageInt32:
		out.int32s = resizeBuffer(s.int32s, length, capacity)
	case StorageInt64:
		out.int64s = resizeBuffer(s.int64s, length, capacity)
	case StorageFloat64:
		out.float64s = resizeBuffer(s.float64s, length, capacity)
	case StorageBoxed:
		out.boxed = resizeBuffer(s.boxed, length, capacity)
	}
	return out
}

// converted copy-converts the first length elements into a buffer of kind to.
// Only widening conversions are legal: Empty to anything, Int32 to Int64, and
// any packed kind to Boxed.
func (s *arrayStorage) converted(to StorageKind, length, capacity int) arrayStorage {
	if s.kind == to {
		return s.resized(length, capacity)
	}
	if s.kind == StorageEmpty {
		return allocStorage(to, capacity)
	}
	out := arrayStorage{kind: to}
	switch {
	case s.kind == StorageInt32 && to == StorageInt64:
		out.int64s = widenBuffer[int32, int64](s.int32s, length, capacity)
	case to == StorageBoxed:
		switch s.kind {
		case StorageInt32:
			out.boxed = boxBuffer(s.int32s, length, capacity, func(x int32) Value { return NewInt(int64(x)) })
		case StorageInt64:
			out.boxed = boxBuffer(s.int64s, length, capacity, NewInt)
		case StorageFloat64:
			out.boxed = boxBuffer(s.float64s, length, capacity, NewFloat)
		}
	default:
		panic("core: illegal storage transition " + s.kind.String() + " -> " + to.String())
	}
	return out
}

// slice returns a standalone copy of elements [from, from+n) with the same kind.
func (s *arrayStorage) slice(from, n int) arrayStorage {
	out := arrayStorage{kind: s.kind}
	switch s.kind {
	case StorageInt32:
		out.int32s = append([]int32(nil), s.int32s[from:from+n]...)
	case StorageInt64:
		out.int64s = append([]int64(nil), s.int64s[from:from+n]...)
	case StorageFloat64:
		out.float64s = append([]float64(nil), s.float64s[from:from+n]...)
	case StorageBoxed:
		out.boxed = append([]Value(nil), s.boxed[from:from+n]...)
	}
	return out
}

// appendFrom bulk-copies n elements of src (same kind) into s at offset dst.
func (s *arrayStorage) appendFrom(dst int, src *arrayStorage, n int) {
	switch s.kind {
	case StorageInt32:
		copy(s.int32s[dst:], src.int32s[:n])
	case StorageInt64:
		copy(s.int64s[dst:], src.int64s[:n])
	case StorageFloat64:
		copy(s.float64s[dst:], src.float64s[:n])
	case StorageBoxed:
		copy(s.boxed[dst:], src.boxed[:n])
	}
}

func resizeBuffer[T any](src []T, length, capacity int) []T {
	dst := make([]T, capacity)
	copy(dst, src[:length])
	return dst
}

func widenBuffer[From, To packedElem](src []From, length, capacity int) []To {
	dst := make([]To, capacity)
	for i := 0; i < length; i++ {
		dst[i] = To(src[i])
	}
	return dst
}

func boxBuffer[T packedElem](src []T, length, capacity int, box func(T) Value) []Value {
	dst := make([]Value, capacity)
	for i := 0; i < length; i++ {
		dst[i] = box(src[i])
	}
	return dst
}

func packedEqual[T packedElem](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func packedIndex[T packedElem](buf []T, x T) int {
	for i, v := range buf {
		if v == x {
			return i
		}
	}
	return -1
}
