package core

import (
	"errors"
	"math"
	"testing"
)

func assertInspect(t *testing.T, v Value, want string) {
	t.Helper()
	if got := v.Inspect(); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func assertKind(t *testing.T, arr *Array, want StorageKind) {
	t.Helper()
	if arr.Kind() != want {
		t.Fatalf("storage kind %s, want %s (%s)", arr.Kind(), want, NewArrayValue(arr).Inspect())
	}
}

func TestArrayStorageTransitions(t *testing.T) {
	site := NewAllocationSite("literal", nil)
	arr := NewArray(nil).WithSite(site)
	assertKind(t, arr, StorageEmpty)

	arr.Push(NewInt(1))
	assertKind(t, arr, StorageInt32)
	arr.Push(NewInt(2))
	assertKind(t, arr, StorageInt32)
	arr.Push(NewString("x"))
	assertKind(t, arr, StorageBoxed)
	assertInspect(t, NewArrayValue(arr), `[1, 2, "x"]`)

	if got := site.Transitions(StorageEmpty, StorageInt32); got != 1 {
		t.Fatalf("empty->int32 transitions = %d", got)
	}
	if got := site.Transitions(StorageInt32, StorageBoxed); got != 1 {
		t.Fatalf("int32->boxed transitions = %d", got)
	}
	if site.Total() != 2 {
		t.Fatalf("total transitions = %d", site.Total())
	}
}

func TestArrayInt32OverflowWidensWithoutBoxing(t *testing.T) {
	site := NewAllocationSite("widen", nil)
	arr := NewArray(nil).WithSite(site)
	arr.Push(NewInt(1))
	arr.Push(NewInt(math.MaxInt32 + 1))
	assertKind(t, arr, StorageInt64)
	if arr.Get(1).Int() != math.MaxInt32+1 || arr.Get(0).Int() != 1 {
		t.Fatalf("widened contents wrong: %s", NewArrayValue(arr).Inspect())
	}
	if site.Transitions(StorageInt32, StorageInt64) != 1 || site.Transitions(StorageInt32, StorageBoxed) != 0 {
		t.Fatalf("expected a single int32->int64 transition")
	}

	arr.Push(NewFloat(1.5))
	assertKind(t, arr, StorageBoxed)
}

func TestArrayStorageNeverNarrows(t *testing.T) {
	arr := NewArrayFrom(nil, []Value{NewInt(1), NewString("a")})
	assertKind(t, arr, StorageBoxed)
	if _, err := arr.Delete(nil, NewString("a")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertKind(t, arr, StorageBoxed)
	arr.Clear()
	assertKind(t, arr, StorageEmpty)
}

func TestArrayNegativeIndexing(t *testing.T) {
	arr := Ints(10, 20, 30).Array()
	if arr.Get(-1).Int() != 30 || arr.Get(-3).Int() != 10 {
		t.Fatalf("negative reads wrong")
	}
	if !arr.Get(-4).IsNil() || !arr.Get(3).IsNil() {
		t.Fatalf("out of range reads should be nil")
	}
	if err := arr.Set(-1, NewInt(99)); err != nil {
		t.Fatalf("set -1: %v", err)
	}
	if err := arr.Set(-4, NewInt(1)); !errors.Is(err, ErrIndexTooSmall) {
		t.Fatalf("expected ErrIndexTooSmall, got %v", err)
	}
	if err := arr.Set(5, NewInt(1)); !errors.Is(err, ErrUnsupportedGap) {
		t.Fatalf("expected ErrUnsupportedGap, got %v", err)
	}
	if err := arr.Set(3, NewInt(40)); err != nil {
		t.Fatalf("append via set: %v", err)
	}
	assertInspect(t, NewArrayValue(arr), "[10, 20, 99, 40]")
}

func TestArraySliceReads(t *testing.T) {
	arr := Ints(1, 2, 3).Array()
	assertInspect(t, arr.Slice(1, 10), "[2, 3]")
	assertInspect(t, arr.Slice(3, 1), "[]")
	assertInspect(t, arr.Slice(4, 1), "nil")
	assertInspect(t, arr.Slice(0, -1), "[]")
	assertInspect(t, arr.Slice(-2, 1), "[2]")
}

func TestArraySetRange(t *testing.T) {
	arr := Ints(1, 2, 3).Array()
	if err := arr.SetRange(0, -1, NewInt(9)); !errors.Is(err, ErrNegativeLength) {
		t.Fatalf("expected ErrNegativeLength, got %v", err)
	}
	assertInspect(t, NewArrayValue(arr), "[1, 2, 3]")

	if err := arr.SetRange(1, 1, Ints(7, 8, 9)); err != nil {
		t.Fatalf("splice: %v", err)
	}
	assertInspect(t, NewArrayValue(arr), "[1, 7, 8, 9, 3]")
	assertKind(t, arr, StorageInt32)

	if err := arr.SetRange(0, 4, NewString("z")); err != nil {
		t.Fatalf("replace: %v", err)
	}
	assertInspect(t, NewArrayValue(arr), `["z", 3]`)

	if err := arr.SetRange(5, 0, NewInt(1)); !errors.Is(err, ErrUnsupportedGap) {
		t.Fatalf("expected ErrUnsupportedGap, got %v", err)
	}
}

func TestArrayGrowthIsAmortized(t *testing.T) {
	arr := NewArray(nil)
	const n = 1 << 16
	for i := 0; i < n; i++ {
		arr.Push(NewInt(int64(i)))
	}
	if arr.Len() != n {
		t.Fatalf("len = %d", arr.Len())
	}
	if arr.Reallocations() > 20 {
		t.Fatalf("expected logarithmic reallocations, got %d", arr.Reallocations())
	}
	if arr.Capacity() < n {
		t.Fatalf("capacity %d below length", arr.Capacity())
	}
}

func TestArrayMutators(t *testing.T) {
	arr := Ints(1, 2, 3, 4).Array()
	if v := arr.Pop(); v.Int() != 4 {
		t.Fatalf("pop = %s", v.Inspect())
	}
	if v := arr.Shift(); v.Int() != 1 {
		t.Fatalf("shift = %s", v.Inspect())
	}
	arr.Unshift(NewInt(0))
	if err := arr.Insert(-1, NewInt(5)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	assertInspect(t, NewArrayValue(arr), "[0, 2, 3, 5]")
	if v := arr.DeleteAt(1); v.Int() != 2 {
		t.Fatalf("delete_at = %s", v.Inspect())
	}
	arr.Concat(arr)
	assertInspect(t, NewArrayValue(arr), "[0, 3, 5, 0, 3, 5]")
	removed, err := arr.Delete(nil, NewInt(3))
	if err != nil || removed.Int() != 3 {
		t.Fatalf("delete = %s, %v", removed.Inspect(), err)
	}
	assertInspect(t, NewArrayValue(arr), "[0, 5, 0, 5]")

	withNils := ArrayOf(NewInt(1), NewNil(), NewInt(2)).Array()
	if !withNils.CompactBang() {
		t.Fatalf("compact! should report a change")
	}
	assertInspect(t, NewArrayValue(withNils), "[1, 2]")
	if withNils.CompactBang() {
		t.Fatalf("second compact! should report no change")
	}
}

func TestArrayIterationLoopControl(t *testing.T) {
	k := NewKernel(nil)
	arr := Ints(1, 2, 3, 4).Array()

	res, err := arr.Each(func(args ...Value) (BlockResult, error) {
		if args[0].Int() == 3 {
			return Break(NewString("stopped")), nil
		}
		return Next(NewNil()), nil
	})
	if err != nil || res.Str() != "stopped" {
		t.Fatalf("break result = %s, %v", res.Inspect(), err)
	}

	visits := 0
	if _, err := arr.Each(func(args ...Value) (BlockResult, error) {
		visits++
		arr.Pop()
		return Next(NewNil()), nil
	}); err != nil {
		t.Fatalf("each: %v", err)
	}
	if visits != 2 || arr.Len() != 2 {
		t.Fatalf("shrinking each visited %d, len %d", visits, arr.Len())
	}

	redone := false
	doubled, err := Ints(1, 2).Array().Map(func(args ...Value) (BlockResult, error) {
		if args[0].Int() == 2 && !redone {
			redone = true
			return Redo(), nil
		}
		return Next(NewInt(args[0].Int() * 2)), nil
	})
	if err != nil || !redone {
		t.Fatalf("map with redo: %v", err)
	}
	assertInspect(t, doubled, "[2, 4]")

	boom := errors.New("boom")
	if _, err := arr.Map(func(args ...Value) (BlockResult, error) {
		return BlockResult{}, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected block error to propagate, got %v", err)
	}

	floats, err := Ints(1, 2, 3).Array().Map(SymbolBlock(k, "to_f"))
	if err != nil {
		t.Fatalf("map(&:to_f): %v", err)
	}
	assertKind(t, floats.Array(), StorageFloat64)
	assertInspect(t, floats, "[1.0, 2.0, 3.0]")
}

func TestArraySelectRejectFind(t *testing.T) {
	k := NewKernel(nil)
	arr := Ints(1, 2, 3, 4, 5).Array()
	even := ValueBlock(func(args ...Value) (Value, error) {
		return NewBool(args[0].Int()%2 == 0), nil
	})
	sel, err := arr.Select(k, even)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	assertInspect(t, sel, "[2, 4]")
	assertKind(t, sel.Array(), StorageInt32)
	rej, _ := arr.Reject(k, even)
	assertInspect(t, rej, "[1, 3, 5]")
	found, _ := arr.Find(k, even)
	assertInspect(t, found, "2")

	res, err := arr.RejectBang(k, ValueBlock(func(args ...Value) (Value, error) {
		return NewBool(false), nil
	}))
	if err != nil || !res.IsNil() {
		t.Fatalf("reject! with no removals = %s, %v", res.Inspect(), err)
	}
	res, _ = arr.RejectBang(k, even)
	assertInspect(t, res, "[1, 3, 5]")

	all, _ := arr.All(k, nil)
	anyNil, _ := ArrayOf(NewNil(), NewBool(false)).Array().Any(k, nil)
	if !all.Bool() || anyNil.Bool() {
		t.Fatalf("all?/any? without block wrong")
	}
}

func TestArrayInjectPromotes(t *testing.T) {
	k := NewKernel(nil)
	sum, err := Ints(math.MaxInt32, 1).Array().Inject(k, NewNil(), false, "+", nil)
	if err != nil || sum.Int() != math.MaxInt32+1 {
		t.Fatalf("int32 overflow sum = %s, %v", sum.Inspect(), err)
	}
	big, err := Ints(math.MaxInt64, 1).Array().Inject(k, NewNil(), false, "+", nil)
	if err != nil || big.Inspect() != "9223372036854775808" {
		t.Fatalf("int64 overflow sum = %s, %v", big.Inspect(), err)
	}
	product, err := Ints(1, 2, 3, 4).Array().Inject(k, NewInt(10), true, "", ValueBlock(func(args ...Value) (Value, error) {
		return IntMul(args[0], args[1])
	}))
	if err != nil || product.Int() != 240 {
		t.Fatalf("block inject = %s, %v", product.Inspect(), err)
	}
	empty, _ := NewArray(nil).Inject(k, NewNil(), false, "+", nil)
	if !empty.IsNil() {
		t.Fatalf("empty inject should be nil")
	}
}

func TestArraySort(t *testing.T) {
	k := NewKernel(nil)
	small, err := ArrayOf(NewInt(3), NewFloat(1.5), NewInt(2)).Array().Sort(k, nil)
	if err != nil {
		t.Fatalf("small sort: %v", err)
	}
	assertInspect(t, NewArrayValue(small), "[1.5, 2, 3]")

	packed := Ints(5, 3, 9, 1).Array()
	sorted, err := packed.Sort(k, nil)
	if err != nil {
		t.Fatalf("packed sort: %v", err)
	}
	assertKind(t, sorted, StorageInt32)
	assertInspect(t, NewArrayValue(sorted), "[1, 3, 5, 9]")
	assertInspect(t, NewArrayValue(packed), "[5, 3, 9, 1]")

	desc, err := packed.Sort(k, ValueBlock(func(args ...Value) (Value, error) {
		return NewInt(int64(args[1].Int() - args[0].Int())), nil
	}))
	if err != nil {
		t.Fatalf("block sort: %v", err)
	}
	assertKind(t, desc, StorageInt32)
	assertInspect(t, NewArrayValue(desc), "[9, 5, 3, 1]")

	large := NewArray(nil)
	for i := 100; i > 0; i-- {
		if i%2 == 0 {
			large.Push(NewInt(int64(i)))
		} else {
			large.Push(NewFloat(float64(i)))
		}
	}
	if err := large.SortBang(k, nil); err != nil {
		t.Fatalf("large sort: %v", err)
	}
	for i := 1; i < large.Len(); i++ {
		if cmp, _ := CompareNumbers(large.Get(i-1), large.Get(i)); cmp > 0 {
			t.Fatalf("not sorted at %d: %s", i, NewArrayValue(large).Inspect())
		}
	}

	if _, err := ArrayOf(NewInt(1), NewString("a")).Array().Sort(k, nil); !errors.Is(err, ErrArgument) {
		t.Fatalf("expected comparison failure, got %v", err)
	}
}

func TestArrayAlgebra(t *testing.T) {
	k := NewKernel(nil)
	a := Ints(1, 2, 2, 3).Array()
	b := Ints(2, 4).Array()

	assertInspect(t, NewArrayValue(a.Plus(b)), "[1, 2, 2, 3, 2, 4]")
	minus, _ := a.Minus(k, b)
	assertInspect(t, NewArrayValue(minus), "[1, 3]")
	union, _ := a.Union(k, b)
	assertInspect(t, NewArrayValue(union), "[1, 2, 3, 4]")

	rep, err := Ints(1, 2).Array().Times(k, NewInt(2))
	if err != nil {
		t.Fatalf("times: %v", err)
	}
	assertInspect(t, rep, "[1, 2, 1, 2]")
	joined, _ := Ints(1, 2).Array().Times(k, NewString(","))
	assertInspect(t, joined, `"1,2"`)

	eq, _ := Ints(1, 2).Array().Equal(k, ArrayOf(NewInt(1), NewFloat(2)).Array())
	if !eq {
		t.Fatalf("[1, 2] should == [1, 2.0]")
	}
	eql, _ := valuesEql(k, Ints(1, 2), ArrayOf(NewInt(1), NewFloat(2)))
	if eql {
		t.Fatalf("[1, 2] should not be eql? to [1, 2.0]")
	}

	prod, err := Ints(1, 2).Array().Product(ArrayOf(NewSymbol("a"), NewSymbol("b")).Array())
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	assertInspect(t, NewArrayValue(prod), "[[1, :a], [1, :b], [2, :a], [2, :b]]")
	assertInspect(t, NewArrayValue(Ints(1, 2, 3).Array().Zip(Ints(4, 5).Array())), "[[1, 4], [2, 5], [3, nil]]")

	perms, err := Ints(1, 2, 3).Array().Permutation(2, nil)
	if err != nil {
		t.Fatalf("permutation: %v", err)
	}
	assertInspect(t, perms, "[[1, 2], [1, 3], [2, 1], [2, 3], [3, 1], [3, 2]]")

	flat, err := ArrayOf(NewInt(1), ArrayOf(NewInt(2), ArrayOf(NewInt(3)))).Array().Flatten(1)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	assertInspect(t, NewArrayValue(flat), "[1, 2, [3]]")

	maxV, _ := Ints(3, 9, 2).Array().Max(k, nil)
	minV, _ := ArrayOf(NewFloat(2.5), NewInt(1)).Array().Min(k, nil)
	if maxV.Int() != 9 || minV.Int() != 1 {
		t.Fatalf("max/min = %s/%s", maxV.Inspect(), minV.Inspect())
	}
	if inc, _ := a.Include(k, NewFloat(3)); !inc {
		t.Fatalf("include? should use ==")
	}
}

func TestArrayRecursiveContainers(t *testing.T) {
	arr := NewArray(nil)
	arr.Push(NewInt(1))
	arr.Push(NewArrayValue(arr))
	assertInspect(t, NewArrayValue(arr), "[1, [...]]")
	if _, err := arr.Flatten(-1); !errors.Is(err, ErrArgument) {
		t.Fatalf("expected recursive flatten error, got %v", err)
	}
	if _, err := arr.Join(nil, ","); !errors.Is(err, ErrArgument) {
		t.Fatalf("expected recursive join error, got %v", err)
	}
}

func TestArrayFormatting(t *testing.T) {
	k := NewKernel(nil)
	s, err := ArrayOf(NewInt(1), ArrayOf(NewInt(2), NewString("x")), NewNil()).Array().Join(k, "-")
	if err != nil || s != "1-2-x-" {
		t.Fatalf("join = %q, %v", s, err)
	}

	cases := []struct {
		arr      Value
		template string
		want     string
	}{
		{Ints(65, 66), "C*", "AB"},
		{Ints(1), "n", "\x00\x01"},
		{Ints(1), "v", "\x01\x00"},
		{Ints(1, 2), "CC", "\x01\x02"},
		{ArrayOf(NewString("ab")), "a4", "ab\x00\x00"},
		{ArrayOf(NewString("ab")), "A4", "ab  "},
	}
	for _, tc := range cases {
		got, err := tc.arr.Array().Pack(tc.template)
		if err != nil {
			t.Fatalf("pack %q: %v", tc.template, err)
		}
		if got != tc.want {
			t.Fatalf("pack %q = %q, want %q", tc.template, got, tc.want)
		}
	}
}

func TestArrayInitialize(t *testing.T) {
	arr := NewArray(nil)
	if _, err := arr.Initialize(3, NewInt(7), nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	assertInspect(t, NewArrayValue(arr), "[7, 7, 7]")
	assertKind(t, arr, StorageInt32)

	if _, err := arr.Initialize(3, NewNil(), ValueBlock(func(args ...Value) (Value, error) {
		return NewFloat(float64(args[0].Int()) / 2), nil
	})); err != nil {
		t.Fatalf("initialize with block: %v", err)
	}
	assertKind(t, arr, StorageFloat64)
	assertInspect(t, NewArrayValue(arr), "[0.0, 0.5, 1.0]")

	if _, err := arr.Initialize(-1, NewNil(), nil); !errors.Is(err, ErrArgument) {
		t.Fatalf("expected negative size error, got %v", err)
	}
}

type brokenEquality struct{}

func (brokenEquality) Call(rt Runtime, name string, args []Value, block Block) (Value, error) {
	if name == "==" {
		return NewNil(), errors.New("boom")
	}
	return NewNil(), noMethod(name, NewObject(brokenEquality{}))
}

func TestArrayDeleteFailureLeavesArrayUnchanged(t *testing.T) {
	k := NewKernel(nil)
	arr := ArrayOf(NewInt(1), NewInt(7), NewInt(2), NewObject(brokenEquality{})).Array()
	if _, err := arr.Delete(k, NewInt(7)); err == nil {
		t.Fatalf("expected the failing == to surface")
	}
	if arr.Len() != 4 {
		t.Fatalf("len %d after failed delete", arr.Len())
	}
	for i, want := range []int64{1, 7, 2} {
		if got := arr.Get(i); got.Kind() != KindInt || got.Int() != want {
			t.Fatalf("arr[%d] = %s, want %d", i, got.Inspect(), want)
		}
	}
	if arr.Get(3).Kind() != KindObject {
		t.Fatalf("arr[3] = %s", arr.Get(3).Inspect())
	}
}

func TestArrayTimesEmptyAndZero(t *testing.T) {
	k := NewKernel(nil)
	out, err := NewArray(nil).Times(k, NewInt(1<<40))
	if err != nil {
		t.Fatalf("times: %v", err)
	}
	assertInspect(t, out, "[]")
	out, err = Ints(1, 2).Array().Times(k, NewInt(0))
	if err != nil {
		t.Fatalf("times: %v", err)
	}
	assertInspect(t, out, "[]")
	if _, err := Ints(1).Array().Times(k, NewInt(-1)); !errors.Is(err, ErrArgument) {
		t.Fatalf("negative repeat: %v", err)
	}
}

func TestArraySetOperationsUseEql(t *testing.T) {
	k := NewKernel(nil)
	mixed := ArrayOf(NewInt(1), NewFloat(1)).Array()

	union, err := Ints(1).Array().Union(k, ArrayOf(NewFloat(1)).Array())
	if err != nil {
		t.Fatalf("union: %v", err)
	}
	assertInspect(t, NewArrayValue(union), "[1, 1.0]")

	minus, err := mixed.Minus(k, Ints(1).Array())
	if err != nil {
		t.Fatalf("minus: %v", err)
	}
	assertInspect(t, NewArrayValue(minus), "[1.0]")

	uniq, err := ArrayOf(NewInt(1), NewFloat(1), NewInt(1), NewFloat(1)).Array().Uniq(k)
	if err != nil {
		t.Fatalf("uniq: %v", err)
	}
	assertInspect(t, NewArrayValue(uniq), "[1, 1.0]")

	floats, _ := ArrayOf(NewFloat(1), NewFloat(2)).Array().Minus(k, Ints(1).Array())
	assertInspect(t, NewArrayValue(floats), "[1.0, 2.0]")
}

func TestArrayPackRejectsBadInput(t *testing.T) {
	cases := []struct {
		arr      Value
		template string
	}{
		{ArrayOf(NewString("ab")), "a99999999999"},
		{Ints(1), "C99999999999"},
		{Ints(-1), "U"},
		{Ints(0x110000), "U"},
		{Ints(0xD800), "U"},
	}
	for _, tc := range cases {
		if _, err := tc.arr.Array().Pack(tc.template); !errors.Is(err, ErrArgument) {
			t.Fatalf("pack %q on %s: expected ArgumentError, got %v", tc.template, tc.arr.Inspect(), err)
		}
	}
	got, err := Ints(0x263A).Array().Pack("U")
	if err != nil || got != "☺" {
		t.Fatalf("pack U = %q, %v", got, err)
	}
}
