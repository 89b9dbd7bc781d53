package core

import (
	"math"
	"slices"
	"sort"
)

// Sort returns a sorted copy. Packed storage sorts natively; boxed storage
// uses selection sort up to Config.SmallSortThreshold elements and the
// library's unstable sort beyond that. No stability is promised.
func (a *Array) Sort(rt Runtime, block Block) (*Array, error) {
	out := a.Dup()
	out.site = nil
	if err := out.sortInPlace(rt, block); err != nil {
		return nil, err
	}
	if out.store.kind != a.store.kind {
		return NewArrayFrom(a.cfg, out.ToSlice()).WithSite(a.site), nil
	}
	return out.WithSite(a.site), nil
}

// SortBang sorts a in place.
func (a *Array) SortBang(rt Runtime, block Block) error {
	sorted, err := a.Sort(rt, block)
	if err != nil {
		return err
	}
	a.Replace(sorted)
	return nil
}

func (a *Array) sortInPlace(rt Runtime, block Block) error {
	if a.length < 2 {
		return nil
	}
	if block == nil {
		switch a.store.kind {
		case StorageInt32:
			slices.Sort(a.store.int32s[:a.length])
			return nil
		case StorageInt64:
			slices.Sort(a.store.int64s[:a.length])
			return nil
		case StorageFloat64:
			buf := a.store.float64s[:a.length]
			if slices.ContainsFunc(buf, math.IsNaN) {
				return argumentError("comparison of Float with Float failed")
			}
			slices.Sort(buf)
			return nil
		}
	}
	if a.store.kind != StorageBoxed {
		a.transition(StorageBoxed, a.length)
	}
	items := a.store.boxed[:a.length]
	if a.length <= a.cfg.SmallSortThreshold {
		return selectionSort(items, func(x, y Value) (int, error) {
			return a.compareWith(rt, block, x, y)
		})
	}
	var sortErr error
	sort.Slice(items, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		cmp, err := a.compareWith(rt, block, items[i], items[j])
		if err != nil {
			sortErr = err
			return false
		}
		return cmp < 0
	})
	return sortErr
}

func selectionSort(items []Value, cmp func(x, y Value) (int, error)) error {
	for i := 0; i < len(items)-1; i++ {
		minIdx := i
		for j := i + 1; j < len(items); j++ {
			c, err := cmp(items[j], items[minIdx])
			if err != nil {
				return err
			}
			if c < 0 {
				minIdx = j
			}
		}
		items[i], items[minIdx] = items[minIdx], items[i]
	}
	return nil
}
