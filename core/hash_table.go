package core

// orderedTable is the large-map tier: entries are kept in insertion order in
// a slice, with a hash index from key hash to entry positions. Deleted
// entries leave tombstones until compaction.
//
// Correctness assumes eql? and hash agree: keys that are eql? must hash
// equal. Host objects that break this may become unreachable in this tier.
type orderedTable struct {
	entries []tableEntry
	index   map[uint64][]int
	live    int
}

type tableEntry struct {
	key   Value
	value Value
	hash  uint64
	live  bool
}

const tableCompactMinDead = 8

func newOrderedTable(capacity int) *orderedTable {
	return &orderedTable{
		entries: make([]tableEntry, 0, capacity),
		index:   make(map[uint64][]int, capacity),
	}
}

// find returns the entry position of key, or -1.
func (t *orderedTable) find(rt Runtime, h uint64, key Value) (int, error) {
	for _, pos := range t.index[h] {
		ok, err := valuesEql(rt, t.entries[pos].key, key)
		if err != nil {
			return -1, err
		}
		if ok {
			return pos, nil
		}
	}
	return -1, nil
}

func (t *orderedTable) insert(h uint64, key, value Value) {
	t.index[h] = append(t.index[h], len(t.entries))
	t.entries = append(t.entries, tableEntry{key: key, value: value, hash: h, live: true})
	t.live++
}

// tombstone appends a dead entry, keeping positions aligned with a pairs
// tier being promoted mid-iteration.
func (t *orderedTable) tombstone() {
	t.entries = append(t.entries, tableEntry{})
}

// remove tombstones the entry at pos. Compaction is skipped while the map is
// being iterated so entry positions stay stable.
func (t *orderedTable) remove(pos int, compactOK bool) Value {
	e := &t.entries[pos]
	removed := e.value
	bucket := t.index[e.hash]
	for i, p := range bucket {
		if p == pos {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(t.index, e.hash)
	} else {
		t.index[e.hash] = bucket
	}
	*e = tableEntry{}
	t.live--
	if dead := len(t.entries) - t.live; compactOK && dead >= tableCompactMinDead && dead > t.live {
		t.compact()
	}
	return removed
}

// compact drops tombstones and rebuilds the index.
func (t *orderedTable) compact() {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.live {
			kept = append(kept, e)
		}
	}
	clear(t.entries[len(kept):])
	t.entries = kept
	t.index = make(map[uint64][]int, len(kept))
	for pos, e := range t.entries {
		t.index[e.hash] = append(t.index[e.hash], pos)
	}
}

func (t *orderedTable) clone() *orderedTable {
	out := &orderedTable{
		entries: append([]tableEntry(nil), t.entries...),
		index:   make(map[uint64][]int, len(t.index)),
		live:    t.live,
	}
	for h, bucket := range t.index {
		out.index[h] = append([]int(nil), bucket...)
	}
	return out
}
