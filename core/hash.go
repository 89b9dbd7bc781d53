package core

// DefaultProc produces the value for a missing key.
type DefaultProc func(m *Map, key Value) (Value, error)

// Map is an insertion-ordered key/value association with two tiers: a flat
// [k0, v0, k1, v1, ...] buffer scanned linearly while it holds at most
// Config.SmallMapCapacity pairs, then an ordered hash table. Keys compare
// with eql?.
type Map struct {
	kind         StorageKind
	pairs        []Value
	count        int
	table        *orderedTable
	cfg          *Config
	site         *AllocationSite
	defaultValue Value
	defaultProc  DefaultProc
	iterating    int
	// dead marks pairs-tier slots deleted while the map was being iterated.
	// They are compacted away once the last iteration ends.
	dead  []bool
	holes int
}

func NewMap(cfg *Config) *Map {
	return &Map{cfg: resolveConfig(cfg)}
}

// WithSite tags the map for tier transition telemetry.
func (m *Map) WithSite(site *AllocationSite) *Map {
	m.site = site
	return m
}

func (m *Map) Kind() StorageKind { return m.kind }

func (m *Map) Len() int {
	if m.kind == StorageTable {
		return m.table.live
	}
	return m.count - m.holes
}

func (m *Map) Empty() bool { return m.Len() == 0 }

func (m *Map) smallCap() int { return m.cfg.SmallMapCapacity }

func (m *Map) isDead(i int) bool { return m.holes > 0 && m.dead[i] }

// lookup finds key. For the pairs tier pos is the pair index, for the table
// tier the entry position.
func (m *Map) lookup(rt Runtime, key Value) (pos int, err error) {
	switch m.kind {
	case StoragePairs:
		for i := 0; i < m.count; i++ {
			if m.isDead(i) {
				continue
			}
			ok, err := valuesEql(rt, m.pairs[2*i], key)
			if err != nil {
				return -1, err
			}
			if ok {
				return i, nil
			}
		}
		return -1, nil
	case StorageTable:
		h, err := valueHash(rt, key)
		if err != nil {
			return -1, err
		}
		return m.table.find(rt, h, key)
	default:
		return -1, nil
	}
}

func (m *Map) valueAt(pos int) Value {
	if m.kind == StorageTable {
		return m.table.entries[pos].value
	}
	return m.pairs[2*pos+1]
}

// Get is h[key]. A miss consults the default proc, then the default value.
func (m *Map) Get(rt Runtime, key Value) (Value, error) {
	pos, err := m.lookup(rt, key)
	if err != nil {
		return NewNil(), err
	}
	if pos >= 0 {
		return m.valueAt(pos), nil
	}
	return m.Default(key)
}

// Default returns the value produced for a missing key.
func (m *Map) Default(key Value) (Value, error) {
	if m.defaultProc != nil {
		return m.defaultProc(m, key)
	}
	return m.defaultValue, nil
}

// Fetch is h.fetch(key, default) / h.fetch(key) { |k| }. A miss with neither
// raises KeyError.
func (m *Map) Fetch(rt Runtime, key Value, fallback *Value, block Block) (Value, error) {
	pos, err := m.lookup(rt, key)
	if err != nil {
		return NewNil(), err
	}
	switch {
	case pos >= 0:
		return m.valueAt(pos), nil
	case block != nil:
		v, _, err := yield(block, key)
		return v, err
	case fallback != nil:
		return *fallback, nil
	default:
		return NewNil(), keyNotFound(key)
	}
}

func (m *Map) HasKey(rt Runtime, key Value) (bool, error) {
	pos, err := m.lookup(rt, key)
	return pos >= 0, err
}

// Set is h[key] = value. Updating an existing key keeps its position.
func (m *Map) Set(rt Runtime, key, value Value) error {
	switch m.kind {
	case StorageEmpty:
		m.pairs = make([]Value, 2*m.smallCap())
		m.kind = StoragePairs
		m.site.record(StorageEmpty, StoragePairs, 0)
		m.pairs[0], m.pairs[1] = key, value
		m.count = 1
		return nil
	case StoragePairs:
		pos, err := m.lookup(rt, key)
		if err != nil {
			return err
		}
		if pos >= 0 {
			m.pairs[2*pos+1] = value
			return nil
		}
		if m.count < m.smallCap() {
			m.pairs[2*m.count], m.pairs[2*m.count+1] = key, value
			m.count++
			return nil
		}
		return m.promote(rt, key, value)
	default:
		h, err := valueHash(rt, key)
		if err != nil {
			return err
		}
		pos, err := m.table.find(rt, h, key)
		if err != nil {
			return err
		}
		if pos >= 0 {
			m.table.entries[pos].value = value
			return nil
		}
		m.table.insert(h, key, value)
		return nil
	}
}

// promote rehashes the pairs tier plus one new pair into a table. Every hash
// is computed before the map is touched, so a failing hash leaves the map
// unchanged. Dead slots become tombstones, so table positions match the
// pairs slots and a running iteration continues where it was.
func (m *Map) promote(rt Runtime, key, value Value) error {
	hashes := make([]uint64, m.count+1)
	for i := 0; i < m.count; i++ {
		if m.isDead(i) {
			continue
		}
		h, err := valueHash(rt, m.pairs[2*i])
		if err != nil {
			return err
		}
		hashes[i] = h
	}
	h, err := valueHash(rt, key)
	if err != nil {
		return err
	}
	hashes[m.count] = h
	table := newOrderedTable(2 * (m.count + 1))
	for i := 0; i < m.count; i++ {
		if m.isDead(i) {
			table.tombstone()
			continue
		}
		table.insert(hashes[i], m.pairs[2*i], m.pairs[2*i+1])
	}
	table.insert(h, key, value)
	m.site.record(StoragePairs, StorageTable, table.live)
	if m.cfg.Logger != nil && m.site == nil {
		m.cfg.Logger.Debug("hash tier transition", "from", StoragePairs.String(), "to", StorageTable.String(), "size", table.live)
	}
	m.kind, m.table, m.pairs, m.count = StorageTable, table, nil, 0
	m.dead, m.holes = nil, 0
	return nil
}

// Delete removes key and returns its value; found is false on a miss.
func (m *Map) Delete(rt Runtime, key Value) (Value, bool, error) {
	pos, err := m.lookup(rt, key)
	if err != nil || pos < 0 {
		return NewNil(), false, err
	}
	if m.kind == StorageTable {
		return m.table.remove(pos, m.iterating == 0), true, nil
	}
	removed := m.pairs[2*pos+1]
	if m.iterating > 0 {
		if m.dead == nil {
			m.dead = make([]bool, m.smallCap())
		}
		m.dead[pos] = true
		m.holes++
		m.pairs[2*pos], m.pairs[2*pos+1] = Value{}, Value{}
		return removed, true, nil
	}
	copy(m.pairs[2*pos:], m.pairs[2*pos+2:2*m.count])
	m.count--
	m.pairs[2*m.count], m.pairs[2*m.count+1] = Value{}, Value{}
	return removed, true, nil
}

// Clear empties the map. The storage returns to the empty tier.
func (m *Map) Clear() *Map {
	m.kind, m.pairs, m.count, m.table = StorageEmpty, nil, 0, nil
	m.dead, m.holes = nil, 0
	return m
}

// compactPairs squeezes dead slots out of the pairs tier.
func (m *Map) compactPairs() {
	kept := 0
	for i := 0; i < m.count; i++ {
		if m.dead[i] {
			continue
		}
		if kept != i {
			m.pairs[2*kept], m.pairs[2*kept+1] = m.pairs[2*i], m.pairs[2*i+1]
		}
		kept++
	}
	clear(m.pairs[2*kept : 2*m.count])
	clear(m.dead)
	m.count, m.holes = kept, 0
}

func (m *Map) DefaultValue() Value { return m.defaultValue }

func (m *Map) SetDefault(v Value) {
	m.defaultValue = v
	m.defaultProc = nil
}

func (m *Map) SetDefaultProc(proc DefaultProc) {
	m.defaultProc = proc
	m.defaultValue = NewNil()
}

// Initialize is Hash.new(default) / Hash.new { |hash, key| }.
func (m *Map) Initialize(rt Runtime, defaultValue Value, block Block) *Map {
	m.Clear()
	if block == nil {
		m.SetDefault(defaultValue)
		return m
	}
	m.SetDefaultProc(func(self *Map, key Value) (Value, error) {
		v, _, err := yield(block, NewMapValue(self), key)
		return v, err
	})
	return m
}

// Dup copies the entries and defaults; the tier is preserved.
func (m *Map) Dup() *Map {
	out := &Map{
		kind:         m.kind,
		cfg:          m.cfg,
		site:         m.site,
		defaultValue: m.defaultValue,
		defaultProc:  m.defaultProc,
	}
	switch m.kind {
	case StoragePairs:
		out.pairs = make([]Value, len(m.pairs))
		for i := 0; i < m.count; i++ {
			if m.isDead(i) {
				continue
			}
			out.pairs[2*out.count], out.pairs[2*out.count+1] = m.pairs[2*i], m.pairs[2*i+1]
			out.count++
		}
	case StorageTable:
		out.table = m.table.clone()
	}
	return out
}

// forEach visits live pairs in insertion order until fn returns false. The
// tier and bound are re-read on every step. Deletes leave dead slots in
// place while any iteration runs, and promotion keeps slot positions, so a
// position is a stable cursor across both tiers.
func (m *Map) forEach(fn func(key, value Value) bool) {
	m.iterating++
	defer func() {
		m.iterating--
		if m.iterating == 0 && m.holes > 0 {
			m.compactPairs()
		}
	}()
	for i := 0; ; i++ {
		var key, value Value
		switch m.kind {
		case StoragePairs:
			if i >= m.count {
				return
			}
			if m.isDead(i) {
				continue
			}
			key, value = m.pairs[2*i], m.pairs[2*i+1]
		case StorageTable:
			if i >= len(m.table.entries) {
				return
			}
			e := m.table.entries[i]
			if !e.live {
				continue
			}
			key, value = e.key, e.value
		default:
			return
		}
		if !fn(key, value) {
			return
		}
	}
}

// Each yields key and value for every pair in insertion order.
func (m *Map) Each(block Block) (Value, error) {
	var result Value
	var iterErr error
	broke := false
	m.forEach(func(key, value Value) bool {
		v, flow, err := yield(block, key, value)
		if err != nil {
			iterErr = err
			return false
		}
		if flow == FlowBreak {
			broke, result = true, v
			return false
		}
		return true
	})
	if iterErr != nil {
		return NewNil(), iterErr
	}
	if broke {
		return result, nil
	}
	return NewMapValue(m), nil
}

func (m *Map) Keys() *Array {
	b := NewArrayBuilder(m.cfg, m.Len())
	m.forEach(func(key, _ Value) bool {
		b.Append(key)
		return true
	})
	return b.Finish()
}

func (m *Map) Values() *Array {
	b := NewArrayBuilder(m.cfg, m.Len())
	m.forEach(func(_, value Value) bool {
		b.Append(value)
		return true
	})
	return b.Finish()
}

// ToArray is h.to_a: an array of [key, value] pairs.
func (m *Map) ToArray() *Array {
	b := NewArrayBuilder(m.cfg, m.Len())
	m.forEach(func(key, value Value) bool {
		b.Append(NewArrayValue(NewArrayFrom(m.cfg, []Value{key, value})))
		return true
	})
	return b.Finish()
}

// MapPairs is h.map { |k, v| }: the block results as an array.
func (m *Map) MapPairs(block Block) (Value, error) {
	b := NewArrayBuilder(m.cfg, m.Len())
	var result Value
	var iterErr error
	broke := false
	m.forEach(func(key, value Value) bool {
		v, flow, err := yield(block, key, value)
		if err != nil {
			iterErr = err
			return false
		}
		if flow == FlowBreak {
			broke, result = true, v
			return false
		}
		b.Append(v)
		return true
	})
	if iterErr != nil {
		return NewNil(), iterErr
	}
	if broke {
		return result, nil
	}
	return NewArrayValue(b.Finish()), nil
}

// Merge returns a new map with the pairs of others applied over m. When block
// is given it resolves keys present on both sides as block(key, old, new).
func (m *Map) Merge(rt Runtime, block Block, others ...*Map) (*Map, error) {
	out := m.Dup()
	for _, other := range others {
		if block == nil && out.kind == StoragePairs && other.kind == StoragePairs &&
			out.holes == 0 && out.count+other.Len() <= out.smallCap() {
			if err := out.mergePacked(rt, other); err != nil {
				return nil, err
			}
			continue
		}
		var mergeErr error
		other.forEach(func(key, value Value) bool {
			if block != nil {
				pos, err := out.lookup(rt, key)
				if err != nil {
					mergeErr = err
					return false
				}
				if pos >= 0 {
					resolved, _, err := yield(block, key, out.valueAt(pos), value)
					if err != nil {
						mergeErr = err
						return false
					}
					value = resolved
				}
			}
			if err := out.Set(rt, key, value); err != nil {
				mergeErr = err
				return false
			}
			return true
		})
		if mergeErr != nil {
			return nil, mergeErr
		}
	}
	return out, nil
}

// mergePacked merges two pairs-tier maps whose combined size fits the small
// tier, writing straight into the flat buffer.
func (m *Map) mergePacked(rt Runtime, other *Map) error {
	for i := 0; i < other.count; i++ {
		if other.isDead(i) {
			continue
		}
		key, value := other.pairs[2*i], other.pairs[2*i+1]
		pos, err := m.lookup(rt, key)
		if err != nil {
			return err
		}
		if pos >= 0 {
			m.pairs[2*pos+1] = value
			continue
		}
		m.pairs[2*m.count], m.pairs[2*m.count+1] = key, value
		m.count++
	}
	return nil
}

// Equal is ==: same size and every key maps to == values.
func (m *Map) Equal(rt Runtime, other *Map) (bool, error) {
	if m == other {
		return true, nil
	}
	if m.Len() != other.Len() {
		return false, nil
	}
	equal := true
	var cmpErr error
	m.forEach(func(key, value Value) bool {
		pos, err := other.lookup(rt, key)
		if err != nil {
			cmpErr = err
			return false
		}
		if pos < 0 {
			equal = false
			return false
		}
		ok, err := valuesEqual(rt, value, other.valueAt(pos))
		if err != nil {
			cmpErr = err
			return false
		}
		equal = ok
		return ok
	})
	if cmpErr != nil {
		return false, cmpErr
	}
	return equal, nil
}

func (m *Map) Inspect() string { return NewMapValue(m).Inspect() }
