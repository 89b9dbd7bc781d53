package core

// ArrayBuilder accumulates the elements of a new array whose final size or
// element types are not known up front. Values are staged boxed; the final
// representation is chosen once, in Finish, from three could-still-be flags.
type ArrayBuilder struct {
	cfg        *Config
	site       *AllocationSite
	staging    []Value
	couldInt32 bool
	couldInt64 bool
	couldFloat bool
}

// NewArrayBuilder starts a builder sized for sizeHint elements.
func NewArrayBuilder(cfg *Config, sizeHint int) *ArrayBuilder {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &ArrayBuilder{
		cfg:        resolveConfig(cfg),
		staging:    make([]Value, 0, sizeHint),
		couldInt32: true,
		couldInt64: true,
		couldFloat: true,
	}
}

// WithSite tags the array produced by Finish.
func (b *ArrayBuilder) WithSite(site *AllocationSite) *ArrayBuilder {
	b.site = site
	return b
}

func (b *ArrayBuilder) Append(v Value) {
	switch v.kind {
	case KindInt:
		b.couldFloat = false
		if !FitsInt32(v.Int()) {
			b.couldInt32 = false
		}
	case KindFloat:
		b.couldInt32 = false
		b.couldInt64 = false
	default:
		b.couldInt32 = false
		b.couldInt64 = false
		b.couldFloat = false
	}
	b.staging = append(b.staging, v)
}

func (b *ArrayBuilder) AppendAll(values ...Value) {
	for _, v := range values {
		b.Append(v)
	}
}

func (b *ArrayBuilder) Len() int { return len(b.staging) }

// Kind reports the storage Finish would choose right now.
func (b *ArrayBuilder) Kind() StorageKind {
	switch {
	case len(b.staging) == 0:
		return StorageEmpty
	case b.couldInt32:
		return StorageInt32
	case b.couldInt64:
		return StorageInt64
	case b.couldFloat:
		return StorageFloat64
	default:
		return StorageBoxed
	}
}

// Finish materialises the array in the tightest kind consistent with every
// appended value. A boxed result adopts the staging buffer without copying.
// The builder must not be used afterwards.
func (b *ArrayBuilder) Finish() *Array {
	n := len(b.staging)
	arr := &Array{cfg: b.cfg, site: b.site, length: n}
	kind := b.Kind()
	switch kind {
	case StorageEmpty:
	case StorageBoxed:
		arr.store = arrayStorage{kind: StorageBoxed, boxed: b.staging[:cap(b.staging)]}
	default:
		arr.store = allocStorage(kind, n)
		for i, v := range b.staging {
			arr.store.put(i, v)
		}
	}
	b.site.record(StorageEmpty, kind, n)
	b.staging = nil
	return arr
}
