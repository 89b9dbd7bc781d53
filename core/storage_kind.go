package core

import "fmt"

// StorageKind tags the layout of a container's backing memory.
type StorageKind uint8

const (
	StorageEmpty StorageKind = iota
	StorageInt32
	StorageInt64
	StorageFloat64
	StorageBoxed
	StoragePairs
	StorageTable

	storageKindCount
)

func (k StorageKind) String() string {
	switch k {
	case StorageEmpty:
		return "empty"
	case StorageInt32:
		return "int32"
	case StorageInt64:
		return "int64"
	case StorageFloat64:
		return "float64"
	case StorageBoxed:
		return "boxed"
	case StoragePairs:
		return "pairs"
	case StorageTable:
		return "table"
	default:
		return fmt.Sprintf("storage(%d)", int(k))
	}
}

// IsPacked reports whether elements are stored unboxed.
func (k StorageKind) IsPacked() bool {
	return k == StorageInt32 || k == StorageInt64 || k == StorageFloat64
}

// storageKindFor is the tightest array storage able to hold v.
func storageKindFor(v Value) StorageKind {
	switch v.kind {
	case KindInt:
		if FitsInt32(v.data.(int64)) {
			return StorageInt32
		}
		return StorageInt64
	case KindFloat:
		return StorageFloat64
	default:
		return StorageBoxed
	}
}

// accepts reports whether a buffer of kind k can hold v without a transition.
func (k StorageKind) accepts(v Value) bool {
	switch k {
	case StorageInt32:
		return v.kind == KindInt && FitsInt32(v.data.(int64))
	case StorageInt64:
		return v.kind == KindInt
	case StorageFloat64:
		return v.kind == KindFloat
	case StorageBoxed:
		return true
	default:
		return false
	}
}

// generalize is the narrowest kind able to hold both current contents of kind
// k and the value kind next. Int32 widens to Int64 without boxing.
func (k StorageKind) generalize(next StorageKind) StorageKind {
	switch {
	case k == StorageEmpty:
		return next
	case k == next:
		return k
	case (k == StorageInt32 && next == StorageInt64) || (k == StorageInt64 && next == StorageInt32):
		return StorageInt64
	default:
		return StorageBoxed
	}
}
