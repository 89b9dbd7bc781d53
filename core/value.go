package core

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindBigInt
	KindFloat
	KindString
	KindSymbol
	KindArray
	KindHash
	KindObject
)

type Value struct {
	kind ValueKind
	data any
}

// Receiver is implemented by host objects stored in containers. The Kernel
// forwards every method call on a KindObject value to its Receiver.
type Receiver interface {
	Call(rt Runtime, name string, args []Value, block Block) (Value, error)
}

type BuiltinFunc func(rt Runtime, receiver Value, args []Value, block Block) (Value, error)
