package core

// Runtime is the dispatch layer the containers call back into for
// value-level operations (==, eql?, hash, <=>, to_s) on elements whose
// representation alone cannot answer the question.
type Runtime interface {
	CallMethod(receiver Value, name string, args []Value, block Block) (Value, error)
	IsTruthy(v Value) bool
}

// Flow is the loop-control outcome of one block invocation.
type Flow uint8

const (
	// FlowNext continues with the next element; the value is the block result.
	FlowNext Flow = iota
	// FlowBreak stops the iteration; the value becomes the method's result.
	FlowBreak
	// FlowRedo invokes the block again for the same element.
	FlowRedo
)

type BlockResult struct {
	Flow  Flow
	Value Value
}

// Block is a caller-supplied callable applied per element. A nil Block means
// no block was given.
type Block func(args ...Value) (BlockResult, error)

func Next(v Value) BlockResult  { return BlockResult{Flow: FlowNext, Value: v} }
func Break(v Value) BlockResult { return BlockResult{Flow: FlowBreak, Value: v} }
func Redo() BlockResult         { return BlockResult{Flow: FlowRedo} }

// ValueBlock adapts a plain function that always continues.
func ValueBlock(fn func(args ...Value) (Value, error)) Block {
	return func(args ...Value) (BlockResult, error) {
		v, err := fn(args...)
		if err != nil {
			return BlockResult{}, err
		}
		return Next(v), nil
	}
}

// SymbolBlock is the block form of `&:name`: it sends name to the first
// argument with the rest as arguments.
func SymbolBlock(rt Runtime, name string) Block {
	return func(args ...Value) (BlockResult, error) {
		if len(args) == 0 {
			return BlockResult{}, argumentError("no receiver given")
		}
		v, err := rt.CallMethod(args[0], name, args[1:], nil)
		if err != nil {
			return BlockResult{}, err
		}
		return Next(v), nil
	}
}

// yield invokes block until it stops asking for a redo.
func yield(block Block, args ...Value) (Value, Flow, error) {
	for {
		res, err := block(args...)
		if err != nil {
			return NewNil(), FlowNext, err
		}
		if res.Flow == FlowRedo {
			continue
		}
		return res.Value, res.Flow, nil
	}
}

func truthy(rt Runtime, v Value) bool {
	if rt == nil {
		return v.Truthy()
	}
	return rt.IsTruthy(v)
}
