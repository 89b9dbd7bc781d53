package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mgomes/vibecore/core"
)

// Workbench evaluates one-line container expressions against a persistent
// variable environment. Every literal container is tagged with the
// workbench allocation site so storage transitions can be inspected.
type Workbench struct {
	kernel *core.Kernel
	site   *core.AllocationSite
	env    map[string]core.Value
}

func NewWorkbench(cfg *core.Config) *Workbench {
	k := core.NewKernel(cfg)
	return &Workbench{
		kernel: k,
		site:   core.NewAllocationSite("workbench", k.Config().Logger),
		env:    make(map[string]core.Value),
	}
}

// Eval runs src and stores the result in `_`.
func (w *Workbench) Eval(src string) (core.Value, error) {
	stmts, err := parse(src)
	if err != nil {
		return core.NewNil(), fmt.Errorf("syntax error: %w", err)
	}
	result := core.NewNil()
	for _, stmt := range stmts {
		result, err = stmt.eval(w)
		if err != nil {
			var sig *flowSignal
			if errors.As(err, &sig) {
				return core.NewNil(), fmt.Errorf("%s used outside of a block", sig.keyword())
			}
			return core.NewNil(), err
		}
	}
	w.env["_"] = result
	return result, nil
}

func (w *Workbench) Reset() {
	w.env = make(map[string]core.Value)
}

func (w *Workbench) Lookup(name string) (core.Value, bool) {
	v, ok := w.env[name]
	return v, ok
}

// Vars returns the defined variable names in sorted order.
func (w *Workbench) Vars() []string {
	names := make([]string, 0, len(w.env))
	for name := range w.env {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var transitionKinds = []core.StorageKind{
	core.StorageEmpty, core.StorageInt32, core.StorageInt64, core.StorageFloat64,
	core.StorageBoxed, core.StoragePairs, core.StorageTable,
}

// Stats summarises the storage transitions observed so far.
func (w *Workbench) Stats() string {
	var lines []string
	for _, from := range transitionKinds {
		for _, to := range transitionKinds {
			if n := w.site.Transitions(from, to); n > 0 {
				lines = append(lines, fmt.Sprintf("%s -> %s: %d", from, to, n))
			}
		}
	}
	if len(lines) == 0 {
		return "no storage transitions"
	}
	return strings.Join(lines, "\n")
}

// describe renders a result with the storage kind of containers.
func describe(v core.Value) string {
	switch v.Kind() {
	case core.KindArray:
		arr := v.Array()
		return fmt.Sprintf("%s  # %s, len %d", v.Inspect(), arr.Kind(), arr.Len())
	case core.KindHash:
		m := v.Map()
		return fmt.Sprintf("%s  # %s, size %d", v.Inspect(), m.Kind(), m.Len())
	default:
		return v.Inspect()
	}
}

// flowSignal carries break/next out of a block body.
type flowSignal struct {
	flow  core.Flow
	value core.Value
}

func (s *flowSignal) keyword() string {
	if s.flow == core.FlowBreak {
		return "break"
	}
	return "next"
}

func (s *flowSignal) Error() string { return s.keyword() + " outside of a block" }

func (n *literal) eval(w *Workbench) (core.Value, error) { return n.value, nil }

func (n *arrayLit) eval(w *Workbench) (core.Value, error) {
	b := core.NewArrayBuilder(w.kernel.Config(), len(n.elems)).WithSite(w.site)
	for _, elem := range n.elems {
		v, err := elem.eval(w)
		if err != nil {
			return core.NewNil(), err
		}
		b.Append(v)
	}
	return core.NewArrayValue(b.Finish()), nil
}

func (n *hashLit) eval(w *Workbench) (core.Value, error) {
	m := core.NewMap(w.kernel.Config()).WithSite(w.site)
	for i := range n.keys {
		key, err := n.keys[i].eval(w)
		if err != nil {
			return core.NewNil(), err
		}
		value, err := n.values[i].eval(w)
		if err != nil {
			return core.NewNil(), err
		}
		if err := m.Set(w.kernel, key, value); err != nil {
			return core.NewNil(), err
		}
	}
	return core.NewMapValue(m), nil
}

func (n *varRef) eval(w *Workbench) (core.Value, error) {
	v, ok := w.env[n.name]
	if !ok {
		return core.NewNil(), fmt.Errorf("undefined local variable '%s'", n.name)
	}
	return v, nil
}

func (n *constRef) eval(w *Workbench) (core.Value, error) {
	return core.NewNil(), fmt.Errorf("%s can only be used as %s.new", n.name, n.name)
}

func (n *assign) eval(w *Workbench) (core.Value, error) {
	v, err := n.value.eval(w)
	if err != nil {
		return core.NewNil(), err
	}
	w.env[n.name] = v
	return v, nil
}

func (n *indexExpr) eval(w *Workbench) (core.Value, error) {
	recv, args, err := evalWithArgs(w, n.recv, n.args)
	if err != nil {
		return core.NewNil(), err
	}
	return w.kernel.CallMethod(recv, "[]", args, nil)
}

func (n *indexAssign) eval(w *Workbench) (core.Value, error) {
	recv, args, err := evalWithArgs(w, n.recv, n.args)
	if err != nil {
		return core.NewNil(), err
	}
	value, err := n.value.eval(w)
	if err != nil {
		return core.NewNil(), err
	}
	return w.kernel.CallMethod(recv, "[]=", append(args, value), nil)
}

func (n *callExpr) eval(w *Workbench) (core.Value, error) {
	var block core.Block
	switch {
	case n.symBlock != "":
		block = core.SymbolBlock(w.kernel, n.symBlock)
	case n.block != nil:
		block = w.makeBlock(n.block)
	}
	if c, ok := n.recv.(*constRef); ok {
		return w.construct(c.name, n.name, n.args, block)
	}
	recv, args, err := evalWithArgs(w, n.recv, n.args)
	if err != nil {
		return core.NewNil(), err
	}
	return w.kernel.CallMethod(recv, n.name, args, block)
}

// construct handles Array.new and Hash.new.
func (w *Workbench) construct(class, method string, argNodes []node, block core.Block) (core.Value, error) {
	if method != "new" {
		return core.NewNil(), fmt.Errorf("undefined method '%s' for %s", method, class)
	}
	args, err := evalAll(w, argNodes)
	if err != nil {
		return core.NewNil(), err
	}
	var recv core.Value
	if class == "Array" {
		recv = core.NewArrayValue(core.NewArray(w.kernel.Config()).WithSite(w.site))
	} else {
		recv = core.NewMapValue(core.NewMap(w.kernel.Config()).WithSite(w.site))
	}
	return w.kernel.CallMethod(recv, "initialize", args, block)
}

func (n *binaryExpr) eval(w *Workbench) (core.Value, error) {
	l, err := n.l.eval(w)
	if err != nil {
		return core.NewNil(), err
	}
	r, err := n.r.eval(w)
	if err != nil {
		return core.NewNil(), err
	}
	return w.kernel.CallMethod(l, n.op, []core.Value{r}, nil)
}

func (n *unaryExpr) eval(w *Workbench) (core.Value, error) {
	x, err := n.x.eval(w)
	if err != nil {
		return core.NewNil(), err
	}
	if n.op == "!" {
		return core.NewBool(!w.kernel.IsTruthy(x)), nil
	}
	return w.kernel.CallMethod(x, n.op, nil, nil)
}

func (n *flowExpr) eval(w *Workbench) (core.Value, error) {
	value := core.NewNil()
	if n.value != nil {
		v, err := n.value.eval(w)
		if err != nil {
			return core.NewNil(), err
		}
		value = v
	}
	return core.NewNil(), &flowSignal{flow: n.flow, value: value}
}

// makeBlock binds the block parameters for the duration of each call and
// restores any shadowed variables afterwards. A single array argument is
// destructured across several parameters.
func (w *Workbench) makeBlock(b *blockLit) core.Block {
	return func(args ...core.Value) (core.BlockResult, error) {
		if len(b.params) > 1 && len(args) == 1 && args[0].Kind() == core.KindArray {
			args = args[0].Array().ToSlice()
		}
		type shadowed struct {
			value core.Value
			ok    bool
		}
		saved := make([]shadowed, len(b.params))
		for i, name := range b.params {
			saved[i].value, saved[i].ok = w.env[name]
			arg := core.NewNil()
			if i < len(args) {
				arg = args[i]
			}
			w.env[name] = arg
		}
		defer func() {
			for i, name := range b.params {
				if saved[i].ok {
					w.env[name] = saved[i].value
				} else {
					delete(w.env, name)
				}
			}
		}()
		result := core.NewNil()
		for _, stmt := range b.body {
			v, err := stmt.eval(w)
			if err != nil {
				var sig *flowSignal
				if errors.As(err, &sig) {
					return core.BlockResult{Flow: sig.flow, Value: sig.value}, nil
				}
				return core.BlockResult{}, err
			}
			result = v
		}
		return core.Next(result), nil
	}
}

func evalAll(w *Workbench, nodes []node) ([]core.Value, error) {
	out := make([]core.Value, len(nodes))
	for i, n := range nodes {
		v, err := n.eval(w)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func evalWithArgs(w *Workbench, recvNode node, argNodes []node) (core.Value, []core.Value, error) {
	recv, err := recvNode.eval(w)
	if err != nil {
		return core.NewNil(), nil, err
	}
	args, err := evalAll(w, argNodes)
	if err != nil {
		return core.NewNil(), nil, err
	}
	return recv, args, nil
}
