package incr

import "fmt"

// Bind lets you swap out which of several candidate nodes feeds a
// computation, based on the value of a selector input.
//
// A way to think about this, as a sequence:
//
// A selector `a` drives a bind `b` that currently forwards
// candidate `c`:
//
//	a -> b.bind() -> c
//
// We might want to, at some point in the future, swap out `c` for `d`
// based on the value of `a`:
//
//	a -> b.bind() -> d
//
// Only the active candidate is wired as a dependency. When the chooser
// moves the binding from (c) to (d), the engine unlinks (c), links (d),
// and deepens heights below the bind as needed. Setting variables
// beneath an inactive candidate does not re-fire this node's output;
// that is the whole point of Bind.
//
// The candidate set is fixed at construction and the chooser must be a
// pure function returning one of the candidates it is given.
func Bind[I, O any](g *Graph, selector Incr[I], candidates []Incr[O], chooser func(I, []Incr[O]) Incr[O]) BindIncr[O] {
	b := &bindIncr[I, O]{
		selector:   selector,
		candidates: append([]Incr[O](nil), candidates...),
		chooser:    chooser,
	}
	b.active = chooser(selector.Value(), b.candidates)
	b.value = b.active.Value()
	b.n = g.newDependentNode(b, KindBind, selector, b.active)
	return b
}

// BindIf returns a node that forwards one of two inputs based on a
// boolean predicate, switching dependencies as the predicate changes.
func BindIf[A any](g *Graph, pred Incr[bool], a, b Incr[A]) BindIncr[A] {
	return Bind(g, pred, []Incr[A]{a, b}, func(v bool, candidates []Incr[A]) Incr[A] {
		if v {
			return candidates[0]
		}
		return candidates[1]
	})
}

// BindIncr is a node that dynamically swaps out which subgraph it
// forwards, based on a selector incremental.
type BindIncr[O any] interface {
	Incr[O]
	fmt.Stringer
}

var (
	_ Incr[bool]     = (*bindIncr[string, bool])(nil)
	_ BindIncr[bool] = (*bindIncr[string, bool])(nil)
	_ INode          = (*bindIncr[string, bool])(nil)
	_ fmt.Stringer   = (*bindIncr[string, bool])(nil)
)

type bindIncr[I, O any] struct {
	n          *Node
	selector   Incr[I]
	candidates []Incr[O]
	chooser    func(I, []Incr[O]) Incr[O]
	active     Incr[O]
	value      O
}

func (b *bindIncr[I, O]) Node() *Node { return b.n }

func (b *bindIncr[I, O]) Value() O { return b.value }

// Recompute re-runs the chooser against the selector's current value
// and forwards the active candidate's value. When the active candidate
// changes, the swap is reported as removed/added dependency edges for
// the engine to apply; the node itself never touches graph structure.
func (b *bindIncr[I, O]) Recompute() RecomputeOutcome {
	newActive := b.chooser(b.selector.Value(), b.candidates)
	oldActive := b.active
	b.active = newActive
	b.value = newActive.Value()
	b.n.dirty = false

	outcome := RecomputeOutcome{ValueChanged: true}
	if newActive.Node().id != oldActive.Node().id {
		outcome.Removed = []NodeID{oldActive.Node().id}
		outcome.Added = []NodeID{newActive.Node().id}
	}
	return outcome
}

func (b *bindIncr[I, O]) String() string { return b.n.String() }
