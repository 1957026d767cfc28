package incr

import "fmt"

// Map returns a node whose value is a pure function of the value of a
// parent node.
//
// The function is applied once, eagerly, at construction so the node
// has a value before the first stabilization, and then again whenever
// the parent changes during a pass. The function must not mutate graph
// state; it receives the parent's current value and returns the new
// output.
func Map[I, O any](g *Graph, parent Incr[I], fn func(I) O) Incr[O] {
	m := &mapIncr[I, O]{
		parent: parent,
		fn:     fn,
		value:  fn(parent.Value()),
	}
	m.n = g.newDependentNode(m, KindMap, parent)
	return m
}

var (
	_ Incr[string] = (*mapIncr[int, string])(nil)
	_ INode        = (*mapIncr[int, string])(nil)
	_ fmt.Stringer = (*mapIncr[int, string])(nil)
)

type mapIncr[I, O any] struct {
	n      *Node
	parent Incr[I]
	fn     func(I) O
	value  O
}

func (m *mapIncr[I, O]) Node() *Node { return m.n }

func (m *mapIncr[I, O]) Value() O { return m.value }

// Recompute unconditionally re-applies the function to the parent's
// current value; the engine does not compare old and new values. Wrap
// the node with Cutoff to opt in to equality-based suppression.
func (m *mapIncr[I, O]) Recompute() RecomputeOutcome {
	m.value = m.fn(m.parent.Value())
	m.n.dirty = false
	return RecomputeOutcome{ValueChanged: true}
}

func (m *mapIncr[I, O]) String() string { return m.n.String() }
