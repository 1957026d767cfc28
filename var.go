package incr

import "fmt"

// Var returns a new variable node: a leaf whose value is set from
// outside the graph.
//
// Variables are the only way changes enter a graph. Setting one stages
// the new value; dependents keep their previous values until the next
// call to `Stabilize`.
func Var[T any](g *Graph, value T) VarIncr[T] {
	v := &varIncr[T]{
		value: value,
	}
	v.n = g.newLeafNode(v, KindVar)
	return v
}

// VarIncr is a node that can have its value set directly.
type VarIncr[T any] interface {
	Incr[T]
	// Set stages a new value for the variable; it is visible to
	// dependents after the next Stabilize.
	Set(T)
}

var (
	_ VarIncr[string] = (*varIncr[string])(nil)
	_ INode           = (*varIncr[string])(nil)
	_ fmt.Stringer    = (*varIncr[string])(nil)
)

type varIncr[T any] struct {
	n     *Node
	value T
}

func (v *varIncr[T]) Node() *Node { return v.n }

func (v *varIncr[T]) Value() T { return v.value }

// Set writes the value and marks the variable stale. Nothing is
// scheduled here; changes batch until the next stabilization.
func (v *varIncr[T]) Set(value T) {
	v.value = value
	v.n.graph.SetStale(v)
}

// Recompute does not compute anything for a variable; the value is
// whatever Set last wrote. It reports a change iff the variable was
// set since it last recomputed.
func (v *varIncr[T]) Recompute() RecomputeOutcome {
	wasDirty := v.n.dirty
	v.n.dirty = false
	return RecomputeOutcome{ValueChanged: wasDirty}
}

func (v *varIncr[T]) String() string { return v.n.String() }
