package incr

import "fmt"

// Return creates a new node from a given value.
//
// You can think of this as a constant; it is a variable
// you can never set.
func Return[A any](g *Graph, value A) Incr[A] {
	r := &returnIncr[A]{
		value: value,
	}
	r.n = g.newLeafNode(r, KindReturn)
	return r
}

var (
	_ Incr[string] = (*returnIncr[string])(nil)
	_ INode        = (*returnIncr[string])(nil)
	_ fmt.Stringer = (*returnIncr[string])(nil)
)

type returnIncr[A any] struct {
	n     *Node
	value A
}

func (r *returnIncr[A]) Node() *Node { return r.n }

func (r *returnIncr[A]) Value() A { return r.value }

func (r *returnIncr[A]) Recompute() RecomputeOutcome {
	r.n.dirty = false
	return RecomputeOutcome{}
}

func (r *returnIncr[A]) String() string { return r.n.String() }
