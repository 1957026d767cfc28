package incr

import "fmt"

// Cutoff returns a new wrapping cutoff incremental.
//
// The goal of the cutoff incremental is to stop recomputation at a
// given node if the difference between the previous and latest values
// is not significant enough to warrant recomputing its children.
//
// Equality suppression is strictly opt-in, per node: nodes whose value
// types have no cheap equality simply don't get wrapped.
func Cutoff[A any](g *Graph, parent Incr[A], fn func(previous, latest A) bool) Incr[A] {
	c := &cutoffIncr[A]{
		parent: parent,
		fn:     fn,
		value:  parent.Value(),
	}
	c.n = g.newDependentNode(c, KindCutoff, parent)
	return c
}

var (
	_ Incr[string] = (*cutoffIncr[string])(nil)
	_ INode        = (*cutoffIncr[string])(nil)
	_ fmt.Stringer = (*cutoffIncr[string])(nil)
)

// cutoffIncr is a concrete implementation of Incr for
// the cutoff operator.
type cutoffIncr[A any] struct {
	n      *Node
	parent Incr[A]
	fn     func(A, A) bool
	value  A
}

func (c *cutoffIncr[A]) Node() *Node { return c.n }

func (c *cutoffIncr[A]) Value() A { return c.value }

func (c *cutoffIncr[A]) Recompute() RecomputeOutcome {
	latest := c.parent.Value()
	c.n.dirty = false
	if c.fn(c.value, latest) {
		return RecomputeOutcome{}
	}
	c.value = latest
	return RecomputeOutcome{ValueChanged: true}
}

func (c *cutoffIncr[A]) String() string { return c.n.String() }
