package incr

import "fmt"

// Map2 returns a node whose value is a pure function of the values of
// two parent nodes.
//
// Like Map, the function is applied eagerly at construction, and then
// whenever either parent changes during a stabilization pass. When both
// parents change in the same pass the node still recomputes exactly
// once, after both.
func Map2[I1, I2, O any](g *Graph, p1 Incr[I1], p2 Incr[I2], fn func(I1, I2) O) Incr[O] {
	m := &map2Incr[I1, I2, O]{
		p1:    p1,
		p2:    p2,
		fn:    fn,
		value: fn(p1.Value(), p2.Value()),
	}
	m.n = g.newDependentNode(m, KindMap2, p1, p2)
	return m
}

var (
	_ Incr[string] = (*map2Incr[int, bool, string])(nil)
	_ INode        = (*map2Incr[int, bool, string])(nil)
	_ fmt.Stringer = (*map2Incr[int, bool, string])(nil)
)

type map2Incr[I1, I2, O any] struct {
	n     *Node
	p1    Incr[I1]
	p2    Incr[I2]
	fn    func(I1, I2) O
	value O
}

func (m *map2Incr[I1, I2, O]) Node() *Node { return m.n }

func (m *map2Incr[I1, I2, O]) Value() O { return m.value }

func (m *map2Incr[I1, I2, O]) Recompute() RecomputeOutcome {
	m.value = m.fn(m.p1.Value(), m.p2.Value())
	m.n.dirty = false
	return RecomputeOutcome{ValueChanged: true}
}

func (m *map2Incr[I1, I2, O]) String() string { return m.n.String() }
