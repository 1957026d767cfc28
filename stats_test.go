package incr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_NodeStats(t *testing.T) {
	g := New()
	v1 := Var(g, 1)
	v2 := Var(g, 1)
	m1 := Map2(g, v1, v2, func(a, b int) int { return a + b })
	m2 := Map(g, m1, func(a int) int { return a * 2 })
	m3 := Map(g, m1, func(a int) int { return a * 3 })

	stats := NodeStats(m1)
	require.Equal(t, 2, stats.Parents())
	require.Equal(t, 2, stats.Children())
	require.Zero(t, stats.Recomputes())
	require.Zero(t, stats.Changes())

	v1.Set(2)
	require.NoError(t, g.Stabilize(testContext()))

	stats = NodeStats(m1)
	require.Equal(t, uint64(1), stats.Recomputes())
	require.Equal(t, uint64(1), stats.Changes())
	require.Equal(t, 3, m1.Value())
	require.Equal(t, 6, m2.Value())
	require.Equal(t, 9, m3.Value())
}

func Test_GraphStats(t *testing.T) {
	g := New()
	v := Var(g, 1)
	_ = Map(g, v, func(a int) int { return a + 1 })

	stats := g.Stats()
	require.Equal(t, uint64(1), stats.StabilizationNum())
	require.Equal(t, uint64(2), stats.Nodes())
	require.Zero(t, stats.NodesRecomputed())

	v.Set(2)
	require.NoError(t, g.Stabilize(testContext()))

	stats = g.Stats()
	require.Equal(t, uint64(2), stats.StabilizationNum())
	require.Equal(t, uint64(2), stats.NodesRecomputed())
	require.Equal(t, uint64(2), stats.NodesChanged())
}
