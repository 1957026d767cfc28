package incr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Var(t *testing.T) {
	g := New()
	v := Var(g, "hello")

	require.Equal(t, "hello", v.Value())
	require.Equal(t, KindVar, v.Node().Kind())
	require.Equal(t, g.MaxHeight(), v.Node().Height())
	require.False(t, v.Node().IsDirty())
	require.Empty(t, v.Node().Parents())
}

func Test_Var_setMarksDirty(t *testing.T) {
	g := New()
	v := Var(g, 1)

	v.Set(2)
	require.True(t, v.Node().IsDirty())
	require.Equal(t, 2, v.Value())

	require.NoError(t, g.Stabilize(testContext()))
	require.False(t, v.Node().IsDirty())
}

func Test_Var_downstreamStaleUntilStabilize(t *testing.T) {
	g := New()
	v := Var(g, 1)
	m := Map(g, v, func(x int) int { return x + 1 })

	v.Set(10)
	require.Equal(t, 2, m.Value())

	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, 11, m.Value())
}

func Test_Return(t *testing.T) {
	g := New()
	r := Return(g, "constant")
	m := Map(g, r, func(v string) string { return "very " + v })

	require.Equal(t, "very constant", m.Value())
	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, "very constant", m.Value())
	require.Zero(t, NodeStats(m).Recomputes())
}

func Test_ExpertVar_setInternalValue(t *testing.T) {
	g := New()
	v := Var(g, 1)
	var calls int
	m := Map(g, v, func(x int) int { calls++; return x + 1 })
	require.Equal(t, 1, calls)

	ExpertVar(v).SetInternalValue(5)
	require.Equal(t, 5, v.Value())
	require.False(t, v.Node().IsDirty())

	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, 1, calls, "internal sets do not stale the variable")
	require.Equal(t, 2, m.Value())
}
