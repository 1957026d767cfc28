package incr

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Bind_switch(t *testing.T) {
	g := New()
	v1 := Var(g, 1)
	v2 := Var(g, 2)
	m1 := Map(g, v2, func(x int) int { return x + 1 })
	ctrl := Var(g, "V1")

	b := Bind(g, ctrl, []Incr[int]{v1, m1}, func(which string, candidates []Incr[int]) Incr[int] {
		if which == "V1" {
			return candidates[0]
		}
		return candidates[1]
	})
	out := Map(g, b, strconv.Itoa)

	require.Equal(t, "1", out.Value())

	ctrl.Set("M1")
	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, "3", out.Value())

	v2.Set(5)
	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, "6", out.Value())

	// v1 is no longer a dependency; setting it must not re-fire the bind.
	bindRecomputes := NodeStats(b).Recomputes()
	v1.Set(10)
	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, "6", out.Value())
	require.Equal(t, bindRecomputes, NodeStats(b).Recomputes())

	requireGraphInvariants(t, g)
	requireAllClean(t, g)
}

func Test_Bind_onlyActiveCandidateIsAnEdge(t *testing.T) {
	g := New()
	v1 := Var(g, 1)
	v2 := Var(g, 2)
	m1 := Map(g, v2, func(x int) int { return x + 1 })
	ctrl := Var(g, 0)

	b := Bind(g, ctrl, []Incr[int]{v1, m1}, func(which int, candidates []Incr[int]) Incr[int] {
		return candidates[which]
	})

	require.Contains(t, g.children[v1.Node().ID()], b.Node().ID())
	require.NotContains(t, g.children[m1.Node().ID()], b.Node().ID())

	ctrl.Set(1)
	require.NoError(t, g.Stabilize(testContext()))

	require.NotContains(t, g.children[v1.Node().ID()], b.Node().ID())
	require.Contains(t, g.children[m1.Node().ID()], b.Node().ID())
	require.Equal(t, []NodeID{ctrl.Node().ID(), m1.Node().ID()}, b.Node().Parents())
}

func Test_Bind_inactiveSubtreeDoesNotPropagate(t *testing.T) {
	g := New()
	v1 := Var(g, 1)
	v2 := Var(g, 2)
	m1 := Map(g, v2, func(x int) int { return x + 1 })
	ctrl := Var(g, 0)

	b := Bind(g, ctrl, []Incr[int]{v1, m1}, func(which int, candidates []Incr[int]) Incr[int] {
		return candidates[which]
	})
	var outCalls int
	out := Map(g, b, func(x int) int { outCalls++; return x })
	require.Equal(t, 1, outCalls)

	// m1 is inactive; its subtree still recomputes but the bind's
	// output does not.
	v2.Set(100)
	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, 101, m1.Value())
	require.Equal(t, 1, outCalls)
	require.Equal(t, 1, out.Value())
}

func Test_Bind_depthAdjustment(t *testing.T) {
	g := New()
	sel := Var(g, "shallow")
	shallow := Var(g, 1)
	deepVar := Var(g, 2)
	deep := Map(g, deepVar, func(x int) int { return x * 2 })

	b := Bind(g, sel, []Incr[int]{shallow, deep}, func(which string, candidates []Incr[int]) Incr[int] {
		if which == "shallow" {
			return candidates[0]
		}
		return candidates[1]
	})
	after := Map(g, b, func(x int) int { return x + 1 })

	h := g.MaxHeight()
	require.Equal(t, h-1, deep.Node().Height())
	require.Equal(t, h-1, b.Node().Height())
	require.Equal(t, h-2, after.Node().Height())

	sel.Set("deep")
	require.NoError(t, g.Stabilize(testContext()))

	// switching to the deeper candidate lowers the bind and its
	// descendant by one.
	require.Equal(t, h-2, b.Node().Height())
	require.Equal(t, h-3, after.Node().Height())
	require.Equal(t, 5, after.Value())
	requireGraphInvariants(t, g)
}

func Test_Bind_heightsStayLowered(t *testing.T) {
	g := New()
	sel := Var(g, 0)
	shallow := Var(g, 1)
	deepVar := Var(g, 2)
	deep := Map(g, deepVar, func(x int) int { return x * 2 })

	b := Bind(g, sel, []Incr[int]{shallow, deep}, func(which int, candidates []Incr[int]) Incr[int] {
		return candidates[which]
	})

	sel.Set(1)
	require.NoError(t, g.Stabilize(testContext()))
	lowered := b.Node().Height()
	require.Equal(t, g.MaxHeight()-2, lowered)

	// switching back to the shallow candidate keeps the deepened height.
	sel.Set(0)
	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, lowered, b.Node().Height())
	require.Equal(t, 1, b.Value())
	requireGraphInvariants(t, g)
}

func Test_Bind_switchAndUpstreamChangeSamePass(t *testing.T) {
	g := New()
	v2 := Var(g, 2)
	m1 := Map(g, v2, func(x int) int { return x + 1 })
	v1 := Var(g, 1)
	ctrl := Var(g, 0)

	b := Bind(g, ctrl, []Incr[int]{v1, m1}, func(which int, candidates []Incr[int]) Incr[int] {
		return candidates[which]
	})

	// the candidate and the selector change in the same pass; within a
	// height, candidates recompute before the binds that switch onto
	// them, so the bind forwards the fresh value.
	ctrl.Set(1)
	v2.Set(10)
	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, 11, b.Value())
	requireAllClean(t, g)
}

func Test_Bind_depthExhaustionSurfacesFromStabilize(t *testing.T) {
	g := New(OptGraphMaxHeight(2))
	sel := Var(g, 0)
	shallow := Var(g, 1)
	deepVar := Var(g, 2)
	deep := Map(g, deepVar, func(x int) int { return x * 2 })

	b := Bind(g, sel, []Incr[int]{shallow, deep}, func(which int, candidates []Incr[int]) Incr[int] {
		return candidates[which]
	})
	_ = Map(g, b, func(x int) int { return x + 1 })

	sel.Set(1)
	err := g.Stabilize(testContext())
	require.ErrorIs(t, err, ErrMaxHeightExceeded)
}

func Test_BindIf(t *testing.T) {
	g := New()
	pred := Var(g, true)
	a := Var(g, "a")
	b := Var(g, "b")

	bi := BindIf[string](g, pred, a, b)
	require.Equal(t, "a", bi.Value())

	pred.Set(false)
	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, "b", bi.Value())

	a.Set("A")
	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, "b", bi.Value())

	b.Set("B")
	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, "B", bi.Value())
}
