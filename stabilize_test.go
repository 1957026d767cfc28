package incr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Stabilize_userPanicLeavesPartialState(t *testing.T) {
	g := New()
	v := Var(g, 1)

	var panicky bool
	a := Map(g, v, func(x int) int {
		if panicky {
			panic("boom")
		}
		return x + 1
	})
	b := Map(g, v, func(x int) int { return x * 10 })

	panicky = true
	v.Set(2)
	require.Panics(t, func() {
		_ = g.Stabilize(testContext())
	})

	// the panicked node is stale and still marked dirty; the sibling
	// that never got its turn is still scheduled.
	require.Equal(t, 2, a.Value())
	require.True(t, a.Node().IsDirty())
	require.True(t, b.Node().IsDirty())
	require.False(t, g.IsStabilizing())

	// the next pass resumes from what remained scheduled.
	panicky = false
	require.NoError(t, g.Stabilize(testContext()))
	require.Equal(t, 20, b.Value())
	require.False(t, b.Node().IsDirty())
}

func Test_Stabilize_tracing(t *testing.T) {
	g := New()
	v := Var(g, 1)
	_ = Map(g, v, func(x int) int { return x + 1 })

	output := new(bytes.Buffer)
	errOutput := new(bytes.Buffer)
	ctx := WithTracingOutputs(testContext(), output, errOutput)

	v.Set(2)
	require.NoError(t, g.Stabilize(ctx))

	require.Contains(t, output.String(), "stabilization")
	require.Contains(t, output.String(), "recomputing")
	require.Empty(t, errOutput.String())
}

func Test_Stabilize_tracingIsOptional(t *testing.T) {
	require.Nil(t, GetTracer(testContext()))
	// helpers are no-ops without a tracer on the context.
	TracePrintf(testContext(), "ignored %d", 1)
	TracePrintln(testContext(), "ignored")
	TraceErrorf(testContext(), "ignored %d", 2)
	TraceErrorln(testContext(), "ignored")
}
