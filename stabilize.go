package incr

import (
	"context"
	"sync/atomic"
	"time"
)

// Stabilize kicks off a full stabilization pass.
//
// The pass seeds the recompute heap with every variable that was set
// since the last pass, then drains the heap highest-height first, so
// that every node recomputes after all of its ancestors and at most
// once. When Stabilize returns nil every reachable node is clean and
// consistent with its inputs.
//
// A panic from a user mapping or chooser function propagates out of
// Stabilize; nodes already recomputed keep their fresh values, while the
// node whose function panicked and the nodes still scheduled stay dirty
// and are picked up by the next pass.
func (graph *Graph) Stabilize(ctx context.Context) (err error) {
	if err = graph.ensureNotStabilizing(ctx); err != nil {
		return
	}
	ctx = graph.stabilizeStart(ctx)
	defer func() {
		graph.stabilizeEnd(ctx, err)
	}()

	graph.visited = newBitmap(len(graph.nodes))
	graph.seedPending()
	for {
		n, ok := graph.recomputeHeap.removeMax()
		if !ok {
			break
		}
		graph.visited.insert(int(n.Node().id))
		if err = graph.recomputeNode(ctx, n); err != nil {
			return
		}
	}
	return
}

// seedPending drains the variables staged by `Set` into the
// recompute heap.
func (graph *Graph) seedPending() {
	for _, n := range graph.pending {
		graph.scheduleIfUnvisited(n)
	}
	graph.pending = graph.pending[:0]
}

func (graph *Graph) ensureNotStabilizing(ctx context.Context) error {
	if atomic.LoadInt32(&graph.status) != StatusNotStabilizing {
		TracePrintf(ctx, "stabilize; already stabilizing, cannot continue")
		return ErrAlreadyStabilizing
	}
	return nil
}

func (graph *Graph) stabilizeStart(ctx context.Context) context.Context {
	atomic.StoreInt32(&graph.status, StatusStabilizing)
	for _, handler := range graph.onStabilizationStart {
		handler(ctx)
	}
	graph.stabilizationStarted = time.Now()
	TracePrintf(ctx, "stabilization[%d] starting", graph.stabilizationNum)
	return ctx
}

func (graph *Graph) stabilizeEnd(ctx context.Context, err error) {
	defer func() {
		graph.stabilizationStarted = time.Time{}
		atomic.StoreInt32(&graph.status, StatusNotStabilizing)
	}()
	for _, handler := range graph.onStabilizationEnd {
		handler(ctx, graph.stabilizationStarted, err)
	}
	if err != nil {
		TraceErrorf(ctx, "stabilization error: %v", err)
		TracePrintf(ctx, "stabilization failed (%v elapsed)", time.Since(graph.stabilizationStarted).Round(time.Microsecond))
	} else {
		TracePrintf(ctx, "stabilization complete (%v elapsed)", time.Since(graph.stabilizationStarted).Round(time.Microsecond))
	}
	graph.stabilizeEndRunUpdateHandlers(ctx)
	graph.stabilizationNum++
}

func (graph *Graph) stabilizeEndRunUpdateHandlers(ctx context.Context) {
	if len(graph.handleAfterStabilization) == 0 {
		return
	}
	atomic.StoreInt32(&graph.status, StatusRunningUpdateHandlers)
	TracePrintf(ctx, "stabilization calling user update handlers")
	for _, handler := range graph.handleAfterStabilization {
		handler(ctx)
	}
	graph.handleAfterStabilization = graph.handleAfterStabilization[:0]
}
