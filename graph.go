package incr

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// New returns a new graph state, which is the type that represents the
// shared state of a computation graph.
//
// You can pass configuration options as `GraphOption` to customize settings
// within the graph, such as what the maximum "height" a node can be.
//
// This is the entrypoint for all stabilization and computation
// operations, and the Graph is passed to every node constructor.
func New(opts ...GraphOption) *Graph {
	options := GraphOptions{
		MaxHeight: DefaultMaxHeight,
	}
	for _, opt := range opts {
		opt(&options)
	}
	g := &Graph{
		id:               uuid.New(),
		label:            options.Label,
		maxHeight:        options.MaxHeight,
		stabilizationNum: 1,
		status:           StatusNotStabilizing,
		recomputeHeap:    newRecomputeHeap(options.MaxHeight + 1),
	}
	return g
}

// GraphOption mutates GraphOptions.
type GraphOption func(*GraphOptions)

// OptGraphMaxHeight sets the graph max node height.
//
// Node heights start at the max height for leaves and strictly
// decrease along edges, so this bounds the depth of the graph.
func OptGraphMaxHeight(maxHeight int) func(*GraphOptions) {
	return func(g *GraphOptions) {
		g.MaxHeight = maxHeight
	}
}

// OptGraphLabel sets the graph label.
func OptGraphLabel(label string) func(*GraphOptions) {
	return func(g *GraphOptions) {
		g.Label = label
	}
}

// GraphOptions are options for graphs.
type GraphOptions struct {
	MaxHeight int
	Label     string
}

const (
	// DefaultMaxHeight is the default maximum height a node can have,
	// and with that the maximum depth of a graph.
	DefaultMaxHeight = 1000
)

// Graph statuses.
const (
	StatusNotStabilizing int32 = iota
	StatusStabilizing
	StatusRunningUpdateHandlers
)

// Graph is the state that is shared across nodes in a computation graph.
//
// You should instantiate this type with the `New()` function.
//
// The graph owns the node table, the child-edge table, id assignment,
// and the recompute heap, and it drives stabilization.
type Graph struct {
	// id is a unique identifier for the graph.
	id uuid.UUID
	// label is a descriptive label for the graph.
	label string
	// maxHeight is the height leaves start at; it bounds graph depth.
	maxHeight int

	// nodes is the node table, indexed by node id. a node, once
	// inserted, is never moved or removed.
	nodes []INode
	// children maps a node id to the ids of the nodes that directly
	// depend on it, indexed in lockstep with `nodes`. edges are added
	// at construction and swapped by bind rewiring.
	children [][]NodeID

	// recomputeHeap is the height-ordered set of nodes to be
	// processed. it persists across stabilizations so that an aborted
	// pass resumes where it stopped.
	recomputeHeap *recomputeHeap
	// visited tracks which nodes have entered the recompute heap
	// during the current pass; it is re-sized and cleared at the
	// start of each pass.
	visited *bitmap
	// pending are variables staged by `Set` since the last
	// stabilization seeded the heap.
	pending []INode
	// handleAfterStabilization are update handlers collected during a
	// pass, run once the pass completes.
	handleAfterStabilization []func(context.Context)

	// stabilizationNum is the 1-based number of the stabilization pass
	// in progress, or of the next one between passes; it starts at 1
	// and is incremented when a pass ends.
	stabilizationNum uint64
	// status is the general status of the graph where
	// the possible states are:
	// - StatusNotStabilizing (default)
	// - StatusStabilizing
	// - StatusRunningUpdateHandlers
	status int32
	// stabilizationStarted is the time of the stabilization
	// pass currently in progress.
	stabilizationStarted time.Time

	// numNodesRecomputed is the total number of nodes that have been
	// recomputed in the graph's history, typically used in testing.
	numNodesRecomputed uint64
	// numNodesChanged is the total number of nodes that have been
	// changed in the graph's history, typically used in testing.
	numNodesChanged uint64

	// onStabilizationStart are optional hooks called when stabilization starts.
	onStabilizationStart []func(context.Context)
	// onStabilizationEnd are optional hooks called when stabilization ends.
	onStabilizationEnd []func(context.Context, time.Time, error)

	// metadata is extra data you can add to the graph instance and
	// manage yourself.
	metadata any
}

// ID is the identifier for the graph.
func (graph *Graph) ID() uuid.UUID {
	return graph.id
}

// Label returns the graph label.
func (graph *Graph) Label() string {
	return graph.label
}

// SetLabel sets the graph label.
func (graph *Graph) SetLabel(label string) {
	graph.label = label
}

// Metadata is extra data held on the graph instance.
func (graph *Graph) Metadata() any {
	return graph.metadata
}

// SetMetadata sets the metadata for the graph instance.
func (graph *Graph) SetMetadata(metadata any) {
	graph.metadata = metadata
}

// MaxHeight returns the graph's depth bound.
func (graph *Graph) MaxHeight() int {
	return graph.maxHeight
}

// IsStabilizing returns if the graph is currently stabilizing.
func (graph *Graph) IsStabilizing() bool {
	return atomic.LoadInt32(&graph.status) != StatusNotStabilizing
}

// Has returns if a given node belongs to this graph.
func (graph *Graph) Has(gn INode) bool {
	id := gn.Node().id
	return id >= 0 && int(id) < len(graph.nodes) && graph.nodes[id] == gn
}

// OnStabilizationStart adds a stabilization start handler.
func (graph *Graph) OnStabilizationStart(handler func(context.Context)) {
	graph.onStabilizationStart = append(graph.onStabilizationStart, handler)
}

// OnStabilizationEnd adds a stabilization end handler.
func (graph *Graph) OnStabilizationEnd(handler func(context.Context, time.Time, error)) {
	graph.onStabilizationEnd = append(graph.onStabilizationEnd, handler)
}

// SetStale marks a node to be recomputed on the next stabilization.
//
// Variables call this through `Set`; you can also call it directly to
// force a node to re-fire without an upstream change.
func (graph *Graph) SetStale(gn INode) {
	nn := gn.Node()
	if nn.dirty {
		return
	}
	nn.dirty = true
	graph.pending = append(graph.pending, gn)
}

func (graph *Graph) String() string {
	if graph.label != "" {
		return fmt.Sprintf("{graph:%s:%s}", graph.label, graph.id.String()[:8])
	}
	return fmt.Sprintf("{graph:%s}", graph.id.String()[:8])
}

//
// Node registration
//

// newLeafNode registers a node with no inputs, e.g. a var.
func (graph *Graph) newLeafNode(n INode, kind string) *Node {
	return graph.registerNode(n, kind, graph.maxHeight)
}

// newDependentNode registers a node that reads from the given parents,
// installing the reverse edges parent -> node.
func (graph *Graph) newDependentNode(n INode, kind string, parents ...INode) *Node {
	nn := graph.registerNode(n, kind, graph.childHeight(parents...))
	for _, p := range parents {
		pid := p.Node().id
		nn.addParent(pid)
		graph.addEdge(pid, nn.id)
	}
	return nn
}

// registerNode assigns the next id, appends the node to the node table,
// and extends the children table with an empty entry for it.
func (graph *Graph) registerNode(n INode, kind string, height int) *Node {
	nn := &Node{
		id:                    NodeID(len(graph.nodes)),
		kind:                  kind,
		graph:                 graph,
		height:                height,
		heightInRecomputeHeap: heightUnset,
	}
	graph.nodes = append(graph.nodes, n)
	graph.children = append(graph.children, nil)
	return nn
}

// childHeight returns the scheduling height for a new node reading from
// the given parents: one below the lowest parent.
//
// Running out of heights is a programmer error; the graph was built
// deeper than the configured bound allows.
func (graph *Graph) childHeight(parents ...INode) int {
	height := graph.maxHeight
	for _, p := range parents {
		if ph := p.Node().height; ph <= height {
			height = ph - 1
		}
	}
	if height < 0 {
		panic(fmt.Errorf("%w: graph depth exceeds the configured max height %d", ErrMaxHeightExceeded, graph.maxHeight))
	}
	return height
}

//
// Edge bookkeeping
//

func (graph *Graph) addEdge(parent, child NodeID) {
	graph.children[parent] = append(graph.children[parent], child)
}

func (graph *Graph) removeEdge(parent, child NodeID) {
	edges := graph.children[parent]
	for index, c := range edges {
		if c == child {
			graph.children[parent] = append(edges[:index], edges[index+1:]...)
			return
		}
	}
}

// applyDependencyUpdates applies the edge swaps reported by a bind
// node's recompute, then re-establishes the height invariant below it.
func (graph *Graph) applyDependencyUpdates(n INode, outcome RecomputeOutcome) error {
	nn := n.Node()
	for _, removed := range outcome.Removed {
		graph.removeEdge(removed, nn.id)
		nn.removeParent(removed)
	}
	for _, added := range outcome.Added {
		graph.addEdge(added, nn.id)
		nn.addParent(added)
	}
	return graph.adjustHeights(n)
}

// adjustHeights lowers the height of a node, and transitively the
// heights of its descendants, until every node is again strictly below
// all of its parents.
//
// Heights only ever go down; a depth induced by an earlier rewiring
// sticks even if a later rewiring would allow a shallower placement.
func (graph *Graph) adjustHeights(start INode) error {
	queue := []NodeID{start.Node().id}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := graph.nodes[id]
		nn := n.Node()
		required := graph.requiredHeight(n)
		if required >= nn.height {
			continue
		}
		if required < 0 {
			return fmt.Errorf("%w: graph depth exceeds the configured max height %d", ErrMaxHeightExceeded, graph.maxHeight)
		}
		nn.height = required
		graph.recomputeHeap.fix(n)
		queue = append(queue, graph.children[id]...)
	}
	return nil
}

// requiredHeight returns the largest height that keeps a node strictly
// below all of its current parents.
func (graph *Graph) requiredHeight(n INode) int {
	required := graph.maxHeight
	for _, pid := range n.Node().parents {
		if ph := graph.nodes[pid].Node().height; ph <= required {
			required = ph - 1
		}
	}
	return required
}

//
// Recompute driver
//

// recomputeNode runs the recompute cycle for one node and applies the
// reported outcome: scheduling children on a value change, and edge
// swaps plus depth maintenance on a dependency update.
func (graph *Graph) recomputeNode(ctx context.Context, n INode) error {
	graph.numNodesRecomputed++
	nn := n.Node()
	nn.numRecomputes++

	TracePrintf(ctx, "stabilization is recomputing %v", n)
	recomputed := false
	defer func() {
		if !recomputed {
			// a panic out of Recompute leaves the node dirty; keep it
			// in the heap so the next pass picks it up.
			graph.recomputeHeap.add(n)
		}
	}()
	outcome := n.Recompute()
	recomputed = true

	if outcome.ValueChanged {
		graph.numNodesChanged++
		nn.numChanges++
		if len(nn.onUpdateHandlers) > 0 {
			graph.handleAfterStabilization = append(graph.handleAfterStabilization, nn.onUpdateHandlers...)
		}
		for _, c := range graph.children[nn.id] {
			graph.scheduleIfUnvisited(graph.nodes[c])
		}
	}
	if len(outcome.Removed) > 0 || len(outcome.Added) > 0 {
		TracePrintf(ctx, "stabilization is rewiring %v", n)
		if err := graph.applyDependencyUpdates(n, outcome); err != nil {
			return err
		}
	}
	return nil
}

// scheduleIfUnvisited pushes a node onto the recompute heap unless it
// already entered the heap during this pass. Insertion marks the node
// visited, which is what bounds each node to one recompute per pass.
func (graph *Graph) scheduleIfUnvisited(c INode) {
	cn := c.Node()
	if graph.visited.contains(int(cn.id)) {
		return
	}
	graph.visited.insert(int(cn.id))
	cn.dirty = true
	graph.recomputeHeap.add(c)
}
