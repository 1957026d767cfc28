package incr

import (
	"context"
	"fmt"
)

// NodeID identifies a node within its owning graph.
//
// Ids are assigned monotonically at construction, are never reused, and
// double as the index into the graph's node table.
type NodeID int

// heightUnset marks a node as not currently held in the recompute heap.
const heightUnset = -1

// Node kinds.
const (
	KindVar    = "var"
	KindReturn = "return"
	KindMap    = "map"
	KindMap2   = "map2"
	KindBind   = "bind"
	KindCutoff = "cutoff"
)

// INode is the type-erased interface implemented by every node in a
// computation graph.
//
// The graph schedules and recomputes nodes through this interface
// without knowing their value types; typed access goes through the
// Incr handles returned by the constructors.
type INode interface {
	// Node returns the shared node metadata.
	Node() *Node
	// Recompute recomputes the node's value from its current parent
	// values and reports what the engine must do with the result.
	Recompute() RecomputeOutcome
}

// Incr is a node that produces values of a given type.
type Incr[A any] interface {
	INode
	// Value returns the last computed value without scheduling any
	// recomputation. Between a Set and the next Stabilize the
	// downstream values are, by contract, stale.
	Value() A
}

// RecomputeOutcome describes the effects of a single recompute.
//
// Nodes never mutate the graph's edge table or the recompute heap
// themselves; they report events here and the engine applies them.
// This keeps nodes pure with respect to graph structure and
// concentrates edge bookkeeping in the engine.
type RecomputeOutcome struct {
	// ValueChanged indicates the node's value may differ from the
	// previous one and its children must be scheduled.
	ValueChanged bool
	// Removed and Added are dependency edges to retire and install.
	// They are only reported by bind nodes whose active candidate
	// changed during the recompute.
	Removed []NodeID
	Added   []NodeID
}

// Node is the common metadata for any node in the computation graph.
type Node struct {
	// id is the identifier assigned by the owning graph.
	id NodeID
	// kind names the node variant, e.g. "var" or "bind".
	kind string
	// graph is the graph that owns this node.
	graph *Graph
	// label is a descriptive string for the node, set with `SetLabel`.
	label string
	// height is the topological pseudo-height used to order
	// recomputation. A node is always strictly lower than every
	// parent; leaves start at the graph's max height and heights only
	// ever decrease as bind nodes rewire.
	height int
	// heightInRecomputeHeap is the bucket the node currently occupies
	// in the recompute heap, or heightUnset.
	heightInRecomputeHeap int
	// dirty is set when an upstream change may have invalidated
	// the node's value.
	dirty bool
	// parents are the ids of the nodes this node reads from.
	parents []NodeID
	// numRecomputes is the number of times the node recomputed.
	numRecomputes uint64
	// numChanges is the number of times the node's value changed.
	numChanges uint64
	// onUpdateHandlers are functions called after the stabilization
	// pass in which the node's value changed. they are added
	// with `OnUpdate(...)`.
	onUpdateHandlers []func(context.Context)
}

//
// Readonly properties
//

// ID returns the identifier for the node.
func (n *Node) ID() NodeID {
	return n.id
}

// Kind returns the node variant name.
func (n *Node) Kind() string {
	return n.kind
}

// Height returns the node's current scheduling priority.
func (n *Node) Height() int {
	return n.height
}

// IsDirty returns if the node may need recomputation.
func (n *Node) IsDirty() bool {
	return n.dirty
}

// Parents returns the ids of the nodes this node currently reads from.
func (n *Node) Parents() []NodeID {
	output := make([]NodeID, len(n.parents))
	copy(output, n.parents)
	return output
}

// String returns a string form of the node metadata.
func (n *Node) String() string {
	if n.label != "" {
		return fmt.Sprintf("%s[%d]:%s@%d", n.kind, n.id, n.label, n.height)
	}
	return fmt.Sprintf("%s[%d]@%d", n.kind, n.id, n.height)
}

//
// Set/Get properties
//

// Label returns a descriptive label for the node or
// an empty string if one hasn't been provided.
func (n *Node) Label() string {
	return n.label
}

// SetLabel sets the descriptive label on the node.
func (n *Node) SetLabel(label string) {
	n.label = label
}

// OnUpdate registers a handler called after any stabilization
// pass in which the node's value changed.
func (n *Node) OnUpdate(fn func(context.Context)) {
	n.onUpdateHandlers = append(n.onUpdateHandlers, fn)
}

//
// Internal helpers
//

// addParent records a node id as an input of this node.
func (n *Node) addParent(id NodeID) {
	n.parents = append(n.parents, id)
}

// removeParent removes one occurrence of a node id
// from this node's inputs.
func (n *Node) removeParent(id NodeID) {
	for index, pid := range n.parents {
		if pid == id {
			n.parents = append(n.parents[:index], n.parents[index+1:]...)
			return
		}
	}
}
