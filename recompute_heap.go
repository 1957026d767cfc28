package incr

import (
	"bytes"
	"fmt"
	"strings"
)

// newRecomputeHeap returns a new recompute heap with a given number
// of height buckets.
func newRecomputeHeap(numHeights int) *recomputeHeap {
	return &recomputeHeap{
		heights: make([]map[NodeID]INode, numHeights),
	}
}

// recomputeHeap is a height-indexed list of sets of nodes.
//
// Stabilization drains it highest height first, so that ancestors are
// always processed before descendants; within one height, nodes pop in
// id order, which puts bind candidates ahead of the binds that may
// switch onto them mid-pass.
type recomputeHeap struct {
	// minHeight is a lower bound on the heights indices that have
	// nodes; it is only lowered, or reset when the heap is empty.
	minHeight int
	// maxHeight is the largest heights index that has nodes.
	maxHeight int
	// heights is an array of sets corresponding to node heights,
	// pre-allocated by the constructor to the height limit.
	heights []map[NodeID]INode
	// numItems is the count of nodes currently held.
	numItems int
}

func (rh *recomputeHeap) len() int {
	return rh.numItems
}

func (rh *recomputeHeap) has(n INode) bool {
	return n.Node().heightInRecomputeHeap != heightUnset
}

// add pushes a node into the bucket for its current height. Nodes
// already held are left where they are; use fix to re-bucket after a
// height change.
func (rh *recomputeHeap) add(n INode) {
	nn := n.Node()
	if nn.heightInRecomputeHeap != heightUnset {
		return
	}
	height := nn.height
	nn.heightInRecomputeHeap = height
	rh.maybeUpdateMinMaxHeights(height)
	if rh.heights[height] == nil {
		rh.heights[height] = make(map[NodeID]INode)
	}
	rh.heights[height][nn.id] = n
	rh.numItems++
}

// remove takes a node out of the heap wherever it currently sits.
func (rh *recomputeHeap) remove(n INode) (ok bool) {
	nn := n.Node()
	height := nn.heightInRecomputeHeap
	if height == heightUnset {
		return
	}
	delete(rh.heights[height], nn.id)
	nn.heightInRecomputeHeap = heightUnset
	rh.numItems--
	if height == rh.maxHeight && len(rh.heights[height]) == 0 {
		rh.maxHeight = rh.nextMaxHeight()
	}
	ok = true
	return
}

// fix re-buckets a node whose height changed while it was held.
func (rh *recomputeHeap) fix(n INode) {
	if rh.remove(n) {
		rh.add(n)
	}
}

// removeMax removes a node with the largest held height, breaking ties
// within a height by smallest id.
func (rh *recomputeHeap) removeMax() (node INode, ok bool) {
	if rh.numItems == 0 {
		return
	}
	for x := rh.maxHeight; x >= rh.minHeight; x-- {
		if len(rh.heights[x]) > 0 {
			node = minIDNode(rh.heights[x])
			nn := node.Node()
			delete(rh.heights[x], nn.id)
			nn.heightInRecomputeHeap = heightUnset
			rh.numItems--
			if len(rh.heights[x]) == 0 {
				rh.maxHeight = rh.nextMaxHeight()
			} else {
				rh.maxHeight = x
			}
			ok = true
			return
		}
	}
	return
}

//
// utils
//

func minIDNode(bucket map[NodeID]INode) (node INode) {
	for _, n := range bucket {
		if node == nil || n.Node().id < node.Node().id {
			node = n
		}
	}
	return
}

func (rh *recomputeHeap) maybeUpdateMinMaxHeights(newHeight int) {
	if rh.numItems == 0 {
		rh.minHeight = newHeight
		rh.maxHeight = newHeight
		return
	}
	if rh.minHeight > newHeight {
		rh.minHeight = newHeight
	}
	if rh.maxHeight < newHeight {
		rh.maxHeight = newHeight
	}
}

// nextMaxHeight finds the next largest height in the heap that has nodes.
func (rh *recomputeHeap) nextMaxHeight() (next int) {
	if rh.numItems == 0 {
		return
	}
	for x := rh.maxHeight; x >= rh.minHeight; x-- {
		if len(rh.heights[x]) > 0 {
			next = x
			break
		}
	}
	return
}

// sanityCheck loops through each item in each height block
// and checks that all the height values match.
func (rh *recomputeHeap) sanityCheck() error {
	if rh.numItems > 0 && len(rh.heights[rh.maxHeight]) == 0 {
		return fmt.Errorf("recompute heap; sanity check; heap has items but max height block is empty")
	}
	for heightIndex, height := range rh.heights {
		for _, item := range height {
			if item.Node().heightInRecomputeHeap != heightIndex {
				return fmt.Errorf("recompute heap; sanity check; at height %d item has height %d", heightIndex, item.Node().heightInRecomputeHeap)
			}
			if item.Node().heightInRecomputeHeap != item.Node().height {
				return fmt.Errorf("recompute heap; sanity check; at height %d item has height %d and node has height %d", heightIndex, item.Node().heightInRecomputeHeap, item.Node().height)
			}
		}
	}
	return nil
}

func (rh *recomputeHeap) String() string {
	output := new(bytes.Buffer)
	fmt.Fprintf(output, "{\n")
	for heightIndex, heightSet := range rh.heights {
		if len(heightSet) == 0 {
			continue
		}
		lineParts := make([]string, 0, len(heightSet))
		for _, li := range heightSet {
			lineParts = append(lineParts, fmt.Sprint(li))
		}
		fmt.Fprintf(output, "\t%d: [%s],\n", heightIndex, strings.Join(lineParts, ", "))
	}
	fmt.Fprintf(output, "}\n")
	return output.String()
}
