package incr

import (
	"fmt"
	"io"
)

// Dot writes a Graphviz DOT representation of the graph to a given
// writer, with one record per node showing its kind, label and height,
// and one edge per dependency.
//
// The output is meant for debugging graph topologies; render it with
// any dot-compatible tool.
func Dot(w io.Writer, graph *Graph) (err error) {
	write := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	write("digraph {\n")
	write("\trankdir=BT;\n")
	for _, n := range graph.nodes {
		nn := n.Node()
		write("\tn%d [label=%q];\n", nn.id, nn.String())
	}
	for parent, children := range graph.children {
		for _, child := range children {
			write("\tn%d -> n%d;\n", parent, child)
		}
	}
	write("}\n")
	return
}
