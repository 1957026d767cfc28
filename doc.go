// Package incr is an incremental computation engine.
//
// Programs describe computations as a directed acyclic graph of typed
// nodes: variables set from outside the graph, pure functions of one or
// two inputs, and bind nodes that swap which input they listen to at
// runtime. When inputs change, a call to `Stabilize` recomputes only
// the nodes whose results can actually differ, in dependency order,
// each at most once.
//
// A minimal example:
//
//	g := incr.New()
//	price := incr.Var(g, 10.0)
//	qty := incr.Var(g, 2.0)
//	total := incr.Map2(g, price, qty, func(p, q float64) float64 {
//		return p * q
//	})
//
//	price.Set(12.0)
//	_ = g.Stabilize(context.Background())
//	fmt.Println(total.Value()) // 24
//
// Mutation is batched: `Set` stages a value, and downstream nodes keep
// their previous values until the next `Stabilize`.
package incr
