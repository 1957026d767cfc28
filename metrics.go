package incr

import "github.com/prometheus/client_golang/prometheus"

// NewGraphCollector returns a prometheus.Collector that exposes a
// graph's stabilization and recompute counters.
//
// Register it on a prometheus.Registerer to scrape graph progress
// alongside the rest of a process's metrics. Collection reads the same
// counters `Stats` reports and is safe to run between stabilizations.
func NewGraphCollector(graph *Graph) prometheus.Collector {
	graphName := graph.id.String()
	if graph.label != "" {
		graphName = graph.label
	}
	constLabels := prometheus.Labels{
		"graph": graphName,
	}
	return &graphCollector{
		graph: graph,
		stabilizations: prometheus.NewDesc(
			"incr_graph_stabilizations_total",
			"Number of stabilization passes started on the graph.",
			nil, constLabels,
		),
		nodes: prometheus.NewDesc(
			"incr_graph_nodes",
			"Number of nodes currently in the graph.",
			nil, constLabels,
		),
		recomputes: prometheus.NewDesc(
			"incr_graph_node_recomputes_total",
			"Number of node recomputations performed across the graph's history.",
			nil, constLabels,
		),
		changes: prometheus.NewDesc(
			"incr_graph_node_changes_total",
			"Number of node value changes observed across the graph's history.",
			nil, constLabels,
		),
	}
}

type graphCollector struct {
	graph          *Graph
	stabilizations *prometheus.Desc
	nodes          *prometheus.Desc
	recomputes     *prometheus.Desc
	changes        *prometheus.Desc
}

func (c *graphCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.stabilizations
	ch <- c.nodes
	ch <- c.recomputes
	ch <- c.changes
}

func (c *graphCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.graph.Stats()
	ch <- prometheus.MustNewConstMetric(c.stabilizations, prometheus.CounterValue, float64(stats.StabilizationNum()-1))
	ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.GaugeValue, float64(stats.Nodes()))
	ch <- prometheus.MustNewConstMetric(c.recomputes, prometheus.CounterValue, float64(stats.NodesRecomputed()))
	ch <- prometheus.MustNewConstMetric(c.changes, prometheus.CounterValue, float64(stats.NodesChanged()))
}
