// Package metrics exposes configuration-tree parse counters as
// Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/netremedy/hierconf/pkg/hier"
)

// StatsSource supplies parse counters on each scrape. *hier.Tree
// satisfies it.
type StatsSource interface {
	ParseStats() hier.ParseStats
}

// Collector implements prometheus.Collector, reading the source's
// counters on each scrape.
type Collector struct {
	src StatsSource

	linesTotal         *prometheus.Desc
	nodesTotal         *prometheus.Desc
	bannersTotal       *prometheus.Desc
	substitutionsTotal *prometheus.Desc
}

// NewCollector builds a Collector over src.
func NewCollector(src StatsSource) *Collector {
	return &Collector{
		src: src,

		linesTotal: prometheus.NewDesc(
			"hierconf_parse_lines_total",
			"Total input lines consumed by the parser.",
			nil, nil,
		),
		nodesTotal: prometheus.NewDesc(
			"hierconf_parse_nodes_total",
			"Total tree nodes created from normal lines.",
			nil, nil,
		),
		bannersTotal: prometheus.NewDesc(
			"hierconf_parse_banners_total",
			"Total banner blocks collapsed into single nodes.",
			nil, nil,
		),
		substitutionsTotal: prometheus.NewDesc(
			"hierconf_parse_substitutions_total",
			"Total full-text and per-line rewrites applied.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.linesTotal
	ch <- c.nodesTotal
	ch <- c.bannersTotal
	ch <- c.substitutionsTotal
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.src.ParseStats()
	ch <- prometheus.MustNewConstMetric(c.linesTotal, prometheus.CounterValue, float64(stats.Lines))
	ch <- prometheus.MustNewConstMetric(c.nodesTotal, prometheus.CounterValue, float64(stats.Nodes))
	ch <- prometheus.MustNewConstMetric(c.bannersTotal, prometheus.CounterValue, float64(stats.Banners))
	ch <- prometheus.MustNewConstMetric(c.substitutionsTotal, prometheus.CounterValue, float64(stats.Substitutions))
}
