// Package metrics exposes the synchronization daemon's pipeline
// occupancy and storage tip as Prometheus metrics. It wraps
// prometheus/client_golang rather than reinventing counters and
// gauges, since the ecosystem already has a canonical exporter for
// them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/btcsync/chain/chain"
)

const namespace = "btcsync"

// Collector mirrors chain.Information into Prometheus gauges on every
// scrape, via the prometheus.Collector interface, rather than pushing
// updates from every Chain mutation site.
type Collector struct {
	ref *chain.Ref

	scheduled *prometheus.Desc
	requested *prometheus.Desc
	verifying *prometheus.Desc
	stored    *prometheus.Desc
	headersBest *prometheus.Desc
	headersTotal *prometheus.Desc
}

// NewCollector creates a Collector reading from ref on every scrape.
func NewCollector(ref *chain.Ref) *Collector {
	return &Collector{
		ref: ref,
		scheduled: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "scheduled_blocks"),
			"Number of block hashes currently scheduled for requesting.", nil, nil),
		requested: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "requested_blocks"),
			"Number of block hashes currently requested from peers.", nil, nil),
		verifying: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "verifying_blocks"),
			"Number of blocks currently undergoing verification.", nil, nil),
		stored: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "stored_blocks"),
			"Number of blocks committed to storage.", nil, nil),
		headersBest: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "headers_best_height"),
			"Length of the best known header chain above the storage tip.", nil, nil),
		headersTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "headers_total"),
			"Total number of headers held in memory, including forks.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.scheduled
	ch <- c.requested
	ch <- c.verifying
	ch <- c.stored
	ch <- c.headersBest
	ch <- c.headersTotal
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	var info chain.Information
	c.ref.Read(func(cn *chain.Chain) {
		info = cn.Information()
	})

	ch <- prometheus.MustNewConstMetric(c.scheduled, prometheus.GaugeValue, float64(info.Scheduled))
	ch <- prometheus.MustNewConstMetric(c.requested, prometheus.GaugeValue, float64(info.Requested))
	ch <- prometheus.MustNewConstMetric(c.verifying, prometheus.GaugeValue, float64(info.Verifying))
	ch <- prometheus.MustNewConstMetric(c.stored, prometheus.GaugeValue, float64(info.Stored))
	ch <- prometheus.MustNewConstMetric(c.headersBest, prometheus.GaugeValue, float64(info.Headers.Best))
	ch <- prometheus.MustNewConstMetric(c.headersTotal, prometheus.GaugeValue, float64(info.Headers.Total))
}

// MustRegister registers the collector with reg, panicking on a
// duplicate registration -- a programmer error, not a runtime failure.
func MustRegister(reg *prometheus.Registry, ref *chain.Ref) *Collector {
	c := NewCollector(ref)
	reg.MustRegister(c)
	return c
}
