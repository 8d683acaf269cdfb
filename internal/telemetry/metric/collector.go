package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Keyspace reports the size of the key-value store.
type Keyspace interface {
	// Len returns the number of live (non-expired) keys.
	Len() int
	// Size returns the number of stored entries, including expired ones not
	// yet removed.
	Size() int
	// ShardSizes returns the stored entry count of each shard.
	ShardSizes() []int
}

// Collector reports keyspace gauges at scrape time.
type Collector struct {
	source Keyspace

	keys   *prometheus.Desc
	stored *prometheus.Desc
	shards *prometheus.Desc
}

// NewCollector creates a collector reading from source.
func NewCollector(source Keyspace) *Collector {
	return &Collector{
		source: source,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Live keys in the store.",
			nil, nil,
		),
		stored: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "entries_stored"),
			"Entries held in memory, including expired entries awaiting removal.",
			nil, nil,
		),
		shards: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "shard_entries"),
			"Entries held by each store shard.",
			[]string{"shard"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.stored
	ch <- c.shards
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.source.Len()))
	ch <- prometheus.MustNewConstMetric(c.stored, prometheus.GaugeValue, float64(c.source.Size()))
	for i, n := range c.source.ShardSizes() {
		ch <- prometheus.MustNewConstMetric(c.shards, prometheus.GaugeValue, float64(n), strconv.Itoa(i))
	}
}
