// Package promstats exports the jnigo reference and thread counters as
// Prometheus metrics.
package promstats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/obinnaokechukwu/jnigo"
)

const namespace = "jnigo"

// Collector reads jnigo.ReadStats on every scrape.
type Collector struct {
	acquired *prometheus.Desc
	released *prometheus.Desc
	live     *prometheus.Desc
	attached *prometheus.Desc
	detached *prometheus.Desc
}

// NewCollector returns a collector for the package counters. The labels are
// attached to every metric.
func NewCollector(labels prometheus.Labels) *Collector {
	ref := []string{"discipline"}
	return &Collector{
		acquired: prometheus.NewDesc(prometheus.BuildFQName(namespace, "refs", "acquired_total"),
			"Java references created through jnigo.", ref, labels),
		released: prometheus.NewDesc(prometheus.BuildFQName(namespace, "refs", "released_total"),
			"Java references deleted through jnigo.", ref, labels),
		live: prometheus.NewDesc(prometheus.BuildFQName(namespace, "refs", "live"),
			"Java references currently owned by Go code.", ref, labels),
		attached: prometheus.NewDesc(prometheus.BuildFQName(namespace, "threads", "attached_total"),
			"Threads attached to the VM by the provider.", nil, labels),
		detached: prometheus.NewDesc(prometheus.BuildFQName(namespace, "threads", "detached_total"),
			"Threads detached from the VM by the provider.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.released
	ch <- c.live
	ch <- c.attached
	ch <- c.detached
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := jnigo.ReadStats()
	for _, r := range []struct {
		name  string
		stats jnigo.RefStats
	}{
		{"local", s.Local},
		{"global", s.Global},
		{"weak", s.Weak},
	} {
		ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.CounterValue, float64(r.stats.Acquired), r.name)
		ch <- prometheus.MustNewConstMetric(c.released, prometheus.CounterValue, float64(r.stats.Released), r.name)
		ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(r.stats.Live()), r.name)
	}
	ch <- prometheus.MustNewConstMetric(c.attached, prometheus.CounterValue, float64(s.Attached))
	ch <- prometheus.MustNewConstMetric(c.detached, prometheus.CounterValue, float64(s.Detached))
}

// Register adds a collector to reg, or to prometheus.DefaultRegisterer when
// reg is nil.
func Register(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := NewCollector(nil)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
