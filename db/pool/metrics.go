package pool

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes pool-level accounting as Prometheus metrics. It reads
// Stats on every scrape, so register one Collector per pool.
//
// Metrics:
//   - {namespace}_dbpool_available - gauge, idle connections
//   - {namespace}_dbpool_in_use - gauge, checked-out connections
//   - {namespace}_dbpool_capacity - gauge, MaxSize
//   - {namespace}_dbpool_acquires_total - counter
//   - {namespace}_dbpool_exhaustions_total - counter
//   - {namespace}_dbpool_stale_replaced_total - counter
type Collector struct {
	pool *Pool

	available     *prometheus.Desc
	inUse         *prometheus.Desc
	capacity      *prometheus.Desc
	acquires      *prometheus.Desc
	exhaustions   *prometheus.Desc
	staleReplaced *prometheus.Desc
}

func NewCollector(p *Pool, namespace string) *Collector {
	name := func(s string) string {
		return prometheus.BuildFQName(namespace, "dbpool", s)
	}
	return &Collector{
		pool:          p,
		available:     prometheus.NewDesc(name("available"), "Idle connections in the pool", nil, nil),
		inUse:         prometheus.NewDesc(name("in_use"), "Checked-out connections", nil, nil),
		capacity:      prometheus.NewDesc(name("capacity"), "Pool ceiling (MaxSize)", nil, nil),
		acquires:      prometheus.NewDesc(name("acquires_total"), "Total acquire attempts", nil, nil),
		exhaustions:   prometheus.NewDesc(name("exhaustions_total"), "Acquire attempts rejected at the ceiling", nil, nil),
		staleReplaced: prometheus.NewDesc(name("stale_replaced_total"), "Connections discarded after a failed validity probe", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.available
	ch <- c.inUse
	ch <- c.capacity
	ch <- c.acquires
	ch <- c.exhaustions
	ch <- c.staleReplaced
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stats()
	ch <- prometheus.MustNewConstMetric(c.available, prometheus.GaugeValue, float64(s.Available))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(s.Acquires))
	ch <- prometheus.MustNewConstMetric(c.exhaustions, prometheus.CounterValue, float64(s.Exhaustions))
	ch <- prometheus.MustNewConstMetric(c.staleReplaced, prometheus.CounterValue, float64(s.StaleReplaced))
}
