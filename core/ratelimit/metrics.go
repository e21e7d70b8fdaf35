package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "telemetrykit"
	metricsSubsystem = "ratelimit"
)

// Collector exposes GlobalLimiter statistics as Prometheus metrics. It
// implements prometheus.Collector by building const metrics from a Stats
// snapshot on every scrape, so it holds no metric state of its own and can
// never drift from the limiter. Register it on any prometheus.Registry;
// this package deliberately ships no HTTP exposition.
type Collector struct {
	limiter *GlobalLimiter

	globalTokens   *prometheus.Desc
	globalCapacity *prometheus.Desc
	globalAllowed  *prometheus.Desc
	globalDenied   *prometheus.Desc

	loggerTokens   *prometheus.Desc
	loggerCapacity *prometheus.Desc
	loggerAllowed  *prometheus.Desc
	loggerDenied   *prometheus.Desc

	queueSize    *prometheus.Desc
	queueMemory  *prometheus.Desc
	queueQueued  *prometheus.Desc
	queueEvicted *prometheus.Desc
}

// NewCollector creates a collector over the given limiter.
func NewCollector(limiter *GlobalLimiter) *Collector {
	name := func(s string) string {
		return prometheus.BuildFQName(metricsNamespace, metricsSubsystem, s)
	}
	return &Collector{
		limiter: limiter,

		globalTokens: prometheus.NewDesc(name("global_tokens_available"),
			"Tokens currently available in the global bucket", nil, nil),
		globalCapacity: prometheus.NewDesc(name("global_capacity"),
			"Burst capacity of the global bucket", nil, nil),
		globalAllowed: prometheus.NewDesc(name("global_allowed_total"),
			"Total events admitted by the global gate", nil, nil),
		globalDenied: prometheus.NewDesc(name("global_denied_total"),
			"Total events denied by the global gate", nil, nil),

		loggerTokens: prometheus.NewDesc(name("logger_tokens_available"),
			"Tokens currently available in a per-logger bucket", []string{"logger"}, nil),
		loggerCapacity: prometheus.NewDesc(name("logger_capacity"),
			"Burst capacity of a per-logger bucket", []string{"logger"}, nil),
		loggerAllowed: prometheus.NewDesc(name("logger_allowed_total"),
			"Total events admitted by a per-logger gate", []string{"logger"}, nil),
		loggerDenied: prometheus.NewDesc(name("logger_denied_total"),
			"Total events denied by a per-logger gate", []string{"logger"}, nil),

		queueSize: prometheus.NewDesc(name("queue_size"),
			"Dropped items currently retained by the buffered global gate", nil, nil),
		queueMemory: prometheus.NewDesc(name("queue_memory_bytes"),
			"Approximate memory retained by queued dropped items", nil, nil),
		queueQueued: prometheus.NewDesc(name("queue_queued_total"),
			"Total denied items recorded in the drop queue", nil, nil),
		queueEvicted: prometheus.NewDesc(name("queue_evicted_total"),
			"Total queued items evicted to make room for newer ones", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.globalTokens
	ch <- c.globalCapacity
	ch <- c.globalAllowed
	ch <- c.globalDenied
	ch <- c.loggerTokens
	ch <- c.loggerCapacity
	ch <- c.loggerAllowed
	ch <- c.loggerDenied
	ch <- c.queueSize
	ch <- c.queueMemory
	ch <- c.queueQueued
	ch <- c.queueEvicted
}

// Collect implements prometheus.Collector. Gates that are not configured at
// scrape time contribute no series.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.limiter.Stats()

	if s := stats.Global; s != nil {
		ch <- prometheus.MustNewConstMetric(c.globalTokens, prometheus.GaugeValue, s.TokensAvailable)
		ch <- prometheus.MustNewConstMetric(c.globalCapacity, prometheus.GaugeValue, s.Capacity)
		ch <- prometheus.MustNewConstMetric(c.globalAllowed, prometheus.CounterValue, float64(s.TotalAllowed))
		ch <- prometheus.MustNewConstMetric(c.globalDenied, prometheus.CounterValue, float64(s.TotalDenied))
	}
	if q := stats.Queue; q != nil {
		ch <- prometheus.MustNewConstMetric(c.queueSize, prometheus.GaugeValue, float64(q.Size))
		ch <- prometheus.MustNewConstMetric(c.queueMemory, prometheus.GaugeValue, float64(q.MemoryBytes))
		ch <- prometheus.MustNewConstMetric(c.queueQueued, prometheus.CounterValue, float64(q.TotalQueued))
		ch <- prometheus.MustNewConstMetric(c.queueEvicted, prometheus.CounterValue, float64(q.TotalEvicted))
	}
	for logger, s := range stats.PerLogger {
		ch <- prometheus.MustNewConstMetric(c.loggerTokens, prometheus.GaugeValue, s.TokensAvailable, logger)
		ch <- prometheus.MustNewConstMetric(c.loggerCapacity, prometheus.GaugeValue, s.Capacity, logger)
		ch <- prometheus.MustNewConstMetric(c.loggerAllowed, prometheus.CounterValue, float64(s.TotalAllowed), logger)
		ch <- prometheus.MustNewConstMetric(c.loggerDenied, prometheus.CounterValue, float64(s.TotalDenied), logger)
	}
}

// Ensure Collector implements prometheus.Collector.
var _ prometheus.Collector = (*Collector)(nil)
