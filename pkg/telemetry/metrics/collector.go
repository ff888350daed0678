package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the metrics registry and the metric families registered on
// it. One collector exists per process.
type Collector struct {
	registry *prometheus.Registry

	// Relay holds the relay request and stream metrics.
	Relay *RelayMetrics
}

// NewCollector creates a collector with the standard process and Go runtime
// collectors plus the relay metrics, all under the given namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry: registry,
		Relay:    NewRelayMetrics(namespace, registry),
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
