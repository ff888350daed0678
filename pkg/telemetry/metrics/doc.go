// Package metrics provides Prometheus instrumentation for the relay: request
// counts and durations per endpoint, stream chunk and termination counters,
// and credential refresh counts. Metrics live on a private registry owned by
// a Collector and are served through promhttp.
package metrics
