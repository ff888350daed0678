// Package telemetry groups the observability subpackages.
//
// # Components
//
//   - logging: structured logging on log/slog with request-scoped context
//   - metrics: Prometheus metrics collection and the /metrics handler
//
// Both are wired at startup from the telemetry section of the configuration
// and shared through the server with the relay handlers.
package telemetry
