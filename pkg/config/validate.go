package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	// Field is the dotted path of the offending field.
	Field string

	// Message describes what is wrong with the value.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for coherence.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return &ValidationError{Field: "server.listen_address", Message: "must not be empty"}
	}
	if !strings.Contains(cfg.Server.ListenAddress, ":") {
		return &ValidationError{Field: "server.listen_address", Message: "must be host:port"}
	}
	if cfg.Server.ReadTimeout < 0 {
		return &ValidationError{Field: "server.read_timeout", Message: "must not be negative"}
	}
	if cfg.Server.WriteTimeout < 0 {
		return &ValidationError{Field: "server.write_timeout", Message: "must not be negative"}
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return &ValidationError{Field: "server.shutdown_timeout", Message: "must be positive"}
	}

	if cfg.Upstream.BaseURL == "" {
		return &ValidationError{Field: "upstream.base_url", Message: "must not be empty"}
	}
	if u, err := url.Parse(cfg.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Field: "upstream.base_url", Message: "must be an absolute URL"}
	}
	if cfg.Upstream.DefaultModel == "" {
		return &ValidationError{Field: "upstream.default_model", Message: "must not be empty"}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q", cfg.Telemetry.Logging.Level),
		}
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return &ValidationError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q", cfg.Telemetry.Logging.Format),
		}
	}

	if cfg.Telemetry.Metrics.Enabled && !strings.HasPrefix(cfg.Telemetry.Metrics.Path, "/") {
		return &ValidationError{Field: "telemetry.metrics.path", Message: "must begin with /"}
	}

	return nil
}
