// Package config defines the relay's static configuration: server listen
// and timeout settings, upstream endpoint and default model, and telemetry
// options.
//
// Static configuration loads once at startup from YAML with environment
// overrides, and can be hot-reloaded on file change. The per-request model
// path (MODEL_PROVIDER, MODEL_NAME, AZURE_OPENAI_ENDPOINT) deliberately
// bypasses this layer: those variables are re-read from the environment on
// every request so changes apply without a restart.
package config
