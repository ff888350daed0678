// Callisto is a streaming relay between HTTP clients and AI completion
// services.
//
// It exposes a small HTTP surface:
//   - POST /chat       streams incremental completion content as
//     server-sent events
//   - POST /summarize  returns a one-shot summary of caller-supplied text
//   - GET  /health     liveness probe
//   - GET  /config     reports the model path requests take right now
//
// The model path is selected per request from the environment: the hosted
// default endpoint, or a bring-your-own-model Azure OpenAI deployment
// authenticated with cached managed-identity bearer tokens.
//
// Usage:
//
//	# Start server with default configuration
//	callisto run
//
//	# Start with custom configuration file
//	callisto run --config /path/to/config.yaml
//
//	# Show version information
//	callisto version
package main

func main() {
	Execute()
}
