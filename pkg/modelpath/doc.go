// Package modelpath decides, per request, which upstream configuration a
// session is created with.
//
// Three paths exist, selected by environment configuration that is re-read
// on every request so operator changes apply without a restart:
//
//   - default: no provider selector, no model name — the hosted default model
//   - named: no provider selector, MODEL_NAME set — the hosted named model
//   - BYOM: MODEL_PROVIDER=azure — a caller-owned Azure OpenAI deployment,
//     authenticated with a cached AAD bearer token
//
// The package also owns the supported-model-family allow-list and the error
// enhancement that rewrites the upstream encrypted-content rejection into an
// actionable message. Both exist for the same reason: the SDK encrypts
// prompt content before transmission and only specific model families can
// decrypt it.
package modelpath
