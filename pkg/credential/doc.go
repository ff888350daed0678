// Package credential resolves and caches the short-lived AAD bearer token
// required by the bring-your-own-model path.
//
// A single-slot Cache sits in front of a Fetcher. Tokens are reused until
// they come within the refresh buffer of their expiry, at which point the
// next caller fetches a replacement. Tokens from the same identity are
// interchangeable within their validity window, so a lost race between two
// concurrent refreshes costs one redundant fetch, never a corrupt slot.
//
// Fetchers mirror the useful subset of the platform's default credential
// chain: the IMDS managed-identity endpoint first, then the az CLI for local
// development. Both are scoped to the Cognitive Services audience.
package credential
