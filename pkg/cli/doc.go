// Package cli provides shared helpers for the callisto command line:
// typed command errors and signal-aware contexts.
package cli
