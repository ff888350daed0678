// Package logging builds the process-wide structured logger. It wraps
// log/slog with level and format selection and carries request-scoped
// fields (request ID, model) through context.
package logging
