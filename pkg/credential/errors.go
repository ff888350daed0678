package credential

import "fmt"

// CredentialError indicates the underlying fetch produced no usable token.
// The message carries the remediation: the role assignment the identity
// needs, and the local interactive login alternative.
type CredentialError struct {
	// Message describes the failure.
	Message string

	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *CredentialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *CredentialError) Unwrap() error {
	return e.Cause
}

// newNoTokenError builds the standard no-usable-token failure.
func newNoTokenError(cause error) *CredentialError {
	return &CredentialError{
		Message: `failed to acquire a bearer token for the Azure OpenAI deployment; ` +
			`ensure the identity has the "Cognitive Services OpenAI User" role assignment, ` +
			`or sign in locally with "az login"`,
		Cause: cause,
	}
}
