package modelpath

// ConfigurationError indicates incoherent or incomplete model-path
// environment configuration. It is an operator fault, surfaced as a server
// error and intended to be caught at deployment verification.
type ConfigurationError struct {
	// Message describes what is missing or inconsistent, naming the
	// environment variables involved.
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return e.Message
}
