package relay

import (
	"errors"
	"net/http"
)

// Error code constants for request validation failures.
const (
	// CodeMissingField indicates a required field is absent.
	CodeMissingField = "missing_field"

	// CodeInvalidType indicates a field carries the wrong JSON type.
	CodeInvalidType = "invalid_type"

	// CodeInvalidValue indicates a field is present with an invalid value.
	CodeInvalidValue = "invalid_value"

	// CodeMalformedHistoryItem indicates a history element is not a valid
	// {role, content} object.
	CodeMalformedHistoryItem = "malformed_history_item"

	// CodeInvalidJSON indicates the request body is not valid JSON.
	CodeInvalidJSON = "invalid_json"

	// CodeTextTooLong indicates the summarize input exceeds the length bound.
	CodeTextTooLong = "text_too_long"

	// CodeRequestTooLarge indicates the request body exceeds the size limit.
	CodeRequestTooLarge = "request_too_large"
)

// RequestError is a caller-fault validation failure. It is always surfaced
// as a structured 4xx JSON response, never as a stream frame, and never
// logged as a system fault.
type RequestError struct {
	// Message is the human-readable description naming the offending field.
	Message string

	// Code is the machine-readable failure category.
	Code string

	// Param is the offending field name.
	Param string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status for this validation failure.
func (e *RequestError) StatusCode() int {
	switch e.Code {
	case CodeTextTooLong, CodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

// StatusForError maps an error to the HTTP status used for a non-stream
// response: the validation status for caller faults, 500 for everything
// else (configuration, credential, upstream, timeout).
func StatusForError(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode()
	}
	return http.StatusInternalServerError
}
