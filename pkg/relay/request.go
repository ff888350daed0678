package relay

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"
)

const (
	// MaxRequestBodySize is the maximum allowed request body size (10MB).
	MaxRequestBodySize = 10 * 1024 * 1024

	// MaxSummarizeChars is the maximum summarize input length in characters.
	// The bound keeps upstream latency and cost predictable.
	MaxSummarizeChars = 50000
)

// History roles accepted from callers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryItem is one prior conversation turn supplied by the caller.
type HistoryItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a validated chat request.
type ChatRequest struct {
	Message string
	History []HistoryItem
}

// SummarizeRequest is a validated summarize request.
type SummarizeRequest struct {
	Text string
}

// Wire shapes use pointers so a missing field is distinguishable from a
// present-but-empty one.
type wireHistoryItem struct {
	Role    *string `json:"role"`
	Content *string `json:"content"`
}

type wireChatRequest struct {
	Message *string           `json:"message"`
	History []wireHistoryItem `json:"history"`
}

type wireSummarizeRequest struct {
	Text *string `json:"text"`
}

// ParseChatRequest parses and validates a chat request body. Validation
// distinguishes a missing field, a field of the wrong type, and a malformed
// history element.
func ParseChatRequest(r *http.Request) (*ChatRequest, error) {
	body, err := readBody(r)
	if err != nil {
		return nil, err
	}

	var wire wireChatRequest
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, chatDecodeError(err)
	}

	if wire.Message == nil {
		return nil, &RequestError{Message: "message is required", Code: CodeMissingField, Param: "message"}
	}
	if *wire.Message == "" {
		return nil, &RequestError{Message: "message must be a non-empty string", Code: CodeInvalidValue, Param: "message"}
	}

	history := make([]HistoryItem, 0, len(wire.History))
	for i, item := range wire.History {
		if item.Role == nil || item.Content == nil {
			return nil, &RequestError{
				Message: fmt.Sprintf("history[%d] must be an object with role and content", i),
				Code:    CodeMalformedHistoryItem,
				Param:   "history",
			}
		}
		if *item.Role != RoleUser && *item.Role != RoleAssistant {
			return nil, &RequestError{
				Message: fmt.Sprintf("history[%d].role must be %q or %q", i, RoleUser, RoleAssistant),
				Code:    CodeMalformedHistoryItem,
				Param:   "history",
			}
		}
		history = append(history, HistoryItem{Role: *item.Role, Content: *item.Content})
	}

	return &ChatRequest{Message: *wire.Message, History: history}, nil
}

// ParseSummarizeRequest parses and validates a summarize request body.
func ParseSummarizeRequest(r *http.Request) (*SummarizeRequest, error) {
	body, err := readBody(r)
	if err != nil {
		return nil, err
	}

	var wire wireSummarizeRequest
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, summarizeDecodeError(err)
	}

	if wire.Text == nil {
		return nil, &RequestError{Message: "text is required", Code: CodeMissingField, Param: "text"}
	}
	if *wire.Text == "" {
		return nil, &RequestError{Message: "text must be a non-empty string", Code: CodeInvalidValue, Param: "text"}
	}
	if n := utf8.RuneCountInString(*wire.Text); n > MaxSummarizeChars {
		return nil, &RequestError{
			Message: fmt.Sprintf("text exceeds the maximum length of %d characters", MaxSummarizeChars),
			Code:    CodeTextTooLong,
			Param:   "text",
		}
	}

	return &SummarizeRequest{Text: *wire.Text}, nil
}

// readBody reads the request body under the size limit.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) >= MaxRequestBodySize {
		return nil, &RequestError{
			Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", MaxRequestBodySize),
			Code:    CodeRequestTooLarge,
			Param:   "body",
		}
	}
	return body, nil
}

// chatDecodeError turns a JSON decode failure into a field-specific
// validation error.
func chatDecodeError(err error) error {
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
		switch {
		case strings.Contains(typeErr.Field, "role"):
			return &RequestError{
				Message: `history item role must be a string ("user" or "assistant")`,
				Code:    CodeMalformedHistoryItem,
				Param:   "history",
			}
		case strings.Contains(typeErr.Field, "content"):
			return &RequestError{
				Message: "history item content must be a string",
				Code:    CodeMalformedHistoryItem,
				Param:   "history",
			}
		case strings.HasPrefix(typeErr.Field, "history"):
			return &RequestError{
				Message: "history must be an array of {role, content} objects",
				Code:    CodeInvalidType,
				Param:   "history",
			}
		case typeErr.Field == "message":
			return &RequestError{
				Message: "message must be a string",
				Code:    CodeInvalidType,
				Param:   "message",
			}
		}
	}
	return &RequestError{
		Message: fmt.Sprintf("invalid JSON: %v", err),
		Code:    CodeInvalidJSON,
		Param:   "body",
	}
}

// summarizeDecodeError turns a JSON decode failure into a field-specific
// validation error.
func summarizeDecodeError(err error) error {
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok && typeErr.Field == "text" {
		return &RequestError{
			Message: "text must be a string",
			Code:    CodeInvalidType,
			Param:   "text",
		}
	}
	return &RequestError{
		Message: fmt.Sprintf("invalid JSON: %v", err),
		Code:    CodeInvalidJSON,
		Param:   "body",
	}
}
