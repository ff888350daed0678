package relay

import (
	"fmt"
	"strings"
)

// BuildChatPrompt concatenates the caller-supplied history and the new
// message into the single prompt string sent upstream. Each history turn
// becomes a "<role>: <content>" line in original order, followed by the new
// message as a user line. With no history the prompt is the raw message.
func BuildChatPrompt(history []HistoryItem, message string) string {
	if len(history) == 0 {
		return message
	}

	var b strings.Builder
	for _, item := range history {
		b.WriteString(item.Role)
		b.WriteString(": ")
		b.WriteString(item.Content)
		b.WriteString("\n")
	}
	b.WriteString(RoleUser)
	b.WriteString(": ")
	b.WriteString(message)
	return b.String()
}

// SummaryPrompt interpolates the caller's text into the fixed summarization
// instruction.
func SummaryPrompt(text string) string {
	return fmt.Sprintf("Please provide a concise summary of the following text:\n\n%s", text)
}
