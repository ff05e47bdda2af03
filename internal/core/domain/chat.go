package domain

import (
	"errors"
	"time"
)

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

var ErrChatBusy = errors.New("a chat request is already in flight")
var ErrEmptyMessage = errors.New("message text is empty")

// UpsellSuggestion is the structured upsell payload attached to an assistant
// message when the completion engine proposes an additional purchase.
type UpsellSuggestion struct {
	Suggested  bool    `json:"suggested"`
	ItemName   string  `json:"item_name"`
	TotalValue float64 `json:"total_value"`
}

// ChatMessage is one entry in the append-only upsell chat history.
type ChatMessage struct {
	ID         string            `json:"id"`
	Role       ChatRole          `json:"role"`
	Content    string            `json:"content"`
	Timestamp  time.Time         `json:"timestamp"`
	Suggestion *UpsellSuggestion `json:"suggestion,omitempty"`
}
