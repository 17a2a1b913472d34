package models

// Conversation roles. Spoken questions are tagged user, answer backend
// replies are tagged assistant.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single turn in a conversation, oldest first.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
