package types

import "time"

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID string   `json:"session_id"`
	Message   *Message `json:"message"`
}

// ConversationEntry is one completed question/answer exchange. Entries are
// append-only and owned by the session context; the chat-turn view is
// derived from them on read.
type ConversationEntry struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// Turns renders the entry as its two chat turns.
func (e ConversationEntry) Turns() []Message {
	return []Message{
		{Role: RoleUser, Content: e.Question},
		{Role: RoleAssistant, Content: e.Answer},
	}
}
