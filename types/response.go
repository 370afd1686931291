package types

import "time"

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ContextSummary is the condensed view of a session. When no company
// profile has been set, Error carries a fixed message and the statistics
// are zero-valued.
type ContextSummary struct {
	Error           string             `json:"error,omitempty"`
	CompanyProfile  *CompanyProfile    `json:"empresa_info,omitempty"`
	NumInteractions int                `json:"num_interactions"`
	LastInteraction *ConversationEntry `json:"last_interaction,omitempty"`
	ContextAge      int                `json:"context_age"`
	SizeCategory    string             `json:"porte,omitempty"`
	Stage           string             `json:"stage,omitempty"`
}

// ContextSchemaVersion tags exported session snapshots.
const ContextSchemaVersion = "1.1"

type ExportMetadata struct {
	ExportTime      time.Time `json:"export_time"`
	NumInteractions int       `json:"num_interactions"`
	ContextVersion  string    `json:"context_version"`
}

// ContextExport is the full serializable snapshot of a session.
type ContextExport struct {
	CompanyProfile *CompanyProfile     `json:"empresa_info"`
	History        []ConversationEntry `json:"conversation_history"`
	Messages       []Message           `json:"messages"`
	LastUpdate     time.Time           `json:"last_update"`
	Metadata       ExportMetadata      `json:"metadata"`
}

type ProfileResponse struct {
	SessionID string          `json:"session_id"`
	Profile   *CompanyProfile `json:"empresa_info"`
}

type HistoryResponse struct {
	SessionID string              `json:"session_id"`
	Entries   []ConversationEntry `json:"conversation_history"`
	Messages  []Message           `json:"messages"`
}

type SearchResponse struct {
	Context string        `json:"context"`
	Chunks  []ScoredChunk `json:"chunks,omitempty"`
}
