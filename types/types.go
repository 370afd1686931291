package types

const (
	TypeWebsocketPing     = "ping"
	TypeWebsocketPong     = "pong"
	TypeWebsocketChat     = "chat"
	TypeWebsocketFragment = "chat_fragment"
	TypeWebsocketError    = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketChatPayload struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketChatResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type WebSocketFragmentResponse struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

type WebSocketErrorResponse struct {
	Message string `json:"message"`
}

// Message represents a single message in the conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// StreamHandler receives answer fragments as the model produces them.
type StreamHandler func(fragment string)
