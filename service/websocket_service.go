package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/thiiagovboas/eureca-assistant/types"
)

const (
	maxMessageSize = 512 * 1024
	readTimeout    = 60 * time.Second
)

// WebSocketService streams chat answers over a websocket. Answers are sent
// as chat_fragment messages while the model produces them, followed by one
// final chat message with the full text.
type WebSocketService struct {
	chat     *ChatService
	upgrader websocket.Upgrader
}

func NewWebSocketService(chat *ChatService) *WebSocketService {
	return &WebSocketService{
		chat: chat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	ctx := r.Context()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			log.Println("Unmarshal error:", err)
			s.writeError(conn, "mensagem inválida")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				log.Println("Marshal error:", err)
				s.writeError(conn, "mensagem inválida")
				continue
			}
			var payload types.WebSocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				log.Println("Unmarshal error:", err)
				s.writeError(conn, "mensagem inválida")
				continue
			}
			s.handleChatMessage(ctx, conn, payload)

		case types.TypeWebsocketPing:
			pong := types.WebSocketResponse{
				Type:    types.TypeWebsocketPong,
				Payload: nil,
			}
			if err := conn.WriteJSON(pong); err != nil {
				log.Println("Write error:", err)
			}

		default:
			log.Println("Invalid message type:", req.Type)
			s.writeError(conn, "tipo de mensagem desconhecido")
		}
	}
}

func (s *WebSocketService) handleChatMessage(ctx context.Context, conn *websocket.Conn, payload types.WebSocketChatPayload) {
	sessionID := payload.SessionID

	resp, err := s.chat.ChatStream(ctx, sessionID, payload.Message, func(fragment string) {
		fragmentMsg := types.WebSocketResponse{
			Type: types.TypeWebsocketFragment,
			Payload: types.WebSocketFragmentResponse{
				SessionID: sessionID,
				Content:   fragment,
			},
		}
		if err := conn.WriteJSON(fragmentMsg); err != nil {
			log.Println("Write error:", err)
		}
	})
	if err != nil {
		log.Println("Chat error:", err)
		s.writeError(conn, err.Error())
		return
	}

	final := types.WebSocketResponse{
		Type: types.TypeWebsocketChat,
		Payload: types.WebSocketChatResponse{
			SessionID: resp.SessionID,
			Message:   resp.Message.Content,
		},
	}
	if err := conn.WriteJSON(final); err != nil {
		log.Println("Write error:", err)
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	errMsg := types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebSocketErrorResponse{Message: message},
	}
	if err := conn.WriteJSON(errMsg); err != nil {
		log.Println("Write error:", err)
	}
}
