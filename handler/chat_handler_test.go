package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiiagovboas/eureca-assistant/service"
	"github.com/thiiagovboas/eureca-assistant/session"
	"github.com/thiiagovboas/eureca-assistant/types"
)

// stubAI returns a fixed answer, streamed word by word.
type stubAI struct {
	answer string
	err    error
}

func (s *stubAI) Chat(ctx context.Context, messages []types.Message) (*types.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.Message{Role: types.RoleAssistant, Content: s.answer}, nil
}

func (s *stubAI) ChatStream(ctx context.Context, messages []types.Message, handler types.StreamHandler) (*types.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, part := range strings.SplitAfter(s.answer, " ") {
		handler(part)
	}
	return &types.Message{Role: types.RoleAssistant, Content: s.answer}, nil
}

type stubRetriever struct {
	context string
	err     error
}

func (s *stubRetriever) Retrieve(ctx context.Context, question string) (string, error) {
	return s.context, s.err
}

func newChatRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager()
	chatService := service.NewChatService(
		service.NewAnalyzer(nil, nil),
		&stubRetriever{context: "O contrato de aprendizagem dura no máximo dois anos."},
		nil,
		service.NewComposer(service.DefaultHistoryWindow),
		&stubAI{answer: "O contrato dura no máximo dois anos."},
		sessions,
	)
	chatHandler := NewChatHandler(chatService, service.NewWebSocketService(chatService))

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/chat", chatHandler.HandleChat)
	api.GET("/chat/ws", chatHandler.HandleChatWS)
	api.POST("/questions/analyze", chatHandler.HandleAnalyze)
	return router, sessions
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleChatAnswersQuestion(t *testing.T) {
	router, sessions := newChatRouter(t)

	w := performRequest(router, http.MethodPost, "/api/v1/chat",
		`{"message": "qual a duração do contrato de aprendizagem?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Status bool               `json:"status"`
		Data   types.ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Status)
	assert.NotEmpty(t, res.Data.SessionID)
	assert.Equal(t, "O contrato dura no máximo dois anos.", res.Data.Message.Content)
	assert.Equal(t, 1, sessions.Len())
}

func TestHandleChatKeepsSession(t *testing.T) {
	router, sessions := newChatRouter(t)

	w := performRequest(router, http.MethodPost, "/api/v1/chat",
		`{"session_id": "abc", "message": "qual a idade mínima?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Data types.ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "abc", res.Data.SessionID)

	sctx, ok := sessions.Get("abc")
	require.True(t, ok)
	assert.Len(t, sctx.History(), 1)
}

func TestHandleChatRejectsEmptyMessage(t *testing.T) {
	router, _ := newChatRouter(t)

	w := performRequest(router, http.MethodPost, "/api/v1/chat", `{"message": "   "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var res types.DataResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Status)
	assert.Equal(t, "mensagem não pode ser vazia", res.Message)
}

func TestHandleChatRejectsMalformedBody(t *testing.T) {
	router, _ := newChatRouter(t)

	w := performRequest(router, http.MethodPost, "/api/v1/chat", `{"message":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var res types.DataResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Invalid request body", res.Message)
}

func TestHandleAnalyzeProfilesQuestion(t *testing.T) {
	router, _ := newChatRouter(t)

	w := performRequest(router, http.MethodPost, "/api/v1/questions/analyze",
		`{"message": "como funciona o contrato e qual o salário do aprendiz?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Status bool                  `json:"status"`
		Data   types.QuestionProfile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Status)
	assert.True(t, res.Data.IsInterrogative)
	assert.False(t, res.Data.IsGreeting)
	assert.Contains(t, res.Data.Keywords, "aprendiz")
	assert.Contains(t, res.Data.Keywords, "contrato")
	assert.NotEmpty(t, res.Data.Complexity)
}

func TestHandleAnalyzeRejectsEmptyMessage(t *testing.T) {
	router, _ := newChatRouter(t)

	w := performRequest(router, http.MethodPost, "/api/v1/questions/analyze", `{"message": ""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func dialWebsocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func TestChatWebsocketStreamsAnswer(t *testing.T) {
	router, _ := newChatRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	conn := dialWebsocket(t, server)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(types.WebsocketRequest{
		Type:    types.TypeWebsocketChat,
		Payload: types.WebSocketChatPayload{Message: "qual a duração do contrato?"},
	}))

	var fragments strings.Builder
	for {
		var envelope struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, conn.ReadJSON(&envelope))

		switch envelope.Type {
		case types.TypeWebsocketFragment:
			var fragment types.WebSocketFragmentResponse
			require.NoError(t, json.Unmarshal(envelope.Payload, &fragment))
			fragments.WriteString(fragment.Content)
		case types.TypeWebsocketChat:
			var final types.WebSocketChatResponse
			require.NoError(t, json.Unmarshal(envelope.Payload, &final))
			assert.Equal(t, final.Message, fragments.String())
			assert.NotEmpty(t, final.SessionID)
			return
		default:
			t.Fatalf("unexpected frame type %q", envelope.Type)
		}
	}
}

func TestChatWebsocketPingPong(t *testing.T) {
	router, _ := newChatRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	conn := dialWebsocket(t, server)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(types.WebsocketRequest{Type: types.TypeWebsocketPing}))

	var envelope types.WebSocketResponse
	require.NoError(t, conn.ReadJSON(&envelope))
	assert.Equal(t, types.TypeWebsocketPong, envelope.Type)
}
