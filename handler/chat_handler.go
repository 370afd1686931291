package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thiiagovboas/eureca-assistant/service"
	"github.com/thiiagovboas/eureca-assistant/types"
)

type ChatHandler struct {
	chatService *service.ChatService
	wsService   *service.WebSocketService
}

func NewChatHandler(chatService *service.ChatService, wsService *service.WebSocketService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		wsService:   wsService,
	}
}

// HandleChat runs one question/answer turn. A missing session_id opens a
// new session; the allocated id comes back in the response.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	response, err := h.chatService.Chat(c, req.SessionID, req.Message)
	if err != nil {
		var verr *types.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  false,
				Message: verr.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   response,
	})
}

// HandleChatWS upgrades the connection and hands it to the websocket
// service, which streams answer fragments over typed envelopes.
func (h *ChatHandler) HandleChatWS(c *gin.Context) {
	h.wsService.HandleChat(c.Writer, c.Request)
}

// HandleAnalyze exposes the question classifier for inspection.
func (h *ChatHandler) HandleAnalyze(c *gin.Context) {
	var req types.QuestionAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "mensagem não pode ser vazia",
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   h.chatService.Analyze(req.Message),
	})
}
