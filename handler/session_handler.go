package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thiiagovboas/eureca-assistant/session"
	"github.com/thiiagovboas/eureca-assistant/types"
)

// defaultHistoryLimit caps the history endpoint when no limit is given.
const defaultHistoryLimit = 5

type SessionHandler interface {
	HandleProfile(c *gin.Context)
	HandleSummary(c *gin.Context)
	HandleHistory(c *gin.Context)
	HandleClear(c *gin.Context)
	HandleExport(c *gin.Context)
	HandleDelete(c *gin.Context)
}

type sessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(sessions *session.Manager) SessionHandler {
	return &sessionHandler{
		sessions: sessions,
	}
}

// HandleProfile stores company data on a session, creating the session
// when no id is given. Incomplete submissions are rejected whole.
func (h *sessionHandler) HandleProfile(c *gin.Context) {
	var req types.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	id, sctx := h.sessions.GetOrCreate(req.SessionID)
	profile, err := sctx.SetProfile(req.CompanyProfileUpdate)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.ProfileResponse{
			SessionID: id,
			Profile:   profile,
		},
	})
}

func (h *sessionHandler) HandleSummary(c *gin.Context) {
	sctx, ok := h.lookup(c)
	if !ok {
		return
	}

	// An uninitialized profile comes back as an error-shaped summary,
	// not an HTTP failure.
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   sctx.Summary(),
	})
}

func (h *sessionHandler) HandleHistory(c *gin.Context) {
	sctx, ok := h.lookup(c)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, _ = strconv.Atoi(limitStr)
	}

	entries, messages, err := sctx.Recent(limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.HistoryResponse{
			SessionID: c.Query("session_id"),
			Entries:   entries,
			Messages:  messages,
		},
	})
}

// HandleClear empties the conversation log but keeps the company profile.
func (h *sessionHandler) HandleClear(c *gin.Context) {
	var req types.ClearHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	sctx, ok := h.sessions.Get(req.SessionID)
	if !ok {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  false,
			Message: "sessão não encontrada",
		})
		return
	}

	sctx.ClearHistory()
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
	})
}

func (h *sessionHandler) HandleExport(c *gin.Context) {
	sctx, ok := h.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   sctx.Export(),
	})
}

// HandleDelete drops a session entirely. Deleting an unknown id is a
// no-op and still succeeds.
func (h *sessionHandler) HandleDelete(c *gin.Context) {
	id := c.Query("session_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "session_id é obrigatório",
		})
		return
	}

	h.sessions.Remove(id)
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
	})
}

func (h *sessionHandler) lookup(c *gin.Context) (*session.Context, bool) {
	id := c.Query("session_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "session_id é obrigatório",
		})
		return nil, false
	}

	sctx, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  false,
			Message: "sessão não encontrada",
		})
		return nil, false
	}
	return sctx, true
}
