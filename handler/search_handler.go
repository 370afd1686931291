package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thiiagovboas/eureca-assistant/service"
	"github.com/thiiagovboas/eureca-assistant/types"
)

type SearchHandler struct {
	indexer   *service.IndexService // nil when running keyword-only
	retriever service.Retriever
}

func NewSearchHandler(indexer *service.IndexService, retriever service.Retriever) *SearchHandler {
	return &SearchHandler{
		indexer:   indexer,
		retriever: retriever,
	}
}

// HandleSearch runs a retrieval round without the model call, for
// inspecting what context a question would pull in. With a vector index
// the scored chunks come back too; keyword mode returns context only.
func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "pergunta não pode ser vazia",
		})
		return
	}

	// Set default limit if not provided
	if req.Limit == 0 {
		req.Limit = 5
	}

	if h.indexer == nil {
		documentContext, err := h.retriever.Retrieve(c, req.Question)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.DataResponse{
				Status:  false,
				Message: "Search failed: " + err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, types.DataResponse{
			Status: true,
			Data:   types.SearchResponse{Context: documentContext},
		})
		return
	}

	chunks, err := h.indexer.Search(c, req.Question, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Search failed: " + err.Error(),
		})
		return
	}

	contents := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		contents = append(contents, chunk.Chunk.Content)
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.SearchResponse{
			Context: strings.Join(contents, "\n\n"),
			Chunks:  chunks,
		},
	})
}
