package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thiiagovboas/eureca-assistant/service"
	"github.com/thiiagovboas/eureca-assistant/types"
)

type DocumentHandler struct {
	indexService *service.IndexService
}

func NewDocumentHandler(indexService *service.IndexService) *DocumentHandler {
	return &DocumentHandler{
		indexService: indexService,
	}
}

// HandleStatus reports index state and the on-disk presence of every
// tracked document.
func (h *DocumentHandler) HandleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   h.indexService.Status(),
	})
}

// HandleReindex invalidates the cache and rebuilds synchronously, so the
// response reflects the finished build.
func (h *DocumentHandler) HandleReindex(c *gin.Context) {
	h.indexService.MarkDirty()
	if err := h.indexService.EnsureIndex(c); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   h.indexService.Status(),
	})
}
