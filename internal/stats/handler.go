package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chainsim/dex-api/internal/dexerr"
)

type Handler struct {
	engine Engine
}

func NewHandler(engine Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) GetPoolStats(c *gin.Context) {
	stats, err := h.engine.GetPoolStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/pools/:id/stats", h.GetPoolStats)
}
