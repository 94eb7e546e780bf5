package swap

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/chainsim/dex-api/internal/dexerr"
)

type Handler struct {
	engine Engine
}

func NewHandler(engine Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.engine.Quote(&req)
	if err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h *Handler) Swap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !common.IsHexAddress(req.TraderAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trader address"})
		return
	}

	record, err := h.engine.Swap(&req)
	if err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *Handler) ListPoolSwaps(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	swaps, err := h.engine.GetSwapsByPool(c.Param("id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, swaps)
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/swap", h.Swap)
	router.POST("/swap/quote", h.Quote)
	router.GET("/pools/:id/swaps", h.ListPoolSwaps)
}
