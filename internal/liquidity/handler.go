package liquidity

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/chainsim/dex-api/internal/dexerr"
)

type Handler struct {
	engine Engine
}

func NewHandler(engine Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) AddLiquidity(c *gin.Context) {
	var req AddLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !common.IsHexAddress(req.ProviderAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider address"})
		return
	}

	position, err := h.engine.AddLiquidity(&req)
	if err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, position)
}

func (h *Handler) RemoveLiquidity(c *gin.Context) {
	var req RemoveLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !common.IsHexAddress(req.OwnerAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner address"})
		return
	}

	result, err := h.engine.RemoveLiquidity(&req)
	if err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetLiquidityValue(c *gin.Context) {
	lpAmount, err := decimal.NewFromString(c.Query("lp_amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lp_amount query param required"})
		return
	}

	value, err := h.engine.CalculateLiquidityValue(c.Param("id"), lpAmount)
	if err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, value)
}

func (h *Handler) ListPositions(c *gin.Context) {
	owner := c.Query("owner")
	if !common.IsHexAddress(owner) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner query param required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	positions, err := h.engine.GetPositionsByOwner(owner, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, positions)
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	liquidity := router.Group("/liquidity")
	{
		liquidity.POST("/add", h.AddLiquidity)
		liquidity.POST("/remove", h.RemoveLiquidity)
		liquidity.GET("/positions", h.ListPositions)
	}
	router.GET("/pools/:id/liquidity/value", h.GetLiquidityValue)
}
