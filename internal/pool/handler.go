package pool

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chainsim/dex-api/internal/dexerr"
	"github.com/chainsim/dex-api/internal/models"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreatePool(c *gin.Context) {
	var req CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pool, err := h.service.CreatePool(&req)
	if err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, pool)
}

func (h *Handler) GetPool(c *gin.Context) {
	pool, err := h.service.GetPoolByPoolID(c.Param("id"))
	if err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pool)
}

func (h *Handler) GetPoolByTokens(c *gin.Context) {
	token0, err0 := strconv.ParseUint(c.Query("token0"), 10, 32)
	token1, err1 := strconv.ParseUint(c.Query("token1"), 10, 32)
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token0 and token1 query params required"})
		return
	}

	pool, err := h.service.GetPoolByTokens(uint(token0), uint(token1))
	if err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pool)
}

func (h *Handler) ListPools(c *gin.Context) {
	if tokenStr := c.Query("token"); tokenStr != "" {
		tokenID, err := strconv.ParseUint(tokenStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token id"})
			return
		}
		pools, err := h.service.GetPoolsByToken(uint(tokenID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, pools)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var (
		pools []*models.Pool
		err   error
	)
	if c.Query("active") == "true" {
		pools, err = h.service.GetActivePools()
	} else {
		pools, err = h.service.ListPools(limit, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pools)
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	pools := router.Group("/pools")
	{
		pools.POST("", h.CreatePool)
		pools.GET("", h.ListPools)
		pools.GET("/by-tokens", h.GetPoolByTokens)
		pools.GET("/:id", h.GetPool)
	}
}
