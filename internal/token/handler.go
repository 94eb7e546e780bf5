package token

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

func (h *Handler) CreateToken(c *gin.Context) {
	var token models.Token
	if err := c.ShouldBindJSON(&token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.CreateToken(&token); err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, token)
}

func (h *Handler) GetToken(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		// fall back to symbol lookup for non-numeric ids
		token, err := h.service.GetTokenBySymbol(idStr)
		if err != nil {
			c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, token)
		return
	}

	token, err := h.service.GetTokenByID(uint(id))
	if err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, token)
}

func (h *Handler) ListTokens(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	offsetStr := c.DefaultQuery("offset", "0")

	limit, _ := strconv.Atoi(limitStr)
	offset, _ := strconv.Atoi(offsetStr)

	var (
		tokens []*models.Token
		err    error
	)
	if c.Query("verified") == "true" {
		tokens, err = h.service.GetVerifiedTokens(limit, offset)
	} else {
		tokens, err = h.service.ListTokens(limit, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *Handler) UpdateToken(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var token models.Token
	if err := c.ShouldBindJSON(&token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token.ID = uint(id)

	if err := h.service.UpdateToken(&token); err != nil {
		c.JSON(dexerr.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, token)
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	tokens := router.Group("/tokens")
	{
		tokens.POST("", h.CreateToken)
		tokens.GET("", h.ListTokens)
		tokens.GET("/:id", h.GetToken)
		tokens.PUT("/:id", h.UpdateToken)
	}
}
