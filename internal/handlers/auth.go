package handlers

import (
	"errors"
	"net/http"

	"task-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.OperatorAuthService
}

func NewAuthHandler(auth *services.OperatorAuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// IssueToken exchanges the operator key for a short-lived bearer token.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operator key is required"})
		return
	}

	token, expiresIn, err := h.auth.IssueToken(req.Key)
	if err != nil {
		if errors.Is(err, services.ErrAuthDisabled) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "operator authentication is not configured"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid operator key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": expiresIn,
	})
}
