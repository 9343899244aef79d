package handlers

import (
	"net/http"

	"livestream_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Auth exchanges a known account id for an API token. Upstream
// identity verification (SSO, password) sits in front of this service;
// here the account only has to exist.
func (h *Handler) Auth(c *gin.Context) {
	var req struct {
		UserID int64 `json:"user_id" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, err := h.UserRepo.GetByID(c.Request.Context(), req.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}

	token, err := service.GenerateJWT(user.ID, user.Role)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	user, err := h.UserRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
