package handlers

import (
	"net/http"
	"strconv"

	"livestream_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListViewerLevelRules(c *gin.Context) {
	rules, err := h.RuleRepo.ViewerRules(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *Handler) CreateViewerLevelRule(c *gin.Context) {
	var req struct {
		Level       int   `json:"level" binding:"required,gt=0"`
		MinPoints   int64 `json:"min_points" binding:"gte=0"`
		RewardCoins int64 `json:"reward_coins" binding:"gte=0"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	rule := &domain.ViewerLevelRule{
		Level:       req.Level,
		MinPoints:   req.MinPoints,
		RewardCoins: req.RewardCoins,
		Active:      true,
	}
	if err := h.RuleRepo.CreateViewerRule(c.Request.Context(), rule); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

func (h *Handler) UpdateViewerLevelRule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Level       int   `json:"level" binding:"required,gt=0"`
		MinPoints   int64 `json:"min_points" binding:"gte=0"`
		RewardCoins int64 `json:"reward_coins" binding:"gte=0"`
		Active      bool  `json:"active"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	rule := &domain.ViewerLevelRule{
		ID:          id,
		Level:       req.Level,
		MinPoints:   req.MinPoints,
		RewardCoins: req.RewardCoins,
		Active:      req.Active,
	}
	if err := h.RuleRepo.UpdateViewerRule(c.Request.Context(), rule); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

func (h *Handler) DeactivateViewerLevelRule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.RuleRepo.DeactivateViewerRule(c.Request.Context(), id); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
