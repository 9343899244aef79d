package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"livestream_backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// MyBalance returns the caller's wallet and recent movements.
func (h *Handler) MyBalance(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	wallet, err := h.WalletRepo.GetByUserID(ctx, userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	if wallet == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	movements, err := h.WalletRepo.Movements(ctx, wallet.ID, limit)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet, "movements": movements})
}

// MyProgress reports the caller's viewer level, points and the distance to
// the next rule.
func (h *Handler) MyProgress(c *gin.Context) {
	viewer, ok := h.viewerProfile(c)
	if !ok {
		return
	}

	resp := gin.H{
		"level":  viewer.Level,
		"points": viewer.Points,
	}

	next, err := h.RuleRepo.NextViewerRule(c.Request.Context(), viewer.Level)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		serviceError(c, err)
		return
	}
	if next != nil {
		missing := next.MinPoints - viewer.Points
		if missing < 0 {
			missing = 0
		}
		percent := 100.0
		if next.MinPoints > 0 {
			percent = float64(viewer.Points) / float64(next.MinPoints) * 100
			if percent > 100 {
				percent = 100
			}
		}
		resp["next_level"] = next.Level
		resp["next_min_points"] = next.MinPoints
		resp["missing_points"] = missing
		resp["percent"] = percent
	}

	c.JSON(http.StatusOK, resp)
}
