package handlers

import (
	"errors"
	"net/http"
	"time"

	"livestream_backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// ClaimDailyBonus grants the caller today's random bonus, once.
func (h *Handler) ClaimDailyBonus(c *gin.Context) {
	viewer, ok := h.viewerProfile(c)
	if !ok {
		return
	}

	res, err := h.Economy.ClaimDailyBonus(c.Request.Context(), viewer.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DailyBonusStatus reports whether the caller has already claimed today.
func (h *Handler) DailyBonusStatus(c *gin.Context) {
	viewer, ok := h.viewerProfile(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	claim, err := h.BonusRepo.ClaimForDate(c.Request.Context(), viewer.ID, today)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"claimed": false})
			return
		}
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claimed": true, "claim": claim})
}
