package handlers

import (
	"errors"
	"net/http"

	"livestream_backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// Dashboard returns the caller's streamer profile plus hour progress
// toward the next level.
func (h *Handler) Dashboard(c *gin.Context) {
	streamer, ok := h.streamerProfile(c)
	if !ok {
		return
	}

	resp := gin.H{
		"profile":     streamer,
		"level":       streamer.Level,
		"total_hours": streamer.TotalHours,
	}

	next, err := h.RuleRepo.NextStreamerRule(c.Request.Context(), streamer.ID, streamer.Level)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		serviceError(c, err)
		return
	}
	if next != nil {
		missing := next.MinHours - streamer.TotalHours
		if missing < 0 {
			missing = 0
		}
		percent := 100.0
		if next.MinHours > 0 {
			percent = streamer.TotalHours / next.MinHours * 100
			if percent > 100 {
				percent = 100
			}
		}
		resp["next_level"] = next.Level
		resp["next_min_hours"] = next.MinHours
		resp["missing_hours"] = missing
		resp["percent"] = percent
	}

	c.JSON(http.StatusOK, resp)
}
