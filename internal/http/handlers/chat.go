package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *Handler) PostChatMessage(c *gin.Context) {
	streamID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stream id"})
		return
	}
	viewer, ok := h.viewerProfile(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if len(req.Text) > h.Cfg.MaxChatLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message too long"})
		return
	}

	res, err := h.Economy.PostChatMessage(c.Request.Context(), viewer.ID, streamID, req.Text)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ChatHistory returns the stream's messages in commit order, gift
// announcements included.
func (h *Handler) ChatHistory(c *gin.Context) {
	streamID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stream id"})
		return
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	messages, err := h.ChatRepo.ListByStream(c.Request.Context(), streamID, limit)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
