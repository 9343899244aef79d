package handlers

import (
	"net/http"
	"strconv"
	"time"

	"livestream_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateStream(c *gin.Context) {
	streamer, ok := h.streamerProfile(c)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	stream := &domain.Stream{
		StreamerID: streamer.ID,
		Title:      req.Title,
		Status:     domain.StreamStatusIdle,
	}
	if err := h.StreamRepo.Create(c.Request.Context(), stream); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"stream": stream})
}

// LiveStreams lists currently live streams with streamer display fields.
func (h *Handler) LiveStreams(c *gin.Context) {
	streams, err := h.StreamRepo.ListLive(c.Request.Context(), h.Cfg.LiveFeedLimit)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"streams": streams})
}

func (h *Handler) StreamDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	stream, err := h.StreamRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err)
		return
	}

	// ingest key and push url are for the owner only
	public := *stream
	public.IngestKey = ""
	public.PushURL = ""
	c.JSON(http.StatusOK, gin.H{"stream": &public})
}

// StartStream opens a broadcast session on the caller's stream.
func (h *Handler) StartStream(c *gin.Context) {
	streamID, streamer, at, ok := h.sessionArgs(c)
	if !ok {
		return
	}

	res, err := h.Sessions.Start(c.Request.Context(), streamID, streamer.ID, at)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// StopStream closes the open session and credits the hours.
func (h *Handler) StopStream(c *gin.Context) {
	streamID, streamer, at, ok := h.sessionArgs(c)
	if !ok {
		return
	}

	res, err := h.Sessions.Stop(c.Request.Context(), streamID, streamer.ID, at)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) sessionArgs(c *gin.Context) (int64, *domain.StreamerProfile, *time.Time, bool) {
	streamID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stream id"})
		return 0, nil, nil, false
	}
	streamer, ok := h.streamerProfile(c)
	if !ok {
		return 0, nil, nil, false
	}

	var req struct {
		At *time.Time `json:"at"`
	}
	// body is optional
	_ = c.ShouldBindJSON(&req)

	return streamID, streamer, req.At, true
}
