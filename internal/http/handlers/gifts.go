package handlers

import (
	"net/http"
	"strconv"

	"livestream_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// ListGifts returns the gifts sendable on a streamer's streams: the global
// catalog plus the streamer's own. Without a streamer_id only the global
// catalog is returned.
func (h *Handler) ListGifts(c *gin.Context) {
	ctx := c.Request.Context()

	if v := c.Query("streamer_id"); v != "" {
		streamerID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid streamer_id"})
			return
		}
		gifts, err := h.GiftRepo.ListForStreamer(ctx, streamerID)
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"gifts": gifts})
		return
	}

	gifts, err := h.GiftRepo.ListActive(ctx)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": gifts})
}

func (h *Handler) CreateGift(c *gin.Context) {
	streamer, ok := h.streamerProfile(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		CostCoins   int64  `json:"cost_coins" binding:"required,gt=0"`
		PointsGiven int64  `json:"points_given" binding:"gte=0"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	gift := &domain.Gift{
		StreamerID:  streamer.ID,
		Name:        req.Name,
		CostCoins:   req.CostCoins,
		PointsGiven: req.PointsGiven,
		Active:      true,
	}
	if err := h.GiftRepo.Create(c.Request.Context(), gift); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gift": gift})
}

func (h *Handler) UpdateGift(c *gin.Context) {
	streamer, ok := h.streamerProfile(c)
	if !ok {
		return
	}
	gift, ok := h.ownedGift(c, streamer.ID)
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		CostCoins   *int64  `json:"cost_coins"`
		PointsGiven *int64  `json:"points_given"`
		Active      *bool   `json:"active"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if req.Name != nil {
		gift.Name = *req.Name
	}
	if req.CostCoins != nil {
		if *req.CostCoins <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cost_coins must be positive"})
			return
		}
		gift.CostCoins = *req.CostCoins
	}
	if req.PointsGiven != nil {
		if *req.PointsGiven < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "points_given must not be negative"})
			return
		}
		gift.PointsGiven = *req.PointsGiven
	}
	if req.Active != nil {
		gift.Active = *req.Active
	}

	if err := h.GiftRepo.Update(c.Request.Context(), gift); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gift": gift})
}

// DeactivateGift soft-deletes a gift. Past sends keep referencing it.
func (h *Handler) DeactivateGift(c *gin.Context) {
	streamer, ok := h.streamerProfile(c)
	if !ok {
		return
	}
	gift, ok := h.ownedGift(c, streamer.ID)
	if !ok {
		return
	}

	if err := h.GiftRepo.Deactivate(c.Request.Context(), gift.ID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SendGift performs the gift transaction on a stream.
func (h *Handler) SendGift(c *gin.Context) {
	streamID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stream id"})
		return
	}
	senderID, ok := h.senderProfileID(c)
	if !ok {
		return
	}

	var req struct {
		GiftID   int64  `json:"gift_id" binding:"required"`
		Quantity int    `json:"quantity"`
		Message  string `json:"message"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	res, err := h.Economy.SendGift(c.Request.Context(), senderID, streamID, req.GiftID, req.Quantity, req.Message)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ownedGift loads the gift from the path and checks it belongs to the
// calling streamer.
func (h *Handler) ownedGift(c *gin.Context, streamerID int64) (*domain.Gift, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}
	gift, err := h.GiftRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err)
		return nil, false
	}
	if gift.StreamerID != streamerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource does not belong to this streamer"})
		return nil, false
	}
	return gift, true
}
