package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCoinPackages(c *gin.Context) {
	packages, err := h.PackageRepo.ListActive(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

// PurchaseCoins credits the caller's wallet with a package's coins.
func (h *Handler) PurchaseCoins(c *gin.Context) {
	viewer, ok := h.viewerProfile(c)
	if !ok {
		return
	}

	var req struct {
		PackageID int64 `json:"package_id" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	res, err := h.Economy.PurchaseCoins(c.Request.Context(), viewer.ID, req.PackageID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
