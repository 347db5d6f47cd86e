package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfound/lostfound-backend/internal/http/handlers/common"
	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/service"
)

// MarketplaceHandler provides the HTTP layer for public listings.
type MarketplaceHandler struct {
	marketplace *service.MarketplaceService
}

// NewMarketplaceHandler creates the handler.
func NewMarketplaceHandler(marketplace *service.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketplace: marketplace}
}

// List handles GET /api/marketplace.
func (h *MarketplaceHandler) List(c *gin.Context) {
	filter := models.MarketplaceFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	listings, err := h.marketplace.ListAvailable(c.Request.Context(), filter)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// Get handles GET /api/marketplace/:id.
func (h *MarketplaceHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.marketplace.Get(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// Claim handles POST /api/marketplace/:id/claim.
func (h *MarketplaceHandler) Claim(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.marketplace.Claim(c.Request.Context(), id, userID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// ListClaimed handles GET /api/marketplace/my/claimed.
func (h *MarketplaceHandler) ListClaimed(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listings, err := h.marketplace.ListClaimedBy(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings})
}
