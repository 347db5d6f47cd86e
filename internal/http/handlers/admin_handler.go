package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfound/lostfound-backend/internal/http/handlers/common"
	"github.com/campusfound/lostfound-backend/internal/service"
)

// AdminHandler provides the HTTP layer for moderation: claim decisions, hold
// management, marketplace promotion and the stats dashboard.
type AdminHandler struct {
	admin       *service.AdminService
	claims      *service.ClaimService
	items       *service.ItemService
	marketplace *service.MarketplaceService
}

// NewAdminHandler creates the handler.
func NewAdminHandler(admin *service.AdminService, claims *service.ClaimService, items *service.ItemService, marketplace *service.MarketplaceService) *AdminHandler {
	return &AdminHandler{
		admin:       admin,
		claims:      claims,
		items:       items,
		marketplace: marketplace,
	}
}

// decisionRequest carries optional moderator notes.
type decisionRequest struct {
	Notes *string `json:"notes"`
}

// ListPendingClaims handles GET /api/admin/claims/pending.
func (h *AdminHandler) ListPendingClaims(c *gin.Context) {
	claims, err := h.admin.ListPendingClaims(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// ApproveClaim handles POST /api/admin/claims/:id/approve.
func (h *AdminHandler) ApproveClaim(c *gin.Context) {
	reviewerID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A decision may carry no body at all.
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim, err := h.claims.Approve(c.Request.Context(), id, reviewerID, req.Notes)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim})
}

// RejectClaim handles POST /api/admin/claims/:id/reject.
func (h *AdminHandler) RejectClaim(c *gin.Context) {
	reviewerID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A decision may carry no body at all.
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim, err := h.claims.Reject(c.Request.Context(), id, reviewerID, req.Notes)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim})
}

// ListFoundItems handles GET /api/admin/items/found.
func (h *AdminHandler) ListFoundItems(c *gin.Context) {
	items, err := h.admin.ListFoundItems(c.Request.Context(), c.Query("status"))
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListExpiringItems handles GET /api/admin/items/expiring.
func (h *AdminHandler) ListExpiringItems(c *gin.Context) {
	items, err := h.admin.ListExpiringSoon(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ExtendItemHold handles POST /api/admin/items/:id/extend.
func (h *AdminHandler) ExtendItemHold(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.items.ExtendHold(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// PromoteToMarketplace handles POST /api/admin/items/:id/to-marketplace.
func (h *AdminHandler) PromoteToMarketplace(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		PickupLocation string   `json:"pickup_location" binding:"required"`
		Price          *float64 `json:"price"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.marketplace.Promote(c.Request.Context(), service.PromoteInput{
		ItemID:         id,
		PickupLocation: req.PickupLocation,
		Price:          req.Price,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"listing": listing})
}

// GetStats handles GET /api/admin/stats.
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.admin.GetStats(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
