package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfound/lostfound-backend/internal/http/handlers/common"
	"github.com/campusfound/lostfound-backend/internal/service"
)

// ClaimHandler provides the HTTP layer for ownership claims.
type ClaimHandler struct {
	claims *service.ClaimService
}

// NewClaimHandler creates the handler.
func NewClaimHandler(claims *service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

// Submit handles POST /api/claims.
func (h *ClaimHandler) Submit(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		ItemID              string `json:"item_id" binding:"required"`
		Description         string `json:"description" binding:"required"`
		VerificationDetails string `json:"verification_details" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	itemID, err := parseUUIDField(req.ItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id must be a valid UUID"})
		return
	}

	claim, err := h.claims.Submit(c.Request.Context(), service.SubmitClaimInput{
		ItemID:              itemID,
		Description:         req.Description,
		VerificationDetails: req.VerificationDetails,
	}, userID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"claim": claim})
}

// ListMine handles GET /api/claims/my-claims.
func (h *ClaimHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	claims, err := h.claims.ListMine(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// ListForMyItems handles GET /api/claims/for-my-items.
func (h *ClaimHandler) ListForMyItems(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	claims, err := h.claims.ListForOwnedItems(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// Get handles GET /api/claims/:id.
func (h *ClaimHandler) Get(c *gin.Context) {
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

	claim, err := h.claims.Get(c.Request.Context(), id, userID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim})
}
