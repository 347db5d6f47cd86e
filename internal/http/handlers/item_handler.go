package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusfound/lostfound-backend/internal/http/handlers/common"
	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/service"
)

// ItemHandler provides the HTTP layer for lost and found reports.
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler creates the handler.
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// itemRequest is the shared payload of report and update endpoints.
type itemRequest struct {
	Type         string  `json:"type" binding:"required"`
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description" binding:"required"`
	Category     string  `json:"category" binding:"required"`
	Location     string  `json:"location" binding:"required"`
	Date         string  `json:"date" binding:"required"`
	ImageURL     *string `json:"image_url"`
	ContactEmail string  `json:"contact_email" binding:"required"`
	ContactPhone *string `json:"contact_phone"`
}

func (r itemRequest) toInput() (service.ReportItemInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		// Also accept a full timestamp.
		date, err = time.Parse(time.RFC3339, r.Date)
		if err != nil {
			return service.ReportItemInput{}, err
		}
	}

	return service.ReportItemInput{
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		Location:     r.Location,
		Date:         date,
		ImageURL:     r.ImageURL,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
	}, nil
}

// Report handles POST /api/items.
func (h *ItemHandler) Report(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD or RFC 3339"})
		return
	}

	var item *models.Item
	switch req.Type {
	case models.ItemTypeLost:
		item, err = h.items.ReportLost(c.Request.Context(), in, userID)
	case models.ItemTypeFound:
		item, err = h.items.ReportFound(c.Request.Context(), in, userID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be lost or found"})
		return
	}
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// List handles GET /api/items.
func (h *ItemHandler) List(c *gin.Context) {
	// The public board serves active reports only; other statuses belong to
	// the owner and admin views.
	status := c.Query("status")
	if status != "" && status != models.ItemStatusActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported status filter"})
		return
	}

	filter := models.ItemFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
		Status:   status,
	}

	items, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListMine handles GET /api/items/my.
func (h *ItemHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	items, err := h.items.ListMine(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Get handles GET /api/items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// Update handles PUT /api/items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
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

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD or RFC 3339"})
		return
	}

	item, err := h.items.UpdateOwned(c.Request.Context(), id, userID, in)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// Delete handles DELETE /api/items/:id.
func (h *ItemHandler) Delete(c *gin.Context) {
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

	if err := h.items.DeleteOwned(c.Request.Context(), id, userID); err != nil {
		common.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}
