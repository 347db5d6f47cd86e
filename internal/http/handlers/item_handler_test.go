package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campusfound/lostfound-backend/internal/service"
)

func TestItemHandler_List_RejectsNonPublicStatusFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewItemHandler(service.NewItemService(nil, nil, 30, 7))

	for _, status := range []string{"any", "claimed", "expired", "marketplace"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/items?status="+status, nil)

		h.List(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, "status=%s", status)
	}
}
