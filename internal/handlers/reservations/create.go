package reservations

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirasawaau/hotel-reservation/internal/handlers/common"
	"github.com/hirasawaau/hotel-reservation/internal/reservation"
)

// Create books a room.
// Checks run in order: room id, date range, availability. Each failure is a 400.
// The response echoes the stored reservation.
func (h *Handler) Create(c *gin.Context) {
	var in reservation.Reservation
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BadRequest(c, err.Error())
		return
	}

	out, err := h.svc.Reserve(c.Request.Context(), in)
	if err != nil {
		common.AbortWithError(c, common.Reservations, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
