package reservations

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirasawaau/hotel-reservation/internal/handlers/common"
	"github.com/hirasawaau/hotel-reservation/internal/reservation"
)

type updateRequest struct {
	Reservation  reservation.Reservation `json:"reservation"`
	NewStartDate reservation.Date        `json:"new_start_date"`
	NewEndDate   reservation.Date        `json:"new_end_date"`
}

// Update moves an existing reservation to new dates on the same room.
// The reservation in the body must match a stored one on every field.
func (h *Handler) Update(c *gin.Context) {
	var in updateRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BadRequest(c, err.Error())
		return
	}

	out, err := h.svc.Update(c.Request.Context(), in.Reservation, in.NewStartDate, in.NewEndDate)
	if err != nil {
		common.AbortWithError(c, common.Reservations, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
