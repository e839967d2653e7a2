package reservations

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirasawaau/hotel-reservation/internal/handlers/common"
	"github.com/hirasawaau/hotel-reservation/internal/reservation"
)

// Delete cancels the reservation equal to the body and returns it.
// No match is a 404 not_found.
func (h *Handler) Delete(c *gin.Context) {
	var in reservation.Reservation
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BadRequest(c, err.Error())
		return
	}

	out, err := h.svc.Cancel(c.Request.Context(), in)
	if err != nil {
		common.AbortWithError(c, common.Reservations, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
