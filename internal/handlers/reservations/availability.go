package reservations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hirasawaau/hotel-reservation/internal/handlers/common"
	"github.com/hirasawaau/hotel-reservation/internal/reservation"
)

// Availability reports whether :room_id is free for ?start_date=&end_date=.
func (h *Handler) Availability(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("room_id"))
	if err != nil {
		common.BadRequest(c, "room_id must be an integer")
		return
	}
	start, err := reservation.ParseDate(c.Query("start_date"))
	if err != nil {
		common.BadRequest(c, "start_date: "+err.Error())
		return
	}
	end, err := reservation.ParseDate(c.Query("end_date"))
	if err != nil {
		common.BadRequest(c, "end_date: "+err.Error())
		return
	}

	free, err := h.svc.IsAvailable(c.Request.Context(), roomID, start, end)
	if err != nil {
		common.AbortWithError(c, common.Reservations, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room_id":    roomID,
		"start_date": start,
		"end_date":   end,
		"available":  free,
	})
}
