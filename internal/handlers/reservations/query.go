package reservations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hirasawaau/hotel-reservation/internal/handlers/common"
)

// ByName returns every reservation held under the :name path segment.
func (h *Handler) ByName(c *gin.Context) {
	out, err := h.svc.ByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		common.AbortWithError(c, common.Reservations, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out})
}

// ByRoom returns every reservation on :room_id.
// Non-numeric ids are invalid_request; ids outside the hotel are invalid_room.
func (h *Handler) ByRoom(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("room_id"))
	if err != nil {
		common.BadRequest(c, "room_id must be an integer")
		return
	}
	out, err := h.svc.ByRoom(c.Request.Context(), roomID)
	if err != nil {
		common.AbortWithError(c, common.Reservations, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out})
}
