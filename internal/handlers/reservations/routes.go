package reservations

import "github.com/gin-gonic/gin"

// Register mounts the reservation endpoints on r.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/reservation")
	g.GET("/by-name/:name", h.ByName)
	g.GET("/by-room/:room_id", h.ByRoom)
	g.GET("/availability/:room_id", h.Availability)
	g.POST("", h.Create)
	g.PUT("/update", h.Update)
	g.DELETE("/delete", h.Delete)
}
