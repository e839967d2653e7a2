package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports whether an optional dependency is usable.
type HealthChecker interface {
	IsHealthy() bool
}

type Health struct {
	store   Pinger
	events  HealthChecker
	timeout time.Duration
}

// NewHealth builds the /healthz handler. events may be nil.
func NewHealth(store Pinger, events HealthChecker, timeout time.Duration) *Health {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Health{store: store, events: events, timeout: timeout}
}

func (h *Health) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "store: " + err.Error()})
		return
	}
	if h.events != nil && !h.events.IsHealthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "events: publisher not connected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
