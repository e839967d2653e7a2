// Package server assembles the gin engine for the reservation API.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirasawaau/hotel-reservation/internal/handlers"
	"github.com/hirasawaau/hotel-reservation/internal/handlers/reservations"
	"github.com/hirasawaau/hotel-reservation/internal/metrics"
	"github.com/hirasawaau/hotel-reservation/internal/middleware"
	"github.com/hirasawaau/hotel-reservation/internal/reservation"
	"go.uber.org/zap"
)

type Deps struct {
	Service       *reservation.Service
	Metrics       *metrics.Metrics
	Events        handlers.HealthChecker
	HealthTimeout time.Duration
	Log           *zap.Logger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORS())
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	health := handlers.NewHealth(d.Service, d.Events, d.HealthTimeout)
	r.GET("/healthz", health.Check)

	reservations.New(d.Service).Register(r)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "route not found"})
	})
	return r
}
