package reservations

import (
	"context"

	"github.com/hirasawaau/hotel-reservation/internal/reservation"
)

// Package reservations provides the reservation HTTP handlers.
//
// This file defines the handler type and constructor only.
// The HTTP methods are implemented in dedicated files:
// - query.go:        Handler.ByName, Handler.ByRoom
// - availability.go: Handler.Availability
// - create.go:       Handler.Create
// - update.go:       Handler.Update
// - delete.go:       Handler.Delete

// Service is the part of reservation.Service the handlers call.
type Service interface {
	ByName(ctx context.Context, name string) ([]reservation.Reservation, error)
	ByRoom(ctx context.Context, roomID int) ([]reservation.Reservation, error)
	IsAvailable(ctx context.Context, roomID int, start, end reservation.Date) (bool, error)
	Reserve(ctx context.Context, r reservation.Reservation) (reservation.Reservation, error)
	Update(ctx context.Context, match reservation.Reservation, start, end reservation.Date) (reservation.Reservation, error)
	Cancel(ctx context.Context, match reservation.Reservation) (reservation.Reservation, error)
}

// Handler wires reservation endpoints to the service.
type Handler struct{ svc Service }

// New returns a new reservations handler.
func New(svc Service) *Handler { return &Handler{svc: svc} }
