// Package common holds small helpers shared by the HTTP handlers.
package common

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirasawaau/hotel-reservation/internal/reservation"
)

// ErrorInfo is the HTTP shape of an error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ErrorMapping maps one sentinel error. With Detail set, the wrapped error
// text becomes the message.
type ErrorMapping struct {
	Error   error
	Status  int
	Code    string
	Message string
	Detail  bool
}

// ErrorMapper maps domain errors to HTTP status codes and messages.
type ErrorMapper struct {
	mappings []ErrorMapping
	fallback ErrorInfo
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		fallback: ErrorInfo{Status: http.StatusInternalServerError, Code: "server_error", Message: "internal server error"},
	}
}

func (m *ErrorMapper) WithMapping(mp ErrorMapping) *ErrorMapper {
	m.mappings = append(m.mappings, mp)
	return m
}

func (m *ErrorMapper) Map(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusOK}
	}
	for _, mp := range m.mappings {
		if errors.Is(err, mp.Error) {
			msg := mp.Message
			if mp.Detail {
				msg = err.Error()
			}
			return ErrorInfo{Status: mp.Status, Code: mp.Code, Message: msg}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorInfo{Status: http.StatusGatewayTimeout, Code: "timeout", Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: "cancelled", Message: "request cancelled"}
	}
	return m.fallback
}

// Reservations is the mapper for reservation endpoints. Every rejected
// request is a 400 except a missing reservation, which is a 404.
var Reservations = NewErrorMapper().
	WithMapping(ErrorMapping{Error: reservation.ErrInvalidRequest, Status: http.StatusBadRequest, Code: "invalid_request", Detail: true}).
	WithMapping(ErrorMapping{Error: reservation.ErrInvalidRoom, Status: http.StatusBadRequest, Code: "invalid_room",
		Message: "Room must more than or equal 1 and less than or equal 10"}).
	WithMapping(ErrorMapping{Error: reservation.ErrInvalidDateRange, Status: http.StatusBadRequest, Code: "invalid_date_range",
		Message: "End date must after start date"}).
	WithMapping(ErrorMapping{Error: reservation.ErrRoomUnavailable, Status: http.StatusBadRequest, Code: "room_unavailable",
		Message: "Room is not available."}).
	WithMapping(ErrorMapping{Error: reservation.ErrNotFound, Status: http.StatusNotFound, Code: "not_found",
		Message: "Reservation not found"})

// AbortWithError writes the mapped error body.
func AbortWithError(c *gin.Context, m *ErrorMapper, err error) {
	info := m.Map(err)
	if info.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(info.Status, gin.H{"error": info.Code, "message": info.Message})
}

// BadRequest writes an invalid_request body for payloads that failed to decode.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": msg})
}
