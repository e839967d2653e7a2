package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/hirasawaau/hotel-reservation/internal/reservation"
	"github.com/stretchr/testify/assert"
)

func TestReservationsMapper(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{reservation.ErrInvalidRoom, http.StatusBadRequest, "invalid_room"},
		{reservation.ErrInvalidDateRange, http.StatusBadRequest, "invalid_date_range"},
		{reservation.ErrRoomUnavailable, http.StatusBadRequest, "room_unavailable"},
		{reservation.ErrNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("store: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "timeout"},
		{errors.New("boom"), http.StatusInternalServerError, "server_error"},
	}
	for _, tt := range tests {
		info := Reservations.Map(tt.err)
		assert.Equal(t, tt.status, info.Status, tt.err.Error())
		assert.Equal(t, tt.code, info.Code, tt.err.Error())
	}
}

func TestInvalidRequestKeepsDetail(t *testing.T) {
	err := fmt.Errorf("%w: name is required", reservation.ErrInvalidRequest)
	info := Reservations.Map(err)
	assert.Equal(t, http.StatusBadRequest, info.Status)
	assert.Equal(t, err.Error(), info.Message)
}

func TestMapNil(t *testing.T) {
	assert.Equal(t, http.StatusOK, Reservations.Map(nil).Status)
}
