// Package reservation holds the hotel reservation model, the availability
// rule and the service that the HTTP handlers call into.
package reservation

import (
	"errors"
	"fmt"
)

const (
	MinRoomID = 1
	MaxRoomID = 10
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidRoom      = errors.New("room must more than or equal 1 and less than or equal 10")
	ErrInvalidDateRange = errors.New("end date must after start date")
	ErrRoomUnavailable  = errors.New("room is not available")
	ErrNotFound         = errors.New("reservation not found")
)

// Reservation is one guest's booking of a room for an inclusive range of days.
type Reservation struct {
	Name      string `json:"name" yaml:"name"`
	StartDate Date   `json:"start_date" yaml:"start_date"`
	EndDate   Date   `json:"end_date" yaml:"end_date"`
	RoomID    int    `json:"room_id" yaml:"room_id"`
}

func (r Reservation) String() string {
	return fmt.Sprintf("%s room=%d %s..%s", r.Name, r.RoomID, r.StartDate, r.EndDate)
}

// ValidRoom reports whether id is one of the hotel's rooms.
func ValidRoom(id int) bool { return id >= MinRoomID && id <= MaxRoomID }

// CheckRange returns ErrInvalidDateRange when end is before start.
func CheckRange(start, end Date) error {
	if end.Before(start) {
		return ErrInvalidDateRange
	}
	return nil
}

// checkFields rejects payloads that decoded but left required fields empty.
func (r Reservation) checkFields() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", ErrInvalidRequest)
	}
	return nil
}

// Validate applies the create-time checks in order: required fields, room, date range.
func (r Reservation) Validate() error {
	if err := r.checkFields(); err != nil {
		return err
	}
	if !ValidRoom(r.RoomID) {
		return ErrInvalidRoom
	}
	return CheckRange(r.StartDate, r.EndDate)
}
