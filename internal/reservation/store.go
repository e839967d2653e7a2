package reservation

import "context"

// Store persists reservations. Reserve and Reschedule run the availability
// check and the write as one operation, so two requests for the same room
// cannot both pass the check before either commits.
type Store interface {
	// FindByName returns reservations held under name, in store order.
	FindByName(ctx context.Context, name string) ([]Reservation, error)
	// FindByRoom returns reservations on roomID, in store order.
	FindByRoom(ctx context.Context, roomID int) ([]Reservation, error)
	// IsAvailable reports whether no reservation on roomID overlaps [start, end].
	IsAvailable(ctx context.Context, roomID int, start, end Date) (bool, error)
	// Reserve stores r if its room is free, else returns ErrRoomUnavailable.
	Reserve(ctx context.Context, r Reservation) error
	// Reschedule moves the reservation equal to match onto [start, end] of the
	// same room. The availability scan does not skip match itself.
	// Returns ErrRoomUnavailable or ErrNotFound.
	Reschedule(ctx context.Context, match Reservation, start, end Date) (Reservation, error)
	// Cancel removes the reservation equal to match and returns it, or ErrNotFound.
	Cancel(ctx context.Context, match Reservation) (Reservation, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
