// Package memstore keeps reservations in process memory. It backs the
// "memory" store driver and the handler tests.
package memstore

import (
	"context"
	"sync"

	"github.com/hirasawaau/hotel-reservation/internal/reservation"
)

type Store struct {
	mu    sync.Mutex
	items []reservation.Reservation
}

func New() *Store {
	return &Store{}
}

func (s *Store) FindByName(ctx context.Context, name string) ([]reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []reservation.Reservation{}
	for _, r := range s.items {
		if r.Name == name {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) FindByRoom(ctx context.Context, roomID int) ([]reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []reservation.Reservation{}
	for _, r := range s.items {
		if r.RoomID == roomID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) IsAvailable(ctx context.Context, roomID int, start, end reservation.Date) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reservation.Available(s.items, roomID, start, end), nil
}

func (s *Store) Reserve(ctx context.Context, r reservation.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !reservation.Available(s.items, r.RoomID, r.StartDate, r.EndDate) {
		return reservation.ErrRoomUnavailable
	}
	s.items = append(s.items, r)
	return nil
}

func (s *Store) Reschedule(ctx context.Context, match reservation.Reservation, start, end reservation.Date) (reservation.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return reservation.Reservation{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !reservation.Available(s.items, match.RoomID, start, end) {
		return reservation.Reservation{}, reservation.ErrRoomUnavailable
	}
	i := s.index(match)
	if i < 0 {
		return reservation.Reservation{}, reservation.ErrNotFound
	}
	s.items[i].StartDate = start
	s.items[i].EndDate = end
	return s.items[i], nil
}

func (s *Store) Cancel(ctx context.Context, match reservation.Reservation) (reservation.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return reservation.Reservation{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(match)
	if i < 0 {
		return reservation.Reservation{}, reservation.ErrNotFound
	}
	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return removed, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close(ctx context.Context) error { return nil }

// index returns the position of the first reservation equal to match, or -1.
func (s *Store) index(match reservation.Reservation) int {
	for i, r := range s.items {
		if r.Name == match.Name && r.RoomID == match.RoomID &&
			r.StartDate.Equal(match.StartDate) && r.EndDate.Equal(match.EndDate) {
			return i
		}
	}
	return -1
}
