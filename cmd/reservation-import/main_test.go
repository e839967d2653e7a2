package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hirasawaau/hotel-reservation/internal/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = reservation.Reservation{
	Name:      "Alice",
	StartDate: reservation.MustParseDate("2024-01-10"),
	EndDate:   reservation.MustParseDate("2024-01-15"),
	RoomID:    3,
}

func TestParseList(t *testing.T) {
	got, err := parseReservations([]byte(`
- name: Alice
  start_date: 2024-01-10
  end_date: "2024-01-15"
  room_id: 3
`))
	require.NoError(t, err)
	assert.Equal(t, []reservation.Reservation{alice}, got)
}

func TestParseWrapped(t *testing.T) {
	got, err := parseReservations([]byte(`
reservations:
  - {name: Alice, start_date: 2024-01-10, end_date: 2024-01-15, room_id: 3}
  - {name: Bob, start_date: 2024-01-16, end_date: 2024-01-20, room_id: 3}
`))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, alice, got[0])
	assert.Equal(t, "Bob", got[1].Name)
}

func TestParseRejects(t *testing.T) {
	_, err := parseReservations([]byte(`just a string`))
	assert.Error(t, err)

	_, err = parseReservations([]byte(`- {name: A, start_date: someday, end_date: 2024-01-15, room_id: 3}`))
	assert.Error(t, err)

	got, err := parseReservations([]byte(``))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPostReservation(t *testing.T) {
	var received reservation.Reservation
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reservation", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		if received.RoomID == 3 {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_room"}`))
	}))
	defer srv.Close()

	require.NoError(t, postReservation(srv.Client(), srv.URL, alice))
	assert.Equal(t, alice, received)

	other := alice
	other.RoomID = 4
	err := postReservation(srv.Client(), srv.URL, other)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_room")
}
