package reservation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) Date { return MustParseDate(s) }

func res(name, start, end string, room int) Reservation {
	return Reservation{Name: name, StartDate: d(start), EndDate: d(end), RoomID: room}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-01-10", "2024-01-10T00:00:00", "2024-01-10T00:00:00Z"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, "2024-01-10", got.String())
		assert.Equal(t, "2024-01-10T00:00:00", got.Stored())
	}

	for _, in := range []string{"", "10/01/2024", "2024-13-01", "2024-01-10T08:30:00"} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestStoredFormSortsChronologically(t *testing.T) {
	a, b := d("2024-01-09"), d("2024-01-10")
	assert.Less(t, a.Stored(), b.Stored())
	assert.Less(t, d("2023-12-31").Stored(), a.Stored())
}

func TestReservationJSON(t *testing.T) {
	var r Reservation
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Alice","start_date":"2024-01-10","end_date":"2024-01-15","room_id":3}`), &r))
	assert.Equal(t, res("Alice", "2024-01-10", "2024-01-15", 3), r)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Alice","start_date":"2024-01-10","end_date":"2024-01-15","room_id":3}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start_date":"tomorrow"}`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"start_date":20240110}`), &r))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		r    Reservation
		want error
	}{
		{"ok", res("Alice", "2024-01-10", "2024-01-15", 3), nil},
		{"single day", res("Alice", "2024-01-10", "2024-01-10", 1), nil},
		{"room 10", res("Alice", "2024-01-10", "2024-01-15", 10), nil},
		{"room 0", res("Alice", "2024-01-10", "2024-01-15", 0), ErrInvalidRoom},
		{"room 11", res("Alice", "2024-01-10", "2024-01-15", 11), ErrInvalidRoom},
		{"negative room", res("Alice", "2024-01-10", "2024-01-15", -1), ErrInvalidRoom},
		{"end before start", res("Alice", "2024-01-15", "2024-01-10", 3), ErrInvalidDateRange},
		{"room checked before range", res("Alice", "2024-01-15", "2024-01-10", 42), ErrInvalidRoom},
		{"missing name", res("", "2024-01-10", "2024-01-15", 3), ErrInvalidRequest},
		{"blank name is still a name", res(" ", "2024-01-10", "2024-01-15", 3), nil},
		{"missing dates", Reservation{Name: "Alice", RoomID: 3}, ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
