package reservation

// Overlaps reports whether a requested range [start, end] collides with an
// existing reservation. Boundaries are inclusive, so a stay starting on the
// day another one ends is a collision.
//
// The three clauses are the ones every store backend expresses as a query:
//  1. the request starts inside the existing range
//  2. the request ends inside the existing range
//  3. the request contains the existing range
func Overlaps(existing Reservation, start, end Date) bool {
	startsInside := !existing.StartDate.After(start) && !existing.EndDate.Before(start)
	endsInside := !existing.StartDate.After(end) && !existing.EndDate.Before(end)
	contains := !start.After(existing.StartDate) && !existing.EndDate.After(end)
	return startsInside || endsInside || contains
}

// Available reports whether roomID is free for [start, end] given the
// reservations already held. Reservations for other rooms are ignored.
func Available(existing []Reservation, roomID int, start, end Date) bool {
	return len(Conflicts(existing, roomID, start, end)) == 0
}

// Conflicts returns the reservations on roomID that overlap [start, end].
func Conflicts(existing []Reservation, roomID int, start, end Date) []Reservation {
	var out []Reservation
	for _, r := range existing {
		if r.RoomID == roomID && Overlaps(r, start, end) {
			out = append(out, r)
		}
	}
	return out
}
