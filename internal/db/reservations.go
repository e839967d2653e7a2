package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hirasawaau/hotel-reservation/internal/reservation"
	"github.com/jmoiron/sqlx"
)

// Reservation is the row shape of the reservations table. Dates hold the
// stored form, so range filters compare them as strings.
type Reservation struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	StartDate string `db:"start_date"`
	EndDate   string `db:"end_date"`
	RoomID    int    `db:"room_id"`
}

func (r Reservation) toDomain() (reservation.Reservation, error) {
	start, err := reservation.ParseDate(r.StartDate)
	if err != nil {
		return reservation.Reservation{}, fmt.Errorf("row %d start_date: %w", r.ID, err)
	}
	end, err := reservation.ParseDate(r.EndDate)
	if err != nil {
		return reservation.Reservation{}, fmt.Errorf("row %d end_date: %w", r.ID, err)
	}
	return reservation.Reservation{Name: r.Name, StartDate: start, EndDate: end, RoomID: r.RoomID}, nil
}

const columns = "id, name, start_date, end_date, room_id"

// overlapWhere matches rows on a room that collide with [start, end]; see
// reservation.Overlaps for the clauses.
const overlapWhere = `room_id=? AND (
	(start_date<=? AND end_date>=?) OR
	(start_date<=? AND end_date>=?) OR
	(start_date>=? AND end_date<=?))`

func overlapArgs(roomID int, start, end reservation.Date) []any {
	s, e := start.Stored(), end.Stored()
	return []any{roomID, s, s, e, e, s, e}
}

const matchWhere = "name=? AND start_date=? AND end_date=? AND room_id=?"

func matchArgs(r reservation.Reservation) []any {
	return []any{r.Name, r.StartDate.Stored(), r.EndDate.Stored(), r.RoomID}
}

func (d *DB) FindByName(ctx context.Context, name string) ([]reservation.Reservation, error) {
	return d.selectReservations(ctx, "SELECT "+columns+" FROM reservations WHERE name=? ORDER BY id ASC", name)
}

func (d *DB) FindByRoom(ctx context.Context, roomID int) ([]reservation.Reservation, error) {
	return d.selectReservations(ctx, "SELECT "+columns+" FROM reservations WHERE room_id=? ORDER BY id ASC", roomID)
}

func (d *DB) selectReservations(ctx context.Context, q string, args ...any) ([]reservation.Reservation, error) {
	var rows []Reservation
	if err := d.SelectContext(ctx, &rows, d.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("select reservations: %w", err)
	}
	out := make([]reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		r, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (d *DB) IsAvailable(ctx context.Context, roomID int, start, end reservation.Date) (bool, error) {
	n, err := countOverlaps(ctx, d.DB, roomID, start, end)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (d *DB) Reserve(ctx context.Context, r reservation.Reservation) error {
	return d.withRoomLock(ctx, r.RoomID, func(tx *sqlx.Tx) error {
		n, err := countOverlaps(ctx, tx, r.RoomID, r.StartDate, r.EndDate)
		if err != nil {
			return err
		}
		if n > 0 {
			return reservation.ErrRoomUnavailable
		}
		_, err = tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO reservations (name, start_date, end_date, room_id) VALUES (?,?,?,?)"),
			r.Name, r.StartDate.Stored(), r.EndDate.Stored(), r.RoomID)
		if err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
}

func (d *DB) Reschedule(ctx context.Context, match reservation.Reservation, start, end reservation.Date) (reservation.Reservation, error) {
	var out reservation.Reservation
	err := d.withRoomLock(ctx, match.RoomID, func(tx *sqlx.Tx) error {
		n, err := countOverlaps(ctx, tx, match.RoomID, start, end)
		if err != nil {
			return err
		}
		if n > 0 {
			return reservation.ErrRoomUnavailable
		}
		id, err := findMatch(ctx, tx, match)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE reservations SET start_date=?, end_date=? WHERE id=?"),
			start.Stored(), end.Stored(), id); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}
		var row Reservation
		if err := tx.GetContext(ctx, &row, tx.Rebind("SELECT "+columns+" FROM reservations WHERE id=?"), id); err != nil {
			return fmt.Errorf("reload reservation: %w", err)
		}
		out, err = row.toDomain()
		return err
	})
	return out, err
}

func (d *DB) Cancel(ctx context.Context, match reservation.Reservation) (reservation.Reservation, error) {
	var out reservation.Reservation
	err := d.inTx(ctx, func(tx *sqlx.Tx) error {
		var row Reservation
		q := "SELECT " + columns + " FROM reservations WHERE " + matchWhere + " ORDER BY id ASC LIMIT 1"
		if d.dialect != SQLite {
			q += " FOR UPDATE"
		}
		if err := tx.GetContext(ctx, &row, tx.Rebind(q), matchArgs(match)...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return reservation.ErrNotFound
			}
			return fmt.Errorf("find reservation: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM reservations WHERE id=?"), row.ID)
		if err != nil {
			return fmt.Errorf("delete reservation: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return reservation.ErrNotFound
		}
		out, err = row.toDomain()
		return err
	})
	return out, err
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	Rebind(string) string
}

func countOverlaps(ctx context.Context, q queryer, roomID int, start, end reservation.Date) (int, error) {
	var n int
	query := q.Rebind("SELECT COUNT(*) FROM reservations WHERE " + overlapWhere)
	if err := sqlx.GetContext(ctx, q, &n, query, overlapArgs(roomID, start, end)...); err != nil {
		return 0, fmt.Errorf("check availability: %w", err)
	}
	return n, nil
}

func findMatch(ctx context.Context, tx *sqlx.Tx, match reservation.Reservation) (int64, error) {
	var id int64
	q := tx.Rebind("SELECT id FROM reservations WHERE " + matchWhere + " ORDER BY id ASC LIMIT 1")
	if err := tx.GetContext(ctx, &id, q, matchArgs(match)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, reservation.ErrNotFound
		}
		return 0, fmt.Errorf("find reservation: %w", err)
	}
	return id, nil
}
