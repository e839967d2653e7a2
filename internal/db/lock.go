package db

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
)

const lockPrefix = "hotel-reservation:room:"

// advisoryKey namespaces room ids for pg_advisory_xact_lock.
const advisoryKey = int64(0x686f74656c) << 16

// withRoomLock runs fn in a transaction while no other request through this
// database holds the same room. MySQL takes a named GET_LOCK on a pinned
// connection, Postgres a transaction-scoped advisory lock, and SQLite relies
// on its single connection.
func (d *DB) withRoomLock(ctx context.Context, roomID int, fn func(tx *sqlx.Tx) error) error {
	switch d.dialect {
	case MySQL:
		return d.withMySQLLock(ctx, roomID, fn)
	case Postgres:
		return d.inTx(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", lockTimeoutMillis(d.lockTimeout))); err != nil {
				return fmt.Errorf("set lock timeout: %w", err)
			}
			if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryKey+int64(roomID)); err != nil {
				return fmt.Errorf("lock room %d: %w", roomID, err)
			}
			return fn(tx)
		})
	default:
		return d.inTx(ctx, fn)
	}
}

// lockTimeoutMillis is the Postgres lock_timeout for d. Zero there means
// wait forever, so anything below a millisecond rounds up to one.
func lockTimeoutMillis(d time.Duration) int64 {
	if ms := d.Milliseconds(); ms > 0 {
		return ms
	}
	return 1
}

func (d *DB) withMySQLLock(ctx context.Context, roomID int, fn func(tx *sqlx.Tx) error) error {
	conn, err := d.DB.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	name := fmt.Sprintf("%s%d", lockPrefix, roomID)
	secs := int(math.Ceil(d.lockTimeout.Seconds()))
	var got sql.NullInt64
	if err := conn.QueryRowxContext(ctx, "SELECT GET_LOCK(?, ?)", name, secs).Scan(&got); err != nil {
		return fmt.Errorf("lock room %d: %w", roomID, err)
	}
	if !got.Valid || got.Int64 != 1 {
		return fmt.Errorf("could not acquire MySQL advisory lock %q (result=%v)", name, got)
	}
	defer func() {
		_, _ = conn.ExecContext(context.WithoutCancel(ctx), "SELECT RELEASE_LOCK(?)", name)
	}()

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (d *DB) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
