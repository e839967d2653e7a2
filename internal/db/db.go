package db

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavor and the room locking strategy.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by name.
	sqlx.BindDriver(string(SQLite), sqlx.QUESTION)
}

// Options tunes the connection. Zero values pick the defaults.
type Options struct {
	LockTimeout     time.Duration
	ConnectAttempts int
}

// DB is the relational reservation store shared by the MySQL, Postgres and
// SQLite drivers.
type DB struct {
	*sqlx.DB
	dialect     Dialect
	lockTimeout time.Duration
}

// Open connects, waits for the server to answer and ensures the schema.
func Open(ctx context.Context, dialect Dialect, dsn string, opts Options) (*DB, error) {
	switch dialect {
	case MySQL, Postgres, SQLite:
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	xdb, err := sqlx.Open(string(dialect), dsn)
	if err != nil {
		return nil, err
	}
	if dialect == SQLite {
		// One connection: writes serialize, and an in-memory database
		// survives for the life of the handle.
		xdb.SetMaxOpenConns(1)
		xdb.SetMaxIdleConns(1)
	} else {
		xdb.SetConnMaxLifetime(2 * time.Hour)
		xdb.SetMaxIdleConns(10)
		xdb.SetMaxOpenConns(50)
	}

	attempts := opts.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}
	if err := ping(ctx, xdb, attempts); err != nil {
		_ = xdb.Close()
		return nil, err
	}

	lt := opts.LockTimeout
	if lt <= 0 {
		lt = 5 * time.Second
	}
	d := &DB{DB: xdb, dialect: dialect, lockTimeout: lt}
	if err := d.ensureSchema(ctx); err != nil {
		_ = xdb.Close()
		return nil, err
	}
	return d, nil
}

func ping(ctx context.Context, xdb *sqlx.DB, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = xdb.PingContext(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database not reachable: %w", err)
}

func (d *DB) Dialect() Dialect { return d.dialect }

func (d *DB) Ping(ctx context.Context) error { return d.DB.PingContext(ctx) }

func (d *DB) Close(ctx context.Context) error { return d.DB.Close() }

// Dev-time schema (inline DDL)

func (d *DB) ensureSchema(ctx context.Context) error {
	for _, s := range schema(d.dialect) {
		if _, err := d.DB.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

func schema(dialect Dialect) []string {
	switch dialect {
	case MySQL:
		return []string{
			// name uses a binary collation so lookups by name stay exact.
			`CREATE TABLE IF NOT EXISTS reservations (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(255) NOT NULL COLLATE utf8mb4_bin,
				start_date CHAR(19) NOT NULL,
				end_date CHAR(19) NOT NULL,
				room_id INT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				INDEX idx_reservations_room (room_id, start_date, end_date),
				INDEX idx_reservations_name (name)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
		}
	case Postgres:
		return []string{
			`CREATE TABLE IF NOT EXISTS reservations (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				start_date CHAR(19) NOT NULL,
				end_date CHAR(19) NOT NULL,
				room_id INTEGER NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_reservations_room ON reservations (room_id, start_date, end_date)`,
			`CREATE INDEX IF NOT EXISTS idx_reservations_name ON reservations (name)`,
		}
	default:
		return []string{
			`CREATE TABLE IF NOT EXISTS reservations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				start_date TEXT NOT NULL,
				end_date TEXT NOT NULL,
				room_id INTEGER NOT NULL,
				created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_reservations_room ON reservations (room_id, start_date, end_date)`,
			`CREATE INDEX IF NOT EXISTS idx_reservations_name ON reservations (name)`,
		}
	}
}
