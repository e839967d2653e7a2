// Package store opens the reservation store selected by configuration.
package store

import (
	"context"
	"fmt"

	"github.com/hirasawaau/hotel-reservation/internal/config"
	"github.com/hirasawaau/hotel-reservation/internal/db"
	"github.com/hirasawaau/hotel-reservation/internal/memstore"
	"github.com/hirasawaau/hotel-reservation/internal/mongodb"
	"github.com/hirasawaau/hotel-reservation/internal/reservation"
	"go.uber.org/zap"
)

func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (reservation.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		s, err := mongodb.Open(ctx, mongodb.Config{
			URI:         cfg.MongoURI,
			Database:    cfg.MongoDatabase,
			Collection:  cfg.MongoCollection,
			LockTimeout: cfg.LockTimeout,
		}, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreMySQL, config.StorePostgres, config.StoreSQLite:
		d, err := db.Open(ctx, db.Dialect(cfg.StoreDriver), cfg.DSN(), db.Options{
			LockTimeout:     cfg.LockTimeout,
			ConnectAttempts: cfg.DBConnectTries,
		})
		if err != nil {
			return nil, err
		}
		log.Info("Connected to SQL database", zap.String("driver", cfg.StoreDriver))
		return d, nil
	case config.StoreMemory:
		log.Warn("Using in-memory store; reservations are lost on restart")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
