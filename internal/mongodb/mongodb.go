// Package mongodb stores reservations as documents in a MongoDB collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hirasawaau/hotel-reservation/internal/reservation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Config names the deployment to connect to.
type Config struct {
	URI         string
	Database    string
	Collection  string
	LockTimeout time.Duration
}

// Store is the MongoDB reservation store.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	locks  *roomLocks
	log    *zap.Logger
}

// Open connects to MongoDB, pings the primary and ensures indexes.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	db := client.Database(cfg.Database)
	s := &Store{
		client: client,
		coll:   db.Collection(cfg.Collection),
		locks:  newRoomLocks(db.Collection(cfg.Collection+"_locks"), cfg.LockTimeout),
		log:    log,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	log.Info("Connected to MongoDB",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create reservation indexes: %w", err)
	}
	return s.locks.ensureIndexes(ctx)
}

// document is the persisted shape; dates use reservation.StoredLayout.
type document struct {
	Name      string `bson:"name"`
	StartDate string `bson:"start_date"`
	EndDate   string `bson:"end_date"`
	RoomID    int    `bson:"room_id"`
}

func toDocument(r reservation.Reservation) document {
	return document{
		Name:      r.Name,
		StartDate: r.StartDate.Stored(),
		EndDate:   r.EndDate.Stored(),
		RoomID:    r.RoomID,
	}
}

func (d document) toDomain() (reservation.Reservation, error) {
	start, err := reservation.ParseDate(d.StartDate)
	if err != nil {
		return reservation.Reservation{}, err
	}
	end, err := reservation.ParseDate(d.EndDate)
	if err != nil {
		return reservation.Reservation{}, err
	}
	return reservation.Reservation{Name: d.Name, StartDate: start, EndDate: end, RoomID: d.RoomID}, nil
}

// overlapFilter selects reservations on roomID that collide with [start, end];
// the three $or branches are the clauses of reservation.Overlaps.
func overlapFilter(roomID int, start, end reservation.Date) bson.D {
	s, e := start.Stored(), end.Stored()
	return bson.D{
		{Key: "room_id", Value: roomID},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "start_date", Value: bson.D{{Key: "$lte", Value: s}}}, {Key: "end_date", Value: bson.D{{Key: "$gte", Value: s}}}},
			bson.D{{Key: "start_date", Value: bson.D{{Key: "$lte", Value: e}}}, {Key: "end_date", Value: bson.D{{Key: "$gte", Value: e}}}},
			bson.D{{Key: "start_date", Value: bson.D{{Key: "$gte", Value: s}}}, {Key: "end_date", Value: bson.D{{Key: "$lte", Value: e}}}},
		}},
	}
}

// matchFilter selects the document equal to r on every field.
func matchFilter(r reservation.Reservation) bson.D {
	doc := toDocument(r)
	return bson.D{
		{Key: "name", Value: doc.Name},
		{Key: "start_date", Value: doc.StartDate},
		{Key: "end_date", Value: doc.EndDate},
		{Key: "room_id", Value: doc.RoomID},
	}
}

var noID = bson.D{{Key: "_id", Value: 0}}

func (s *Store) FindByName(ctx context.Context, name string) ([]reservation.Reservation, error) {
	return s.find(ctx, bson.D{{Key: "name", Value: name}})
}

func (s *Store) FindByRoom(ctx context.Context, roomID int) ([]reservation.Reservation, error) {
	return s.find(ctx, bson.D{{Key: "room_id", Value: roomID}})
}

func (s *Store) find(ctx context.Context, filter bson.D) ([]reservation.Reservation, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetProjection(noID))
	if err != nil {
		return nil, fmt.Errorf("find reservations: %w", err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reservations: %w", err)
	}
	out := make([]reservation.Reservation, 0, len(docs))
	for _, d := range docs {
		r, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) IsAvailable(ctx context.Context, roomID int, start, end reservation.Date) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, overlapFilter(roomID, start, end), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check availability: %w", err)
	}
	return n == 0, nil
}

func (s *Store) Reserve(ctx context.Context, r reservation.Reservation) error {
	return s.locks.with(ctx, r.RoomID, func(ctx context.Context) error {
		free, err := s.IsAvailable(ctx, r.RoomID, r.StartDate, r.EndDate)
		if err != nil {
			return err
		}
		if !free {
			return reservation.ErrRoomUnavailable
		}
		if _, err := s.coll.InsertOne(ctx, toDocument(r)); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
}

func (s *Store) Reschedule(ctx context.Context, match reservation.Reservation, start, end reservation.Date) (reservation.Reservation, error) {
	var out reservation.Reservation
	err := s.locks.with(ctx, match.RoomID, func(ctx context.Context) error {
		free, err := s.IsAvailable(ctx, match.RoomID, start, end)
		if err != nil {
			return err
		}
		if !free {
			return reservation.ErrRoomUnavailable
		}
		update := bson.D{{Key: "$set", Value: bson.D{
			{Key: "start_date", Value: start.Stored()},
			{Key: "end_date", Value: end.Stored()},
		}}}
		opts := options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(noID)
		var doc document
		if err := s.coll.FindOneAndUpdate(ctx, matchFilter(match), update, opts).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return reservation.ErrNotFound
			}
			return fmt.Errorf("update reservation: %w", err)
		}
		out, err = doc.toDomain()
		return err
	})
	return out, err
}

func (s *Store) Cancel(ctx context.Context, match reservation.Reservation) (reservation.Reservation, error) {
	var doc document
	opts := options.FindOneAndDelete().SetProjection(noID)
	if err := s.coll.FindOneAndDelete(ctx, matchFilter(match), opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return reservation.Reservation{}, reservation.ErrNotFound
		}
		return reservation.Reservation{}, fmt.Errorf("delete reservation: %w", err)
	}
	return doc.toDomain()
}

func (s *Store) Ping(ctx context.Context) error { return s.client.Ping(ctx, nil) }

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }
