package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// lockOpTimeout bounds the work done under a lease. lockLease outlives it
	// with room for clock skew, so a live holder's lease never reads as
	// expired to the next acquirer.
	lockOpTimeout = 20 * time.Second
	lockLease     = lockOpTimeout + 10*time.Second
	lockBackoff   = 25 * time.Millisecond
)

// roomLock is a lease on one room. The unique _id makes a second insert fail
// while the first holder is alive; expires_at lets others take over a lease
// whose holder died, and the TTL index eventually sweeps it.
type roomLock struct {
	ID        string    `bson:"_id"`
	Owner     string    `bson:"owner"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

type roomLocks struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func newRoomLocks(coll *mongo.Collection, timeout time.Duration) *roomLocks {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &roomLocks{coll: coll, timeout: timeout}
}

func (l *roomLocks) ensureIndexes(ctx context.Context) error {
	_, err := l.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create lock index: %w", err)
	}
	return nil
}

func lockID(roomID int) string { return fmt.Sprintf("room:%d", roomID) }

// with holds the room's lease while fn runs. fn gets a context that ends
// before the lease does.
func (l *roomLocks) with(ctx context.Context, roomID int, fn func(ctx context.Context) error) error {
	owner, err := l.acquire(ctx, roomID)
	if err != nil {
		return err
	}
	defer l.release(context.WithoutCancel(ctx), roomID, owner)

	opCtx, cancel := context.WithTimeout(ctx, lockOpTimeout)
	defer cancel()
	return fn(opCtx)
}

func (l *roomLocks) acquire(ctx context.Context, roomID int) (string, error) {
	owner := uuid.NewString()
	id := lockID(roomID)
	deadline := time.Now().Add(l.timeout)
	for {
		now := time.Now().UTC()
		_, err := l.coll.InsertOne(ctx, roomLock{ID: id, Owner: owner, ExpiresAt: now.Add(lockLease), CreatedAt: now})
		if err == nil {
			return owner, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("lock room %d: %w", roomID, err)
		}
		// Clear a lease left behind by a holder that never released it.
		if _, err := l.coll.DeleteOne(ctx, bson.D{
			{Key: "_id", Value: id},
			{Key: "expires_at", Value: bson.D{{Key: "$lt", Value: now}}},
		}); err != nil {
			return "", fmt.Errorf("lock room %d: %w", roomID, err)
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("lock room %d: timed out after %s", roomID, l.timeout)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
}

func (l *roomLocks) release(ctx context.Context, roomID int, owner string) {
	_, _ = l.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: lockID(roomID)}, {Key: "owner", Value: owner}})
}
