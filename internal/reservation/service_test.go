package reservation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hirasawaau/hotel-reservation/internal/memstore"
	"github.com/hirasawaau/hotel-reservation/internal/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu      sync.Mutex
	changes []reservation.Change
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, c reservation.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
	return p.err
}

type countingRecorder struct {
	counts map[string]int
}

func (r *countingRecorder) RecordOperation(op, outcome string) {
	r.counts[op+":"+outcome]++
}

func d(s string) reservation.Date { return reservation.MustParseDate(s) }

func alice() reservation.Reservation {
	return reservation.Reservation{Name: "Alice", StartDate: d("2024-01-10"), EndDate: d("2024-01-15"), RoomID: 3}
}

func setupService(t *testing.T) (*reservation.Service, *recordingPublisher, *countingRecorder) {
	pub := &recordingPublisher{}
	rec := &countingRecorder{counts: map[string]int{}}
	svc := reservation.NewService(memstore.New(), zap.NewNop(),
		reservation.WithPublisher(pub),
		reservation.WithRecorder(rec),
	)
	return svc, pub, rec
}

func TestReserveScenario(t *testing.T) {
	svc, pub, rec := setupService(t)
	ctx := context.Background()

	got, err := svc.Reserve(ctx, alice())
	require.NoError(t, err)
	assert.Equal(t, alice(), got)

	bob := reservation.Reservation{Name: "Bob", StartDate: d("2024-01-12"), EndDate: d("2024-01-20"), RoomID: 3}
	_, err = svc.Reserve(ctx, bob)
	assert.ErrorIs(t, err, reservation.ErrRoomUnavailable)

	bob.StartDate = d("2024-01-15")
	_, err = svc.Reserve(ctx, bob)
	assert.ErrorIs(t, err, reservation.ErrRoomUnavailable)

	bob.StartDate = d("2024-01-16")
	_, err = svc.Reserve(ctx, bob)
	assert.NoError(t, err)

	require.Len(t, pub.changes, 2)
	assert.Equal(t, reservation.Created, pub.changes[0].Kind)
	assert.Equal(t, 2, rec.counts["create:ok"])
	assert.Equal(t, 2, rec.counts["create:room_unavailable"])
}

func TestReserveValidation(t *testing.T) {
	svc, pub, _ := setupService(t)
	ctx := context.Background()

	r := alice()
	r.RoomID = 11
	_, err := svc.Reserve(ctx, r)
	assert.ErrorIs(t, err, reservation.ErrInvalidRoom)

	r = alice()
	r.StartDate, r.EndDate = r.EndDate, r.StartDate
	_, err = svc.Reserve(ctx, r)
	assert.ErrorIs(t, err, reservation.ErrInvalidDateRange)

	assert.Empty(t, pub.changes)
}

func TestByRoom(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.ByRoom(ctx, 0)
	assert.ErrorIs(t, err, reservation.ErrInvalidRoom)

	empty, err := svc.ByRoom(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.Reserve(ctx, alice())
	require.NoError(t, err)
	got, err := svc.ByRoom(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []reservation.Reservation{alice()}, got)
}

func TestByName(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, alice())
	require.NoError(t, err)
	second := alice()
	second.RoomID = 4
	_, err = svc.Reserve(ctx, second)
	require.NoError(t, err)

	got, err := svc.ByName(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, []reservation.Reservation{alice(), second}, got)

	none, err := svc.ByName(ctx, "Zed")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdate(t *testing.T) {
	svc, pub, _ := setupService(t)
	ctx := context.Background()
	_, err := svc.Reserve(ctx, alice())
	require.NoError(t, err)

	got, err := svc.Update(ctx, alice(), d("2024-02-01"), d("2024-02-03"))
	require.NoError(t, err)
	assert.Equal(t, reservation.Reservation{Name: "Alice", StartDate: d("2024-02-01"), EndDate: d("2024-02-03"), RoomID: 3}, got)

	require.Len(t, pub.changes, 2)
	last := pub.changes[1]
	assert.Equal(t, reservation.Updated, last.Kind)
	require.NotNil(t, last.Previous)
	assert.Equal(t, alice(), *last.Previous)
}

func TestUpdateErrors(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	_, err := svc.Reserve(ctx, alice())
	require.NoError(t, err)

	_, err = svc.Update(ctx, alice(), d("2024-02-03"), d("2024-02-01"))
	assert.ErrorIs(t, err, reservation.ErrInvalidDateRange)

	// The reservation's own range still counts against the new one.
	_, err = svc.Update(ctx, alice(), d("2024-01-11"), d("2024-01-14"))
	assert.ErrorIs(t, err, reservation.ErrRoomUnavailable)

	missing := alice()
	missing.Name = "Bob"
	_, err = svc.Update(ctx, missing, d("2024-03-01"), d("2024-03-02"))
	assert.ErrorIs(t, err, reservation.ErrNotFound)

	_, err = svc.Update(ctx, alice(), reservation.Date{}, d("2024-03-02"))
	assert.ErrorIs(t, err, reservation.ErrInvalidRequest)
}

func TestCancel(t *testing.T) {
	svc, pub, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, alice())
	assert.ErrorIs(t, err, reservation.ErrNotFound)

	_, err = svc.Reserve(ctx, alice())
	require.NoError(t, err)
	got, err := svc.Cancel(ctx, alice())
	require.NoError(t, err)
	assert.Equal(t, alice(), got)

	assert.Equal(t, reservation.Cancelled, pub.changes[len(pub.changes)-1].Kind)

	avail, err := svc.IsAvailable(ctx, 3, d("2024-01-10"), d("2024-01-15"))
	require.NoError(t, err)
	assert.True(t, avail)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	svc, pub, _ := setupService(t)
	pub.err = errors.New("broker down")

	got, err := svc.Reserve(context.Background(), alice())
	require.NoError(t, err)
	assert.Equal(t, alice(), got)
}

func TestIsAvailableValidation(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.IsAvailable(ctx, 12, d("2024-01-10"), d("2024-01-15"))
	assert.ErrorIs(t, err, reservation.ErrInvalidRoom)

	_, err = svc.IsAvailable(ctx, 3, d("2024-01-15"), d("2024-01-10"))
	assert.ErrorIs(t, err, reservation.ErrInvalidDateRange)
}

func TestConcurrentReservesForSameRoom(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Reserve(ctx, alice()); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", reservation.Outcome(nil))
	assert.Equal(t, "not_found", reservation.Outcome(reservation.ErrNotFound))
	assert.Equal(t, "error", reservation.Outcome(errors.New("boom")))
	assert.True(t, reservation.IsClientError(reservation.ErrInvalidRoom))
	assert.False(t, reservation.IsClientError(errors.New("boom")))
}
