package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ChangeKind names what happened to a reservation.
type ChangeKind string

const (
	Created   ChangeKind = "created"
	Updated   ChangeKind = "updated"
	Cancelled ChangeKind = "cancelled"
)

// Change describes a committed write. Previous is set for updates.
type Change struct {
	Kind        ChangeKind
	Reservation Reservation
	Previous    *Reservation
}

// Publisher fans committed changes out to other systems.
type Publisher interface {
	Publish(ctx context.Context, c Change) error
}

// Recorder counts operation outcomes.
type Recorder interface {
	RecordOperation(operation, outcome string)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Change) error { return nil }

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, string) {}

// Service implements the reservation operations on top of a Store.
type Service struct {
	store          Store
	publisher      Publisher
	recorder       Recorder
	log            *zap.Logger
	publishTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithPublishTimeout bounds how long a write waits on its event.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// NewService wires a store into the reservation operations.
func NewService(store Store, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:          store,
		publisher:      nopPublisher{},
		recorder:       nopRecorder{},
		log:            log,
		publishTimeout: 5 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ByName returns every reservation held under name.
func (s *Service) ByName(ctx context.Context, name string) ([]Reservation, error) {
	out, err := s.store.FindByName(ctx, name)
	s.recorder.RecordOperation("by_name", Outcome(err))
	if err != nil {
		s.log.Error("Failed to query reservations by name", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return nonNil(out), nil
}

// ByRoom returns every reservation on roomID.
func (s *Service) ByRoom(ctx context.Context, roomID int) ([]Reservation, error) {
	if !ValidRoom(roomID) {
		s.recorder.RecordOperation("by_room", Outcome(ErrInvalidRoom))
		return nil, ErrInvalidRoom
	}
	out, err := s.store.FindByRoom(ctx, roomID)
	s.recorder.RecordOperation("by_room", Outcome(err))
	if err != nil {
		s.log.Error("Failed to query reservations by room", zap.Int("room_id", roomID), zap.Error(err))
		return nil, err
	}
	return nonNil(out), nil
}

// IsAvailable reports whether roomID is free for [start, end].
func (s *Service) IsAvailable(ctx context.Context, roomID int, start, end Date) (bool, error) {
	if !ValidRoom(roomID) {
		return false, ErrInvalidRoom
	}
	if start.IsZero() || end.IsZero() {
		return false, ErrInvalidRequest
	}
	if err := CheckRange(start, end); err != nil {
		return false, err
	}
	return s.store.IsAvailable(ctx, roomID, start, end)
}

// Reserve validates r and stores it if the room is free for its range.
// The returned value is r itself.
func (s *Service) Reserve(ctx context.Context, r Reservation) (Reservation, error) {
	if err := r.Validate(); err != nil {
		s.recorder.RecordOperation("create", Outcome(err))
		return Reservation{}, err
	}
	err := s.store.Reserve(ctx, r)
	s.recorder.RecordOperation("create", Outcome(err))
	if err != nil {
		s.logFailure("create", r, err)
		return Reservation{}, err
	}
	s.log.Info("Reservation created",
		zap.String("name", r.Name),
		zap.Int("room_id", r.RoomID),
		zap.Stringer("start_date", r.StartDate),
		zap.Stringer("end_date", r.EndDate),
	)
	s.publish(ctx, Change{Kind: Created, Reservation: r})
	return r, nil
}

// Update moves the reservation equal to match onto [start, end].
// The availability check does not exclude match, so a new range that
// overlaps the reservation's own current range is rejected.
func (s *Service) Update(ctx context.Context, match Reservation, start, end Date) (Reservation, error) {
	if err := match.checkFields(); err != nil {
		s.recorder.RecordOperation("update", Outcome(err))
		return Reservation{}, err
	}
	if start.IsZero() || end.IsZero() {
		err := fmt.Errorf("%w: new_start_date and new_end_date are required", ErrInvalidRequest)
		s.recorder.RecordOperation("update", Outcome(err))
		return Reservation{}, err
	}
	if err := CheckRange(start, end); err != nil {
		s.recorder.RecordOperation("update", Outcome(err))
		return Reservation{}, err
	}
	updated, err := s.store.Reschedule(ctx, match, start, end)
	s.recorder.RecordOperation("update", Outcome(err))
	if err != nil {
		s.logFailure("update", match, err)
		return Reservation{}, err
	}
	s.log.Info("Reservation updated",
		zap.String("name", updated.Name),
		zap.Int("room_id", updated.RoomID),
		zap.Stringer("start_date", updated.StartDate),
		zap.Stringer("end_date", updated.EndDate),
	)
	prev := match
	s.publish(ctx, Change{Kind: Updated, Reservation: updated, Previous: &prev})
	return updated, nil
}

// Cancel removes the reservation equal to match and returns it.
func (s *Service) Cancel(ctx context.Context, match Reservation) (Reservation, error) {
	if err := match.checkFields(); err != nil {
		s.recorder.RecordOperation("cancel", Outcome(err))
		return Reservation{}, err
	}
	removed, err := s.store.Cancel(ctx, match)
	s.recorder.RecordOperation("cancel", Outcome(err))
	if err != nil {
		s.logFailure("cancel", match, err)
		return Reservation{}, err
	}
	s.log.Info("Reservation cancelled",
		zap.String("name", removed.Name),
		zap.Int("room_id", removed.RoomID),
	)
	s.publish(ctx, Change{Kind: Cancelled, Reservation: removed})
	return removed, nil
}

// Ping checks the store connection.
func (s *Service) Ping(ctx context.Context) error { return s.store.Ping(ctx) }

func (s *Service) publish(ctx context.Context, c Change) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pctx, c); err != nil {
		s.log.Error("Failed to publish reservation event",
			zap.String("kind", string(c.Kind)),
			zap.String("name", c.Reservation.Name),
			zap.Int("room_id", c.Reservation.RoomID),
			zap.Error(err),
		)
	}
}

func (s *Service) logFailure(op string, r Reservation, err error) {
	if IsClientError(err) {
		s.log.Debug("Reservation rejected", zap.String("operation", op), zap.Stringer("reservation", r), zap.Error(err))
		return
	}
	s.log.Error("Reservation store failure", zap.String("operation", op), zap.Stringer("reservation", r), zap.Error(err))
}

// IsClientError reports whether err is caused by the request rather than the store.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidRoom) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrRoomUnavailable) ||
		errors.Is(err, ErrNotFound)
}

// Outcome turns an operation result into a metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrInvalidRoom):
		return "invalid_room"
	case errors.Is(err, ErrInvalidDateRange):
		return "invalid_date_range"
	case errors.Is(err, ErrRoomUnavailable):
		return "room_unavailable"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func nonNil(rs []Reservation) []Reservation {
	if rs == nil {
		return []Reservation{}
	}
	return rs
}
