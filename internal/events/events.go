// Package events publishes reservation changes to a message broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hirasawaau/hotel-reservation/internal/reservation"
)

const (
	EventTypeReservationCreated   = "reservation.created"
	EventTypeReservationUpdated   = "reservation.updated"
	EventTypeReservationCancelled = "reservation.cancelled"

	eventVersion = "1.0.0"
)

type requestIDKey struct{}

// WithRequestID tags ctx so events carry the id of the request that caused them.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Event is the envelope written to the broker.
type Event struct {
	EventID      string  `json:"event_id"`
	EventType    string  `json:"event_type"`
	EventVersion string  `json:"event_version"`
	Timestamp    string  `json:"timestamp"`
	RequestID    string  `json:"request_id,omitempty"`
	Payload      Payload `json:"payload"`
}

type Payload struct {
	Reservation reservation.Reservation  `json:"reservation"`
	Previous    *reservation.Reservation `json:"previous,omitempty"`
}

// NewEvent wraps a committed change in an envelope.
func NewEvent(ctx context.Context, c reservation.Change) Event {
	return Event{
		EventID:      uuid.New().String(),
		EventType:    eventType(c.Kind),
		EventVersion: eventVersion,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		RequestID:    RequestID(ctx),
		Payload:      Payload{Reservation: c.Reservation, Previous: c.Previous},
	}
}

func eventType(k reservation.ChangeKind) string {
	switch k {
	case reservation.Created:
		return EventTypeReservationCreated
	case reservation.Updated:
		return EventTypeReservationUpdated
	default:
		return EventTypeReservationCancelled
	}
}

func (e Event) Marshal() ([]byte, error) { return json.Marshal(e) }

// Publisher is a reservation.Publisher that owns a broker connection.
type Publisher interface {
	reservation.Publisher
	IsHealthy() bool
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, reservation.Change) error { return nil }
func (Nop) IsHealthy() bool                                  { return true }
func (Nop) Close() error                                     { return nil }
