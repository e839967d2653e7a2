package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hirasawaau/hotel-reservation/internal/reservation"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher writes events to one topic, keyed by room so changes to a
// room stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            maxRetries,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}
	log.Info("Kafka publisher ready", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return &KafkaPublisher{writer: w, log: log}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, c reservation.Change) error {
	event := NewEvent(ctx, c)
	body, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(c.Reservation.RoomID)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_version", Value: []byte(event.EventVersion)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	p.log.Debug("Event published",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
	)
	return nil
}

func (p *KafkaPublisher) IsHealthy() bool { return true }

func (p *KafkaPublisher) Close() error { return p.writer.Close() }
