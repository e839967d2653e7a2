package events

import (
	"fmt"

	"github.com/hirasawaau/hotel-reservation/internal/config"
	"go.uber.org/zap"
)

// Open returns the publisher selected by cfg.EventsDriver.
func Open(cfg config.Config, log *zap.Logger) (Publisher, error) {
	switch cfg.EventsDriver {
	case config.EventsRabbitMQ:
		p, err := NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, log)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.EventsKafka:
		p, err := NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.EventsNone, "":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.EventsDriver)
	}
}
