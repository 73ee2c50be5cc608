package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bibbank/scam-service/internal/domain/port"
	"github.com/bibbank/scam-service/pkg/events"
	pkgkafka "github.com/bibbank/scam-service/pkg/kafka"
)

// Compile-time interface check.
var _ port.EventPublisher = (*Publisher)(nil)

// Producer is the subset of pkg/kafka.Producer the publisher uses.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

var _ Producer = (*pkgkafka.Producer)(nil)

// Publisher implements port.EventPublisher using Kafka.
type Publisher struct {
	producer Producer
	logger   *slog.Logger
	topic    string
}

// NewPublisher creates a new Kafka event publisher.
func NewPublisher(producer Producer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// envelope frames the event body with its metadata.
type envelope struct {
	events.Metadata
	Payload json.RawMessage `json:"payload"`
}

// Publish sends domain events to Kafka, keyed by aggregate ID so events for
// one assessment stay ordered on a partition.
func (p *Publisher) Publish(ctx context.Context, domainEvents ...interface{}) error {
	messages := make([]pkgkafka.Message, 0, len(domainEvents))
	for _, raw := range domainEvents {
		evt, ok := raw.(events.DomainEvent)
		if !ok {
			return fmt.Errorf("unsupported event type %T", raw)
		}
		meta := evt.Meta()
		eventType := meta.Type

		body, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
		}
		payload, err := json.Marshal(envelope{Metadata: meta, Payload: body})
		if err != nil {
			return fmt.Errorf("failed to marshal envelope for %s: %w", eventType, err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", eventType),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(payload)),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(meta.AggregateID.String()),
			Value: payload,
			Headers: map[string]string{
				"event_type": eventType,
				"event_id":   meta.ID.String(),
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}

	return nil
}
