package events

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is stamped on every event envelope. Bump it when a payload
// changes incompatibly.
const SchemaVersion = 1

// Metadata identifies an event and the aggregate that raised it.
type Metadata struct {
	OccurredAt    time.Time `json:"occurred_at"`
	Type          string    `json:"event_type"`
	AggregateType string    `json:"aggregate_type"`
	ID            uuid.UUID `json:"event_id"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	SchemaVersion int       `json:"schema_version"`
}

// DomainEvent is anything an aggregate records for publication.
type DomainEvent interface {
	Meta() Metadata
}

// BaseEvent is embedded by concrete events. Its metadata stays out of the
// event's own JSON so publishers can frame it separately.
type BaseEvent struct {
	meta Metadata
}

// NewBaseEvent stamps a fresh event ID and normalizes occurredAt to UTC.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, occurredAt time.Time) BaseEvent {
	return BaseEvent{meta: Metadata{
		ID:            uuid.New(),
		Type:          eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		OccurredAt:    occurredAt.UTC(),
		SchemaVersion: SchemaVersion,
	}}
}

func (e BaseEvent) Meta() Metadata { return e.meta }
