package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/bibbank/scam-service/internal/domain/model"
)

// AssessmentRepository defines the persistence port for message assessments.
type AssessmentRepository interface {
	// Save persists a new assessment.
	Save(ctx context.Context, assessment *model.MessageAssessment) error

	// FindByID retrieves an assessment by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*model.MessageAssessment, error)
}

// TrainingRowSink appends assessments as labelled training rows.
type TrainingRowSink interface {
	Append(ctx context.Context, assessment *model.MessageAssessment) error
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...interface{}) error
}

// MetricsRecorder receives operational measurements from the pipeline.
type MetricsRecorder interface {
	AssessmentCompleted(ctx context.Context, level, method string, seconds float64)
	SignalUnavailable(ctx context.Context, signal, reason string)
	NarrativeFallback(ctx context.Context)
}
