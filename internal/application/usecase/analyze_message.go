package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/scam-service/internal/application/dto"
	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/port"
	"github.com/bibbank/scam-service/internal/domain/service"
)

// Sinks are the optional destinations an assessment is recorded to after the
// verdict is built. A nil sink is skipped.
type Sinks struct {
	Repository port.AssessmentRepository
	Training   port.TrainingRowSink
	Publisher  port.EventPublisher
}

// AnalyzeMessage is the use case that turns one message into a verdict.
type AnalyzeMessage struct {
	extractor *service.EntityExtractor
	collector *SignalCollector
	projector *service.FeatureProjector
	fusion    *service.RiskFusionEngine
	composer  *service.EvidenceComposer
	sinks     Sinks
	metrics   port.MetricsRecorder
	logger    *slog.Logger
}

// NewAnalyzeMessage creates a new AnalyzeMessage use case.
func NewAnalyzeMessage(
	extractor *service.EntityExtractor,
	collector *SignalCollector,
	projector *service.FeatureProjector,
	fusion *service.RiskFusionEngine,
	composer *service.EvidenceComposer,
	sinks Sinks,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
) *AnalyzeMessage {
	return &AnalyzeMessage{
		extractor: extractor,
		collector: collector,
		projector: projector,
		fusion:    fusion,
		composer:  composer,
		sinks:     sinks,
		metrics:   orNoop(metrics),
		logger:    logger,
	}
}

// Execute runs extraction, signal collection, projection, fusion and evidence
// composition, then records the assessment.
func (uc *AnalyzeMessage) Execute(ctx context.Context, req dto.AnalyzeMessageRequest) (dto.AnalysisResponse, error) {
	start := time.Now()

	ctx, span := startSpan(ctx, "AnalyzeMessage")
	defer span.End()

	if strings.TrimSpace(req.Message) == "" {
		return dto.AnalysisResponse{}, ErrEmptyMessage
	}

	// 1. Extract the first URL and phone number.
	parsed := uc.extractor.Extract(req.Message)

	// 2. URL, phone and semantic lookups run concurrently.
	signals := uc.collector.CollectLookups(ctx, parsed)

	// 3. Project the partial signals for the statistical classifier.
	features, err := uc.projector.Project(parsed, signals)
	if err != nil {
		return dto.AnalysisResponse{}, fmt.Errorf("failed to project features: %w", err)
	}

	// 4. Statistical prediction strictly follows the lookups.
	signals.Statistical = uc.collector.CollectStatistical(ctx, features)

	// 5. Fuse and explain.
	risk := uc.fusion.Fuse(signals)
	verdict := uc.composer.Compose(ctx, parsed, signals, risk)
	span.SetAttributes(
		attribute.Int("scam.risk_score", risk.Score),
		attribute.String("scam.risk_level", risk.Level.String()),
		attribute.String("scam.method", string(risk.Method)),
		attribute.Bool("scam.narrative", verdict.Narrative),
	)

	assessment, err := model.NewMessageAssessment(parsed, risk, verdict, features)
	if err != nil {
		return dto.AnalysisResponse{}, fmt.Errorf("failed to create assessment: %w", err)
	}

	// 6. Recording never changes the verdict.
	uc.record(ctx, assessment)

	uc.metrics.AssessmentCompleted(ctx, risk.Level.String(), string(risk.Method), time.Since(start).Seconds())
	uc.logger.Info("message assessed",
		"assessment_id", assessment.ID(),
		"risk_score", risk.Score,
		"risk_level", risk.Level.String(),
		"method", risk.Method,
		"narrative", verdict.Narrative,
	)

	return dto.FromAnalysis(assessment, signals), nil
}

func (uc *AnalyzeMessage) record(ctx context.Context, assessment *model.MessageAssessment) {
	if uc.sinks.Repository != nil {
		if err := uc.sinks.Repository.Save(ctx, assessment); err != nil {
			uc.logger.Warn("failed to save assessment", "assessment_id", assessment.ID(), "error", err)
		}
	}

	if uc.sinks.Training != nil {
		if err := uc.sinks.Training.Append(ctx, assessment); err != nil {
			uc.logger.Warn("failed to append training row", "assessment_id", assessment.ID(), "error", err)
		}
	}

	events := assessment.DomainEvents()
	if uc.sinks.Publisher != nil && len(events) > 0 {
		payload := make([]interface{}, len(events))
		for i, e := range events {
			payload[i] = e
		}
		if err := uc.sinks.Publisher.Publish(ctx, payload...); err != nil {
			uc.logger.Warn("failed to publish events", "assessment_id", assessment.ID(), "error", err)
		}
	}
}
