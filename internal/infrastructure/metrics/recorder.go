package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/scam-service/internal/domain/port"
)

// Compile-time interface check.
var _ port.MetricsRecorder = (*Recorder)(nil)

// Recorder owns the service's OpenTelemetry instruments.
type Recorder struct {
	assessments       metric.Int64Counter
	signalUnavailable metric.Int64Counter
	narrativeFallback metric.Int64Counter
	duration          metric.Float64Histogram
}

// NewRecorder creates the instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	assessments, err := meter.Int64Counter("scam_assessments_total",
		metric.WithDescription("Messages assessed, by risk level and fusion method."))
	if err != nil {
		return nil, fmt.Errorf("creating assessments counter: %w", err)
	}
	unavailable, err := meter.Int64Counter("scam_signal_unavailable_total",
		metric.WithDescription("Signals that could not contribute to a verdict, by signal and reason."))
	if err != nil {
		return nil, fmt.Errorf("creating signal unavailable counter: %w", err)
	}
	fallback, err := meter.Int64Counter("scam_narrative_fallback_total",
		metric.WithDescription("Verdicts explained with templates after the narrative generator failed."))
	if err != nil {
		return nil, fmt.Errorf("creating narrative fallback counter: %w", err)
	}
	duration, err := meter.Float64Histogram("scam_assessment_duration_seconds",
		metric.WithDescription("End-to-end message assessment latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20))
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &Recorder{
		assessments:       assessments,
		signalUnavailable: unavailable,
		narrativeFallback: fallback,
		duration:          duration,
	}, nil
}

// AssessmentCompleted records one finished assessment and its latency.
func (r *Recorder) AssessmentCompleted(ctx context.Context, level, method string, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("risk_level", level),
		attribute.String("method", method),
	)
	r.assessments.Add(ctx, 1, attrs)
	r.duration.Record(ctx, seconds, attrs)
}

// SignalUnavailable records a signal that was treated as no evidence.
func (r *Recorder) SignalUnavailable(ctx context.Context, signal, reason string) {
	r.signalUnavailable.Add(ctx, 1, metric.WithAttributes(
		attribute.String("signal", signal),
		attribute.String("reason", reason),
	))
}

// NarrativeFallback records a template fallback.
func (r *Recorder) NarrativeFallback(ctx context.Context) {
	r.narrativeFallback.Add(ctx, 1)
}
