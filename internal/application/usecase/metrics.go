package usecase

import (
	"context"

	"github.com/bibbank/scam-service/internal/domain/port"
)

type noopMetrics struct{}

func (noopMetrics) AssessmentCompleted(context.Context, string, string, float64) {}
func (noopMetrics) SignalUnavailable(context.Context, string, string)            {}
func (noopMetrics) NarrativeFallback(context.Context)                            {}

func orNoop(m port.MetricsRecorder) port.MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
