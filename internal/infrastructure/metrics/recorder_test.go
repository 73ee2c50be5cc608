package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec, err := NewRecorder(provider.Meter("scam-service"))
	require.NoError(t, err)

	ctx := context.Background()
	rec.AssessmentCompleted(ctx, "red", "rules", 0.4)
	rec.AssessmentCompleted(ctx, "red", "rules", 0.6)
	rec.AssessmentCompleted(ctx, "green", "statistical", 0.2)
	rec.SignalUnavailable(ctx, "url", "timeout")
	rec.NarrativeFallback(ctx)
	rec.NarrativeFallback(ctx)

	data := collect(t, reader)

	assessments, ok := data["scam_assessments_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, assessments.DataPoints, 2)
	var total int64
	for _, dp := range assessments.DataPoints {
		total += dp.Value
		level, _ := dp.Attributes.Value("risk_level")
		if level.AsString() == "red" {
			assert.Equal(t, int64(2), dp.Value)
		}
	}
	assert.Equal(t, int64(3), total)

	unavailable, ok := data["scam_signal_unavailable_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, unavailable.DataPoints, 1)
	reason, _ := unavailable.DataPoints[0].Attributes.Value("reason")
	assert.Equal(t, "timeout", reason.AsString())

	fallback, ok := data["scam_narrative_fallback_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(2), fallback.DataPoints[0].Value)

	duration, ok := data["scam_assessment_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range duration.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}
