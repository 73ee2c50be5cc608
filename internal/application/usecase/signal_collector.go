package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/port"
)

// Signal names used in logs and metrics.
const (
	SignalURL         = "url"
	SignalPhone       = "phone"
	SignalSemantic    = "semantic"
	SignalStatistical = "statistical"
)

// Providers holds the capability providers consulted for each message.
// A nil provider is reported as an unavailable signal.
type Providers struct {
	URL         port.URLReputationProvider
	Phone       port.PhoneReputationProvider
	Semantic    port.SemanticClassifier
	Statistical port.StatisticalClassifier
}

// SignalCollector fans out to the capability providers and joins their
// results. Provider errors and panics never escape; they become unavailable
// signals and never cancel sibling lookups.
type SignalCollector struct {
	providers Providers
	metrics   port.MetricsRecorder
	logger    *slog.Logger
}

// NewSignalCollector creates a new SignalCollector.
func NewSignalCollector(providers Providers, metrics port.MetricsRecorder, logger *slog.Logger) *SignalCollector {
	return &SignalCollector{
		providers: providers,
		metrics:   orNoop(metrics),
		logger:    logger,
	}
}

// CollectLookups runs the URL, phone and semantic lookups concurrently. The
// URL and phone lookups are issued only when the entity was extracted.
// The returned bundle has no statistical signal yet.
func (c *SignalCollector) CollectLookups(ctx context.Context, parsed model.ParsedMessage) model.SignalBundle {
	var (
		bundle model.SignalBundle
		g      errgroup.Group
	)

	if parsed.HasURL() {
		g.Go(func() error {
			bundle.URL = collect(ctx, c, SignalURL, c.providers.URL != nil,
				func(ctx context.Context) (*model.URLSignal, error) {
					return c.providers.URL.CheckURL(ctx, parsed.URL)
				},
				model.UnavailableURLSignal)
			return nil
		})
	}

	if parsed.HasPhone() {
		g.Go(func() error {
			bundle.Phone = collect(ctx, c, SignalPhone, c.providers.Phone != nil,
				func(ctx context.Context) (*model.PhoneSignal, error) {
					return c.providers.Phone.LookupPhone(ctx, parsed.Phone)
				},
				model.UnavailablePhoneSignal)
			return nil
		})
	}

	g.Go(func() error {
		bundle.Semantic = collect(ctx, c, SignalSemantic, c.providers.Semantic != nil,
			func(ctx context.Context) (*model.SemanticSignal, error) {
				return c.providers.Semantic.Classify(ctx, parsed.Content)
			},
			model.UnavailableSemanticSignal)
		return nil
	})

	// Every task returns nil, so Wait only joins.
	_ = g.Wait()
	return bundle
}

// CollectStatistical calls the statistical classifier with a projected vector.
func (c *SignalCollector) CollectStatistical(ctx context.Context, features model.FeatureVector) *model.StatisticalSignal {
	return collect(ctx, c, SignalStatistical, c.providers.Statistical != nil,
		func(ctx context.Context) (*model.StatisticalSignal, error) {
			return c.providers.Statistical.Predict(ctx, features)
		},
		model.UnavailableStatisticalSignal)
}

// Configured reports which providers are wired, keyed by signal name.
func (c *SignalCollector) Configured() map[string]bool {
	return map[string]bool{
		SignalURL:         c.providers.URL != nil,
		SignalPhone:       c.providers.Phone != nil,
		SignalSemantic:    c.providers.Semantic != nil,
		SignalStatistical: c.providers.Statistical != nil,
	}
}

// collect runs one provider call and converts every failure mode into an
// unavailable signal.
func collect[S any](
	ctx context.Context,
	c *SignalCollector,
	name string,
	configured bool,
	call func(context.Context) (*S, error),
	unavailable func(reason string) *S,
) (sig *S) {
	ctx, span := startSpan(ctx, "signal."+name)
	defer span.End()

	if !configured {
		span.SetAttributes(attribute.String("scam.signal.reason", model.ReasonNotConfigured))
		c.metrics.SignalUnavailable(ctx, name, model.ReasonNotConfigured)
		return unavailable(model.ReasonNotConfigured)
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("signal provider panicked", "signal", name, "panic", fmt.Sprint(r))
			c.metrics.SignalUnavailable(ctx, name, model.ReasonPanic)
			span.SetStatus(otelcodes.Error, "provider panicked")
			sig = unavailable(model.ReasonPanic)
		}
	}()

	result, err := call(ctx)
	if err == nil && result == nil {
		err = errors.New("provider returned no result")
	}
	if err != nil {
		reason := failureReason(err)
		c.logger.Warn("signal unavailable", "signal", name, "reason", reason, "error", err)
		c.metrics.SignalUnavailable(ctx, name, reason)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, reason)
		return unavailable(reason)
	}
	return result
}

func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.ReasonTimeout
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return model.ReasonTimeout
	}
	return model.ReasonCallFailed
}
