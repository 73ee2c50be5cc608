package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/bibbank/scam-service/internal/application/usecase"
	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/port"
	"github.com/bibbank/scam-service/internal/domain/service"
)

// --- Mock implementations ---

type mockURLProvider struct {
	checkFunc func(ctx context.Context, url string) (*model.URLSignal, error)
	mu        sync.Mutex
	calls     []string
}

func (m *mockURLProvider) CheckURL(ctx context.Context, url string) (*model.URLSignal, error) {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()
	return m.checkFunc(ctx, url)
}

type mockPhoneProvider struct {
	lookupFunc func(ctx context.Context, phone string) (*model.PhoneSignal, error)
	mu         sync.Mutex
	calls      []string
}

func (m *mockPhoneProvider) LookupPhone(ctx context.Context, phone string) (*model.PhoneSignal, error) {
	m.mu.Lock()
	m.calls = append(m.calls, phone)
	m.mu.Unlock()
	return m.lookupFunc(ctx, phone)
}

type mockSemanticClassifier struct {
	classifyFunc func(ctx context.Context, content string) (*model.SemanticSignal, error)
}

func (m *mockSemanticClassifier) Classify(ctx context.Context, content string) (*model.SemanticSignal, error) {
	return m.classifyFunc(ctx, content)
}

type mockStatisticalClassifier struct {
	predictFunc func(ctx context.Context, features model.FeatureVector) (*model.StatisticalSignal, error)
	received    model.FeatureVector
}

func (m *mockStatisticalClassifier) Predict(ctx context.Context, features model.FeatureVector) (*model.StatisticalSignal, error) {
	m.received = features
	return m.predictFunc(ctx, features)
}

type mockAssessmentRepository struct {
	savedAssessment *model.MessageAssessment
	saveFunc        func(ctx context.Context, assessment *model.MessageAssessment) error
	findByIDFunc    func(ctx context.Context, id uuid.UUID) (*model.MessageAssessment, error)
}

func (m *mockAssessmentRepository) Save(ctx context.Context, assessment *model.MessageAssessment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, assessment)
	}
	m.savedAssessment = assessment
	return nil
}

func (m *mockAssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MessageAssessment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

type mockTrainingSink struct {
	appendFunc func(ctx context.Context, assessment *model.MessageAssessment) error
	rows       int
}

func (m *mockTrainingSink) Append(ctx context.Context, assessment *model.MessageAssessment) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, assessment)
	}
	m.rows++
	return nil
}

type mockEventPublisher struct {
	publishedEvents []interface{}
	publishFunc     func(ctx context.Context, events ...interface{}) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...interface{}) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockTextExtractor struct {
	extractFunc func(ctx context.Context, image []byte) (string, error)
}

func (m *mockTextExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	return m.extractFunc(ctx, image)
}

type mockNarrator struct {
	err    error
	output string
}

func (m *mockNarrator) Generate(context.Context, port.NarrativeSummary) (string, error) {
	return m.output, m.err
}

type recordedUnavailable struct {
	signal string
	reason string
}

type mockMetrics struct {
	mu          sync.Mutex
	unavailable []recordedUnavailable
	completed   []string
	fallbacks   int
}

func (m *mockMetrics) AssessmentCompleted(_ context.Context, level, method string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, level+"/"+method)
}

func (m *mockMetrics) SignalUnavailable(_ context.Context, signal, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = append(m.unavailable, recordedUnavailable{signal: signal, reason: reason})
}

func (m *mockMetrics) NarrativeFallback(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks++
}

var _ port.MetricsRecorder = (*mockMetrics)(nil)

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type pipeline struct {
	analyze   *usecase.AnalyzeMessage
	collector *usecase.SignalCollector
	repo      *mockAssessmentRepository
	sink      *mockTrainingSink
	publisher *mockEventPublisher
	metrics   *mockMetrics
}

func newPipeline(providers usecase.Providers, narrator port.NarrativeGenerator) *pipeline {
	logger := testLogger()
	p := &pipeline{
		repo:      &mockAssessmentRepository{},
		sink:      &mockTrainingSink{},
		publisher: &mockEventPublisher{},
		metrics:   &mockMetrics{},
	}
	p.collector = usecase.NewSignalCollector(providers, p.metrics, logger)
	p.analyze = usecase.NewAnalyzeMessage(
		service.NewEntityExtractor(),
		p.collector,
		service.NewFeatureProjector(),
		service.NewRiskFusionEngine(logger),
		service.NewEvidenceComposer(narrator, p.metrics, logger),
		usecase.Sinks{Repository: p.repo, Training: p.sink, Publisher: p.publisher},
		p.metrics,
		logger,
	)
	return p
}
