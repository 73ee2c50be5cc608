package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/scam-service/internal/domain/event"
	"github.com/bibbank/scam-service/internal/domain/valueobject"
	"github.com/bibbank/scam-service/pkg/events"
)

// MessageAssessment is the aggregate root recording one analysed message and
// its verdict.
type MessageAssessment struct {
	events.EventCollector
	createdAt time.Time
	riskLevel valueobject.RiskLevel
	content   string
	url       string
	phone     string
	method    FusionMethod
	action    Action
	evidence  []string
	features  FeatureVector
	riskScore int
	narrative bool
	id        uuid.UUID
}

// NewMessageAssessment records a verdict for a parsed message and emits the
// completion event, plus a high-risk event for the red tier.
func NewMessageAssessment(
	parsed ParsedMessage,
	risk RiskAssessment,
	verdict RiskVerdict,
	features FeatureVector,
) (*MessageAssessment, error) {
	if parsed.Content == "" {
		return nil, fmt.Errorf("message content is required")
	}
	if risk.Score < 0 || risk.Score > 99 {
		return nil, fmt.Errorf("risk score must be between 0 and 99, got %d", risk.Score)
	}
	if !risk.Level.Equal(valueobject.RiskLevelFromScore(risk.Score)) {
		return nil, fmt.Errorf("risk level %s does not match score %d", risk.Level, risk.Score)
	}
	if verdict.RiskScore != risk.Score || !verdict.RiskLevel.Equal(risk.Level) {
		return nil, fmt.Errorf("verdict %d/%s diverges from fused risk %d/%s",
			verdict.RiskScore, verdict.RiskLevel, risk.Score, risk.Level)
	}
	if features.IsZero() {
		return nil, fmt.Errorf("feature vector is required")
	}

	now := time.Now().UTC()
	a := &MessageAssessment{
		id:        uuid.New(),
		content:   parsed.Content,
		url:       parsed.URL,
		phone:     parsed.Phone,
		riskScore: risk.Score,
		riskLevel: risk.Level,
		method:    risk.Method,
		evidence:  verdict.Evidence,
		action:    verdict.Action,
		narrative: verdict.Narrative,
		features:  features,
		createdAt: now,
	}

	a.Record(event.NewAssessmentCompleted(
		a.id, a.riskScore, a.riskLevel.String(), string(a.method),
		parsed.HasURL(), parsed.HasPhone(), a.narrative, now,
	))
	if a.riskLevel.Equal(valueobject.RiskLevelRed) {
		a.Record(event.NewHighRiskDetected(a.id, a.riskScore, a.url, a.phone, a.evidence, now))
	}

	return a, nil
}

// ReconstructAssessment rebuilds a MessageAssessment from persisted data (no validation, no events).
func ReconstructAssessment(
	id uuid.UUID,
	content, url, phone string,
	riskScore int,
	riskLevel valueobject.RiskLevel,
	method FusionMethod,
	evidence []string,
	action Action,
	narrative bool,
	features FeatureVector,
	createdAt time.Time,
) *MessageAssessment {
	return &MessageAssessment{
		id:        id,
		content:   content,
		url:       url,
		phone:     phone,
		riskScore: riskScore,
		riskLevel: riskLevel,
		method:    method,
		evidence:  evidence,
		action:    action,
		narrative: narrative,
		features:  features,
		createdAt: createdAt,
	}
}

// --- Accessors ---

func (a *MessageAssessment) ID() uuid.UUID                    { return a.id }
func (a *MessageAssessment) Content() string                  { return a.content }
func (a *MessageAssessment) URL() string                      { return a.url }
func (a *MessageAssessment) Phone() string                    { return a.phone }
func (a *MessageAssessment) RiskScore() int                   { return a.riskScore }
func (a *MessageAssessment) RiskLevel() valueobject.RiskLevel { return a.riskLevel }
func (a *MessageAssessment) Method() FusionMethod             { return a.method }
func (a *MessageAssessment) Evidence() []string               { return a.evidence }
func (a *MessageAssessment) Action() Action                   { return a.action }
func (a *MessageAssessment) Narrative() bool                  { return a.narrative }
func (a *MessageAssessment) Features() FeatureVector          { return a.features }
func (a *MessageAssessment) CreatedAt() time.Time             { return a.createdAt }

// Verdict returns the user-facing verdict recorded by this assessment.
func (a *MessageAssessment) Verdict() RiskVerdict {
	return RiskVerdict{
		RiskScore: a.riskScore,
		RiskLevel: a.riskLevel,
		Evidence:  a.evidence,
		Action:    a.action,
		Narrative: a.narrative,
	}
}

// DomainEvents returns all accumulated domain events and clears them.
func (a *MessageAssessment) DomainEvents() []events.DomainEvent {
	return a.Drain()
}
