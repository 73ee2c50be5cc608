package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/scam-service/pkg/events"
)

const (
	// EventTypeAssessmentCompleted is emitted when a message assessment finishes.
	EventTypeAssessmentCompleted = "scam.assessment.completed"

	// EventTypeHighRiskDetected is emitted when a message lands in the red tier.
	EventTypeHighRiskDetected = "scam.high_risk.detected"

	aggregateType = "MessageAssessment"
)

// AssessmentCompleted is published for every assessed message.
type AssessmentCompleted struct {
	events.BaseEvent
	AssessedAt   time.Time `json:"assessed_at"`
	RiskLevel    string    `json:"risk_level"`
	Method       string    `json:"method"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	RiskScore    int       `json:"risk_score"`
	HasURL       bool      `json:"has_url"`
	HasPhone     bool      `json:"has_phone"`
	Narrative    bool      `json:"narrative"`
}

// NewAssessmentCompleted builds the completion event.
func NewAssessmentCompleted(
	assessmentID uuid.UUID,
	riskScore int,
	riskLevel, method string,
	hasURL, hasPhone, narrative bool,
	assessedAt time.Time,
) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent:    events.NewBaseEvent(EventTypeAssessmentCompleted, assessmentID, aggregateType, assessedAt),
		AssessmentID: assessmentID,
		RiskScore:    riskScore,
		RiskLevel:    riskLevel,
		Method:       method,
		HasURL:       hasURL,
		HasPhone:     hasPhone,
		Narrative:    narrative,
		AssessedAt:   assessedAt,
	}
}

// HighRiskDetected is published when a message is assessed red, so downstream
// consumers can block the URL or report the number.
type HighRiskDetected struct {
	events.BaseEvent
	DetectedAt   time.Time `json:"detected_at"`
	URL          string    `json:"url,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Evidence     []string  `json:"evidence"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	RiskScore    int       `json:"risk_score"`
}

// NewHighRiskDetected builds the high-risk event.
func NewHighRiskDetected(
	assessmentID uuid.UUID,
	riskScore int,
	url, phone string,
	evidence []string,
	detectedAt time.Time,
) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent:    events.NewBaseEvent(EventTypeHighRiskDetected, assessmentID, aggregateType, detectedAt),
		AssessmentID: assessmentID,
		RiskScore:    riskScore,
		URL:          url,
		Phone:        phone,
		Evidence:     evidence,
		DetectedAt:   detectedAt,
	}
}
