package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/scam-service/internal/domain/model"
)

// AnalyzeMessageRequest is the input DTO for the AnalyzeMessage use case.
type AnalyzeMessageRequest struct {
	Message string `json:"message"`
}

// AnalyzeImageRequest is the input DTO for the AnalyzeImage use case.
type AnalyzeImageRequest struct {
	Filename string `json:"filename"`
	Image    []byte `json:"-"`
}

// ActionDTO is the recommendation attached to a verdict.
type ActionDTO struct {
	Title       string   `json:"title"`
	Suggestions []string `json:"suggestions"`
}

// AnalysisResponse is the verdict returned for an analysed message.
type AnalysisResponse struct {
	Action       ActionDTO            `json:"action"`
	RiskLevel    string               `json:"riskLevel"`
	Method       string               `json:"method"`
	URL          string               `json:"url,omitempty"`
	Phone        string               `json:"phone,omitempty"`
	Evidence     []string             `json:"evidence"`
	Signals      []model.SignalStatus `json:"signals"`
	RiskScore    int                  `json:"riskScore"`
	AssessmentID uuid.UUID            `json:"assessmentId"`
	Narrative    bool                 `json:"narrative"`
}

// ImageAnalysisResponse carries the text recovered from an image and its verdict.
type ImageAnalysisResponse struct {
	Text string `json:"text"`
	AnalysisResponse
}

// GetAssessmentRequest is the input DTO for retrieving an assessment.
type GetAssessmentRequest struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// AssessmentResponse is a stored assessment.
type AssessmentResponse struct {
	CreatedAt time.Time          `json:"createdAt"`
	Features  map[string]float64 `json:"features"`
	Action    ActionDTO          `json:"action"`
	Content   string             `json:"content"`
	URL       string             `json:"url,omitempty"`
	Phone     string             `json:"phone,omitempty"`
	RiskLevel string             `json:"riskLevel"`
	Method    string             `json:"method"`
	Evidence  []string           `json:"evidence"`
	RiskScore int                `json:"riskScore"`
	ID        uuid.UUID          `json:"id"`
	Narrative bool               `json:"narrative"`
}

func actionFromModel(a model.Action) ActionDTO {
	suggestions := a.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return ActionDTO{Title: a.Title, Suggestions: suggestions}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// FromAnalysis maps a fresh assessment and the signals behind it to the response DTO.
func FromAnalysis(a *model.MessageAssessment, signals model.SignalBundle) AnalysisResponse {
	return AnalysisResponse{
		AssessmentID: a.ID(),
		RiskScore:    a.RiskScore(),
		RiskLevel:    a.RiskLevel().String(),
		Evidence:     nonNil(a.Evidence()),
		Action:       actionFromModel(a.Action()),
		Method:       string(a.Method()),
		Narrative:    a.Narrative(),
		URL:          a.URL(),
		Phone:        a.Phone(),
		Signals:      signals.Statuses(),
	}
}

// FromModel maps a stored assessment to the response DTO.
func FromModel(a *model.MessageAssessment) AssessmentResponse {
	return AssessmentResponse{
		ID:        a.ID(),
		Content:   a.Content(),
		URL:       a.URL(),
		Phone:     a.Phone(),
		RiskScore: a.RiskScore(),
		RiskLevel: a.RiskLevel().String(),
		Method:    string(a.Method()),
		Evidence:  nonNil(a.Evidence()),
		Action:    actionFromModel(a.Action()),
		Narrative: a.Narrative(),
		Features:  a.Features().Map(),
		CreatedAt: a.CreatedAt(),
	}
}
