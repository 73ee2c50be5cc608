package model

import "github.com/bibbank/scam-service/internal/domain/valueobject"

// MaxEvidence caps the number of evidence lines in a verdict.
const MaxEvidence = 8

// Suggestion count bounds for an action.
const (
	MinSuggestions = 3
	MaxSuggestions = 5
)

// FusionMethod names the branch of the fusion engine that produced a score.
type FusionMethod string

const (
	FusionMethodStatistical FusionMethod = "statistical"
	FusionMethodRules       FusionMethod = "rules"
)

// RiskAssessment is the fused score and the tier derived from it.
type RiskAssessment struct {
	Level  valueobject.RiskLevel
	Method FusionMethod
	Score  int
}

// Action is the recommendation shown alongside a verdict.
type Action struct {
	Title       string   `json:"title"`
	Suggestions []string `json:"suggestions"`
}

// RiskVerdict is the user-facing outcome for one message.
type RiskVerdict struct {
	RiskLevel valueobject.RiskLevel
	Action    Action
	Evidence  []string
	RiskScore int
	// Narrative is true when evidence and action came from the narrative generator.
	Narrative bool
}
