package port

import (
	"context"

	"github.com/bibbank/scam-service/internal/domain/model"
)

// URLReputationProvider looks up the reputation of a single URL.
type URLReputationProvider interface {
	CheckURL(ctx context.Context, url string) (*model.URLSignal, error)
}

// PhoneReputationProvider looks up the validity and line type of a normalised phone number.
type PhoneReputationProvider interface {
	LookupPhone(ctx context.Context, phone string) (*model.PhoneSignal, error)
}

// SemanticClassifier judges the whole message content with a language model.
type SemanticClassifier interface {
	Classify(ctx context.Context, content string) (*model.SemanticSignal, error)
}

// StatisticalClassifier scores a projected feature vector with a trained model.
type StatisticalClassifier interface {
	Predict(ctx context.Context, features model.FeatureVector) (*model.StatisticalSignal, error)
}

// NarrativeGenerator turns a signal summary into a JSON document with prose
// evidence and an action. The output is untrusted and must be validated.
type NarrativeGenerator interface {
	Generate(ctx context.Context, summary NarrativeSummary) (string, error)
}

// TextExtractor recovers text from an image.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// NarrativeSummary is the structured input handed to a NarrativeGenerator.
type NarrativeSummary struct {
	URL         *model.URLSignal         `json:"url,omitempty"`
	Phone       *model.PhoneSignal       `json:"phone,omitempty"`
	Semantic    *model.SemanticSignal    `json:"semantic,omitempty"`
	Statistical *model.StatisticalSignal `json:"statistical,omitempty"`
	Content     string                   `json:"content"`
	ParsedURL   string                   `json:"parsed_url,omitempty"`
	ParsedPhone string                   `json:"parsed_phone,omitempty"`
	RiskLevel   string                   `json:"risk_level"`
	Method      string                   `json:"method"`
	RiskScore   int                      `json:"risk_score"`
}
