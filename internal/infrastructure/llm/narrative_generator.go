package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bibbank/scam-service/internal/domain/port"
)

// Compile-time interface check.
var _ port.NarrativeGenerator = (*NarrativeGenerator)(nil)

const narrativeSystemPrompt = `You explain scam-risk verdicts to ordinary people.
You receive a JSON summary of the signals gathered for a message and the final risk score and level.
Do not change the score or the level. Reply with one JSON object:
  "riskScore": the given risk_score
  "riskLevel": the given risk_level
  "evidence": 1 to 8 short sentences, each citing one signal from the summary
  "action": {"title": short headline, "suggestions": 3 to 5 concrete steps}
Only cite signals that are present and available. Write in the language of the message.`

// NarrativeGenerator asks a language model to phrase a verdict's evidence and
// action. The returned text is validated by the caller.
type NarrativeGenerator struct {
	completer Completer
}

// NewNarrativeGenerator creates a NarrativeGenerator backed by completer.
func NewNarrativeGenerator(completer Completer) *NarrativeGenerator {
	return &NarrativeGenerator{completer: completer}
}

// Generate returns the raw JSON document produced for summary.
func (g *NarrativeGenerator) Generate(ctx context.Context, summary port.NarrativeSummary) (string, error) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshal narrative summary: %w", err)
	}
	out, err := g.completer.CompleteJSON(ctx, narrativeSystemPrompt, string(payload))
	if err != nil {
		return "", fmt.Errorf("narrative generation: %w", err)
	}
	return out, nil
}
