package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/port"
	"github.com/bibbank/scam-service/internal/domain/valueobject"
)

// AntiFraudHotline is the number recommended for reporting and verification.
const AntiFraudHotline = "165"

// narrativeDocument is the JSON shape requested from the narrative generator.
type narrativeDocument struct {
	RiskScore *int            `json:"riskScore" validate:"required,min=0,max=99"`
	RiskLevel string          `json:"riskLevel" validate:"required,oneof=green yellow red"`
	Action    narrativeAction `json:"action"`
	Evidence  []string        `json:"evidence" validate:"required,min=1,max=8,dive,nonblank"`
}

type narrativeAction struct {
	Title       string   `json:"title" validate:"nonblank"`
	Suggestions []string `json:"suggestions" validate:"required,min=3,max=5,dive,nonblank"`
}

// NewNarrativeValidator returns a validator with the nonblank rule registered.
func NewNarrativeValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// EvidenceComposer explains a fused score. It asks the narrative generator
// for prose when one is configured and falls back to fixed templates when the
// generator is absent, fails, or returns an invalid document.
type EvidenceComposer struct {
	narrator port.NarrativeGenerator
	metrics  port.MetricsRecorder
	validate *validator.Validate
	logger   *slog.Logger
}

// NewEvidenceComposer creates an EvidenceComposer. narrator and metrics may be nil.
func NewEvidenceComposer(narrator port.NarrativeGenerator, metrics port.MetricsRecorder, logger *slog.Logger) *EvidenceComposer {
	return &EvidenceComposer{
		narrator: narrator,
		metrics:  metrics,
		validate: NewNarrativeValidator(),
		logger:   logger,
	}
}

// Compose never fails. The returned score and level are always the fused ones.
func (c *EvidenceComposer) Compose(
	ctx context.Context,
	parsed model.ParsedMessage,
	signals model.SignalBundle,
	risk model.RiskAssessment,
) model.RiskVerdict {
	if c.narrator != nil {
		verdict, err := c.narrate(ctx, parsed, signals, risk)
		if err == nil {
			return verdict
		}
		c.logger.Warn("narrative generation failed, using template evidence", "error", err)
		if c.metrics != nil {
			c.metrics.NarrativeFallback(ctx)
		}
	}
	return TemplateVerdict(signals, risk)
}

func (c *EvidenceComposer) narrate(
	ctx context.Context,
	parsed model.ParsedMessage,
	signals model.SignalBundle,
	risk model.RiskAssessment,
) (model.RiskVerdict, error) {
	raw, err := c.narrator.Generate(ctx, port.NarrativeSummary{
		Content:     parsed.Content,
		ParsedURL:   parsed.URL,
		ParsedPhone: parsed.Phone,
		URL:         signals.URL,
		Phone:       signals.Phone,
		Semantic:    signals.Semantic,
		Statistical: signals.Statistical,
		RiskScore:   risk.Score,
		RiskLevel:   risk.Level.String(),
		Method:      string(risk.Method),
	})
	if err != nil {
		return model.RiskVerdict{}, fmt.Errorf("generating narrative: %w", err)
	}

	var doc narrativeDocument
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &doc); err != nil {
		return model.RiskVerdict{}, fmt.Errorf("decoding narrative: %w", err)
	}
	if err := c.validate.Struct(doc); err != nil {
		return model.RiskVerdict{}, fmt.Errorf("validating narrative: %w", err)
	}

	return model.RiskVerdict{
		RiskScore: risk.Score,
		RiskLevel: risk.Level,
		Evidence:  trimAll(doc.Evidence),
		Action: model.Action{
			Title:       strings.TrimSpace(doc.Action.Title),
			Suggestions: trimAll(doc.Action.Suggestions),
		},
		Narrative: true,
	}, nil
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// TemplateVerdict builds evidence deterministically from signal flags and
// picks the suggestion template for the tier.
func TemplateVerdict(signals model.SignalBundle, risk model.RiskAssessment) model.RiskVerdict {
	return model.RiskVerdict{
		RiskScore: risk.Score,
		RiskLevel: risk.Level,
		Evidence:  templateEvidence(signals, risk),
		Action:    templateAction(risk.Level),
	}
}

func templateEvidence(signals model.SignalBundle, risk model.RiskAssessment) []string {
	var lines []string

	stat := signals.Statistical
	statLine := ""
	if risk.Method == model.FusionMethodStatistical && stat.Usable() {
		statLine = fmt.Sprintf("Statistical model scam probability: %d%% (%s confidence)",
			int(math.Round(stat.ScamProbability*100)), stat.Confidence)
		lines = append(lines, statLine)
	}

	if u := signals.URL; u.Usable() && !u.IsSafe {
		if u.ThreatType != "" {
			lines = append(lines, "URL flagged as dangerous: "+u.ThreatType)
		} else {
			lines = append(lines, "URL flagged as dangerous")
		}
	}
	if p := signals.Phone; p.Usable() {
		if p.LineType == valueobject.LineTypeVoIP {
			lines = append(lines, "Phone number is VoIP")
		}
		if !p.Valid {
			lines = append(lines, "Phone number could not be validated")
		}
	}
	if s := signals.Semantic; s.Usable() && s.IsScam {
		lines = append(lines, "Semantic analysis detected scam indicators: "+s.Reason)
		if s.ImpersonationType != "" {
			lines = append(lines, "Message impersonates: "+s.ImpersonationType)
		}
		if s.ActionRequested != "" {
			lines = append(lines, "Message asks you to: "+s.ActionRequested)
		}
		if s.UrgencyLevel >= 7 {
			lines = append(lines, "Message uses urgent or pressuring language")
		}
	}
	if statLine != "" && len(stat.TopFactors) > 0 {
		names := make([]string, 0, len(stat.TopFactors))
		for _, f := range stat.TopFactors {
			names = append(names, f.Feature)
		}
		lines = append(lines, "Top model factors: "+strings.Join(names, ", "))
	}

	if len(lines) == 0 {
		lines = append(lines, "No risk indicators were found")
	}
	if missing := unavailableNames(signals); len(missing) > 0 {
		lines = append(lines, "Some checks were unavailable and counted as no evidence of harm: "+strings.Join(missing, ", "))
	}

	if len(lines) > model.MaxEvidence {
		lines = lines[:model.MaxEvidence]
	}
	return lines
}

func unavailableNames(signals model.SignalBundle) []string {
	var names []string
	for _, st := range signals.Statuses() {
		if st.Issued && !st.Available {
			names = append(names, st.Name)
		}
	}
	return names
}

func templateAction(level valueobject.RiskLevel) model.Action {
	switch {
	case level.Equal(valueobject.RiskLevelRed):
		return model.Action{
			Title: "High risk: this is very likely a scam",
			Suggestions: []string{
				"Do not click any link or call any number in this message",
				"Do not transfer money or share passwords or verification codes",
				"Call the " + AntiFraudHotline + " anti-fraud hotline to verify or report it",
				"Block the sender and delete the message",
			},
		}
	case level.Equal(valueobject.RiskLevelYellow):
		return model.Action{
			Title: "Caution: this message may be a scam",
			Suggestions: []string{
				"Verify the sender through an official channel before acting",
				"Do not share personal or banking information",
				"If in doubt, call the " + AntiFraudHotline + " anti-fraud hotline",
			},
		}
	default:
		return model.Action{
			Title: "Low risk: no obvious scam indicators",
			Suggestions: []string{
				"No obvious scam indicators were found in this message",
				"Stay alert to unexpected requests for money or personal data",
				"Report anything suspicious to the " + AntiFraudHotline + " anti-fraud hotline",
			},
		}
	}
}
