package service

import (
	"log/slog"
	"math"

	"github.com/shopspring/decimal"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/valueobject"
)

// Rule weights for the fallback branch.
var (
	URLUnsafeWeight  = decimal.NewFromInt(40)
	VoIPWeight       = decimal.NewFromInt(30)
	SemanticWeight   = decimal.RequireFromString("0.99")
	maxScore         = decimal.NewFromInt(99)
	probabilityScale = decimal.NewFromInt(100)
)

// RiskFusionEngine turns a signal bundle into a bounded score and tier.
// A usable statistical prediction is authoritative; otherwise the rule-based
// weighted sum is used.
type RiskFusionEngine struct {
	logger *slog.Logger
}

// NewRiskFusionEngine creates a RiskFusionEngine.
func NewRiskFusionEngine(logger *slog.Logger) *RiskFusionEngine {
	return &RiskFusionEngine{logger: logger}
}

// Fuse computes the score and tier. The tier is always derived from the score.
func (e *RiskFusionEngine) Fuse(signals model.SignalBundle) model.RiskAssessment {
	if stat := signals.Statistical; stat.Usable() {
		if validProbability(stat.ScamProbability) {
			return assessment(e.statisticalScore(stat.ScamProbability), model.FusionMethodStatistical)
		}
		e.logger.Warn("statistical probability out of range, using rules-only scoring",
			"probability", stat.ScamProbability)
	}
	return assessment(e.rulesScore(signals), model.FusionMethodRules)
}

func (e *RiskFusionEngine) statisticalScore(p float64) int {
	score := decimal.NewFromFloat(p).Mul(probabilityScale)
	return clampRound(score)
}

// rulesScore sums the contributions uncapped and clamps once at the end.
func (e *RiskFusionEngine) rulesScore(signals model.SignalBundle) int {
	sum := decimal.Zero

	if signals.URL.Usable() && !signals.URL.IsSafe {
		sum = sum.Add(URLUnsafeWeight)
	}
	if signals.Phone.Usable() && signals.Phone.LineType == valueobject.LineTypeVoIP {
		sum = sum.Add(VoIPWeight)
	}
	if signals.Semantic.Usable() && signals.Semantic.IsScam {
		sum = sum.Add(SemanticWeight.Mul(decimal.NewFromInt(int64(signals.Semantic.Confidence))))
	}

	return clampRound(sum)
}

// clampRound clamps to [0, 99] and rounds half away from zero.
func clampRound(d decimal.Decimal) int {
	if d.IsNegative() {
		d = decimal.Zero
	}
	if d.GreaterThan(maxScore) {
		d = maxScore
	}
	return int(d.Round(0).IntPart())
}

func validProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

func assessment(score int, method model.FusionMethod) model.RiskAssessment {
	return model.RiskAssessment{
		Score:  score,
		Level:  valueobject.RiskLevelFromScore(score),
		Method: method,
	}
}
