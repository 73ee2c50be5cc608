package service_test

import (
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/service"
	"github.com/bibbank/scam-service/internal/domain/valueobject"
)

func newEngine() *service.RiskFusionEngine {
	return service.NewRiskFusionEngine(slog.Default())
}

func TestRiskFusion_PackageScamFallsBackToRules(t *testing.T) {
	result := newEngine().Fuse(model.SignalBundle{
		URL:         &model.URLSignal{IsSafe: false, ThreatType: "SOCIAL_ENGINEERING"},
		Phone:       &model.PhoneSignal{Valid: true, LineType: valueobject.LineTypeVoIP},
		Semantic:    &model.SemanticSignal{IsScam: true, Confidence: 90},
		Statistical: model.UnavailableStatisticalSignal(model.ReasonNotConfigured),
	})

	assert.Equal(t, 99, result.Score)
	assert.Equal(t, valueobject.RiskLevelRed, result.Level)
	assert.Equal(t, model.FusionMethodRules, result.Method)
}

func TestRiskFusion_BenignMessage(t *testing.T) {
	result := newEngine().Fuse(model.SignalBundle{
		Semantic:    &model.SemanticSignal{IsScam: false, Confidence: 80},
		Statistical: model.UnavailableStatisticalSignal(model.ReasonCallFailed),
	})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, valueobject.RiskLevelGreen, result.Level)
}

func TestRiskFusion_StatisticalIsAuthoritative(t *testing.T) {
	result := newEngine().Fuse(model.SignalBundle{
		URL:         &model.URLSignal{IsSafe: false},
		Phone:       &model.PhoneSignal{LineType: valueobject.LineTypeVoIP},
		Semantic:    &model.SemanticSignal{IsScam: true, Confidence: 100},
		Statistical: &model.StatisticalSignal{ScamProbability: 0.42, Confidence: valueobject.ModelConfidenceLow},
	})

	assert.Equal(t, 42, result.Score)
	assert.Equal(t, valueobject.RiskLevelYellow, result.Level)
	assert.Equal(t, model.FusionMethodStatistical, result.Method)
}

func TestRiskFusion_NothingAvailable(t *testing.T) {
	result := newEngine().Fuse(model.SignalBundle{
		URL:         model.UnavailableURLSignal(model.ReasonTimeout),
		Phone:       model.UnavailablePhoneSignal(model.ReasonTimeout),
		Semantic:    model.UnavailableSemanticSignal(model.ReasonNotConfigured),
		Statistical: model.UnavailableStatisticalSignal(model.ReasonNotConfigured),
	})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, valueobject.RiskLevelGreen, result.Level)
}

func TestRiskFusion_UnavailableSignalsAreIgnored(t *testing.T) {
	url := model.UnavailableURLSignal(model.ReasonTimeout)
	url.IsSafe = false

	result := newEngine().Fuse(model.SignalBundle{URL: url})
	assert.Equal(t, 0, result.Score)
}

func TestRiskFusion_StatisticalRounding(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		wantScore   int
		wantLevel   valueobject.RiskLevel
	}{
		{name: "zero", probability: 0, wantScore: 0, wantLevel: valueobject.RiskLevelGreen},
		{name: "half rounds up", probability: 0.295, wantScore: 30, wantLevel: valueobject.RiskLevelYellow},
		{name: "just below red", probability: 0.744, wantScore: 74, wantLevel: valueobject.RiskLevelYellow},
		{name: "red boundary", probability: 0.745, wantScore: 75, wantLevel: valueobject.RiskLevelRed},
		{name: "certain is clamped", probability: 1.0, wantScore: 99, wantLevel: valueobject.RiskLevelRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newEngine().Fuse(model.SignalBundle{
				Statistical: &model.StatisticalSignal{ScamProbability: tt.probability},
			})
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.wantLevel, result.Level)
		})
	}
}

func TestRiskFusion_InvalidProbabilityFallsBack(t *testing.T) {
	for _, p := range []float64{math.NaN(), -0.1, 1.5} {
		result := newEngine().Fuse(model.SignalBundle{
			Phone:       &model.PhoneSignal{LineType: valueobject.LineTypeVoIP},
			Statistical: &model.StatisticalSignal{ScamProbability: p},
		})
		assert.Equal(t, 30, result.Score)
		assert.Equal(t, model.FusionMethodRules, result.Method)
	}
}

func TestRiskFusion_RuleFormula(t *testing.T) {
	engine := newEngine()

	for _, urlUnsafe := range []bool{false, true} {
		for _, voip := range []bool{false, true} {
			for _, isScam := range []bool{false, true} {
				for conf := 0; conf <= 100; conf++ {
					bundle := model.SignalBundle{
						URL:      &model.URLSignal{IsSafe: !urlUnsafe},
						Phone:    &model.PhoneSignal{LineType: valueobject.LineTypeMobile},
						Semantic: &model.SemanticSignal{IsScam: isScam, Confidence: conf},
					}
					if voip {
						bundle.Phone.LineType = valueobject.LineTypeVoIP
					}

					// Work in hundredths to keep the expectation exact.
					hundredths := 0
					if urlUnsafe {
						hundredths += 4000
					}
					if voip {
						hundredths += 3000
					}
					if isScam {
						hundredths += 99 * conf
					}
					if hundredths > 9900 {
						hundredths = 9900
					}
					want := (hundredths + 50) / 100

					result := engine.Fuse(bundle)
					assert.Equal(t, want, result.Score, "url=%v voip=%v scam=%v conf=%d", urlUnsafe, voip, isScam, conf)
					assert.True(t, valueobject.RiskLevelFromScore(result.Score).Equal(result.Level))
					assert.GreaterOrEqual(t, result.Score, 0)
					assert.LessOrEqual(t, result.Score, 99)
				}
			}
		}
	}
}
