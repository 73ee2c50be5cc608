package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/scam-service/internal/domain/valueobject"
)

func TestRiskLevel_String(t *testing.T) {
	assert.Equal(t, "green", valueobject.RiskLevelGreen.String())
	assert.Equal(t, "yellow", valueobject.RiskLevelYellow.String())
	assert.Equal(t, "red", valueobject.RiskLevelRed.String())
}

func TestRiskLevel_FromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.RiskLevel
		wantErr  bool
	}{
		{"green", valueobject.RiskLevelGreen, false},
		{"yellow", valueobject.RiskLevelYellow, false},
		{"red", valueobject.RiskLevelRed, false},
		{"RED", valueobject.RiskLevel{}, true},
		{"", valueobject.RiskLevel{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := valueobject.RiskLevelFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.expected.Equal(result))
			}
		})
	}
}

func TestRiskLevel_FromScore(t *testing.T) {
	tests := []struct {
		name     string
		expected valueobject.RiskLevel
		score    int
	}{
		{name: "score 0 is green", expected: valueobject.RiskLevelGreen, score: 0},
		{name: "score 29 is green", expected: valueobject.RiskLevelGreen, score: 29},
		{name: "score 30 is yellow", expected: valueobject.RiskLevelYellow, score: 30},
		{name: "score 42 is yellow", expected: valueobject.RiskLevelYellow, score: 42},
		{name: "score 74 is yellow", expected: valueobject.RiskLevelYellow, score: 74},
		{name: "score 75 is red", expected: valueobject.RiskLevelRed, score: 75},
		{name: "score 99 is red", expected: valueobject.RiskLevelRed, score: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := valueobject.RiskLevelFromScore(tt.score)
			assert.True(t, tt.expected.Equal(result),
				"expected %s for score %d, got %s", tt.expected.String(), tt.score, result.String())
		})
	}
}

func TestRiskLevel_FromScoreExhaustive(t *testing.T) {
	for score := 0; score <= 99; score++ {
		level := valueobject.RiskLevelFromScore(score)
		switch {
		case score >= 75:
			assert.Equal(t, valueobject.RiskLevelRed, level, "score %d", score)
		case score >= 30:
			assert.Equal(t, valueobject.RiskLevelYellow, level, "score %d", score)
		default:
			assert.Equal(t, valueobject.RiskLevelGreen, level, "score %d", score)
		}
	}
}

func TestRiskLevel_IsZero(t *testing.T) {
	var zero valueobject.RiskLevel
	assert.True(t, zero.IsZero())
	assert.False(t, valueobject.RiskLevelGreen.IsZero())
}
