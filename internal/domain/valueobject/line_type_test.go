package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/scam-service/internal/domain/valueobject"
)

func TestLineTypeFromCarrierType(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.LineType
	}{
		{"mobile", valueobject.LineTypeMobile},
		{"landline", valueobject.LineTypeLandline},
		{"nonFixedVoip", valueobject.LineTypeVoIP},
		{"fixedVoip", valueobject.LineTypeVoIP},
		{"VOIP", valueobject.LineTypeVoIP},
		{"tollFree", valueobject.LineTypeUnknown},
		{"", valueobject.LineTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, valueobject.LineTypeFromCarrierType(tt.input))
		})
	}
}

func TestModelConfidenceFromProbability(t *testing.T) {
	assert.Equal(t, valueobject.ModelConfidenceHigh, valueobject.ModelConfidenceFromProbability(0.95))
	assert.Equal(t, valueobject.ModelConfidenceHigh, valueobject.ModelConfidenceFromProbability(0.05))
	assert.Equal(t, valueobject.ModelConfidenceMedium, valueobject.ModelConfidenceFromProbability(0.7))
	assert.Equal(t, valueobject.ModelConfidenceLow, valueobject.ModelConfidenceFromProbability(0.42))
}

func TestModelConfidenceFromString(t *testing.T) {
	c, err := valueobject.ModelConfidenceFromString("medium")
	require.NoError(t, err)
	assert.Equal(t, valueobject.ModelConfidenceMedium, c)

	_, err = valueobject.ModelConfidenceFromString("certain")
	require.Error(t, err)
}
