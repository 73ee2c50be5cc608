package valueobject

import (
	"fmt"
	"math"
)

// ModelConfidence is the statistical classifier's self-reported certainty band.
type ModelConfidence string

const (
	ModelConfidenceLow    ModelConfidence = "low"
	ModelConfidenceMedium ModelConfidence = "medium"
	ModelConfidenceHigh   ModelConfidence = "high"
)

// ModelConfidenceFromString parses a confidence band.
func ModelConfidenceFromString(s string) (ModelConfidence, error) {
	switch ModelConfidence(s) {
	case ModelConfidenceLow, ModelConfidenceMedium, ModelConfidenceHigh:
		return ModelConfidence(s), nil
	default:
		return "", fmt.Errorf("invalid model confidence: %s", s)
	}
}

// ModelConfidenceFromProbability derives a band from the distance between a
// probability and the 0.5 decision boundary.
func ModelConfidenceFromProbability(p float64) ModelConfidence {
	d := math.Abs(p - 0.5)
	switch {
	case d >= 0.35:
		return ModelConfidenceHigh
	case d >= 0.15:
		return ModelConfidenceMedium
	default:
		return ModelConfidenceLow
	}
}

// String returns the string representation.
func (c ModelConfidence) String() string {
	return string(c)
}
