package valueobject

import "fmt"

// Tier thresholds on the 0..99 risk score.
const (
	RedThreshold    = 75
	YellowThreshold = 30
)

// RiskLevel is an immutable value object representing the risk tier shown to the user.
type RiskLevel struct {
	value string
}

var (
	RiskLevelGreen  = RiskLevel{value: "green"}
	RiskLevelYellow = RiskLevel{value: "yellow"}
	RiskLevelRed    = RiskLevel{value: "red"}
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "green":
		return RiskLevelGreen, nil
	case "yellow":
		return RiskLevelYellow, nil
	case "red":
		return RiskLevelRed, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// RiskLevelFromScore derives the tier from a numeric score.
// It is the only place a tier is computed.
func RiskLevelFromScore(score int) RiskLevel {
	switch {
	case score >= RedThreshold:
		return RiskLevelRed
	case score >= YellowThreshold:
		return RiskLevelYellow
	default:
		return RiskLevelGreen
	}
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}
