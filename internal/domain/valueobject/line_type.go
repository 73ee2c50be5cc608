package valueobject

import "strings"

// LineType classifies the network a phone number is served on.
type LineType string

const (
	LineTypeUnknown  LineType = ""
	LineTypeMobile   LineType = "mobile"
	LineTypeLandline LineType = "landline"
	LineTypeVoIP     LineType = "voip"
)

// LineTypeFromCarrierType maps a carrier lookup line type onto the domain enum.
// Unrecognised values map to LineTypeUnknown.
func LineTypeFromCarrierType(s string) LineType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mobile":
		return LineTypeMobile
	case "landline", "fixedline", "fixed_line":
		return LineTypeLandline
	case "voip", "nonfixedvoip", "fixedvoip":
		return LineTypeVoIP
	default:
		return LineTypeUnknown
	}
}

// String returns the string representation.
func (l LineType) String() string {
	return string(l)
}
