package model

import (
	"fmt"
	"math"
)

// FeatureNames is the declared order of the feature vector. The statistical
// classifier was trained on exactly this order.
var FeatureNames = []string{
	// text
	"text_length",
	"word_count",
	"digit_count",
	"digit_ratio",
	"uppercase_ratio",
	"special_char_count",
	"exclamation_count",
	"question_count",
	"has_urgency_keywords",
	"suspicious_word_count",
	"max_word_length",
	"avg_word_length",
	"emoji_count",
	"max_consecutive_caps",
	"line_count",
	// url
	"url_count",
	"has_suspicious_tld",
	"has_ip_address",
	"is_shortened_url",
	"url_length",
	"has_https",
	"url_path_depth",
	"subdomain_count",
	// phone
	"phone_count",
	"is_international",
	"is_voip",
	"is_mobile",
	"phone_valid",
	"has_carrier",
	"has_multiple_phones",
	// semantic
	"semantic_is_scam",
	"semantic_confidence",
	"semantic_urgency_level",
	"semantic_threat_level",
	"semantic_temptation_level",
	"semantic_has_impersonation",
	"semantic_impersonation_code",
	"semantic_has_action_request",
	"semantic_action_code",
	"semantic_reason_length",
	"semantic_has_keywords",
	"semantic_keyword_count",
	// statistical
	"text_entropy",
	"readability_score",
	"complexity_score",
}

// FeatureCount is the fixed length of every feature vector.
const FeatureCount = 45

var featureIndex = func() map[string]int {
	idx := make(map[string]int, len(FeatureNames))
	for i, name := range FeatureNames {
		idx[name] = i
	}
	return idx
}()

// FeatureVector is an immutable, fully populated projection of one message's
// signals in declared order.
type FeatureVector struct {
	values []float64
}

// NewFeatureVector builds a vector from named values. Every declared feature
// must be present and finite, and no undeclared name may appear.
func NewFeatureVector(named map[string]float64) (FeatureVector, error) {
	if len(FeatureNames) != FeatureCount {
		return FeatureVector{}, fmt.Errorf("feature declaration has %d names, want %d", len(FeatureNames), FeatureCount)
	}
	for name := range named {
		if _, ok := featureIndex[name]; !ok {
			return FeatureVector{}, fmt.Errorf("unknown feature %q", name)
		}
	}

	values := make([]float64, FeatureCount)
	for i, name := range FeatureNames {
		v, ok := named[name]
		if !ok {
			return FeatureVector{}, fmt.Errorf("missing feature %q", name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FeatureVector{}, fmt.Errorf("feature %q is not finite", name)
		}
		values[i] = v
	}
	return FeatureVector{values: values}, nil
}

// FeatureVectorFromValues rebuilds a vector from values in declared order.
func FeatureVectorFromValues(values []float64) (FeatureVector, error) {
	if len(values) != FeatureCount {
		return FeatureVector{}, fmt.Errorf("feature vector has %d values, want %d", len(values), FeatureCount)
	}
	named := make(map[string]float64, FeatureCount)
	for i, name := range FeatureNames {
		named[name] = values[i]
	}
	return NewFeatureVector(named)
}

// Get returns the value of a named feature and whether the name is declared.
func (v FeatureVector) Get(name string) (float64, bool) {
	i, ok := featureIndex[name]
	if !ok || i >= len(v.values) {
		return 0, false
	}
	return v.values[i], true
}

// Values returns a copy of the values in declared order.
func (v FeatureVector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// Map returns the vector keyed by feature name.
func (v FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.values))
	for i, val := range v.values {
		out[FeatureNames[i]] = val
	}
	return out
}

// Len returns the number of populated features.
func (v FeatureVector) Len() int { return len(v.values) }

// IsZero returns true if the vector was never built.
func (v FeatureVector) IsZero() bool { return v.values == nil }
