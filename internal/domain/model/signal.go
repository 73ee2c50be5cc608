package model

import "github.com/bibbank/scam-service/internal/domain/valueobject"

// Reasons attached to an unavailable signal.
const (
	ReasonNotConfigured = "not_configured"
	ReasonTimeout       = "timeout"
	ReasonCallFailed    = "call_failed"
	ReasonPanic         = "panic"
)

// URLSignal is the URL reputation verdict for the extracted URL.
type URLSignal struct {
	ThreatType        string `json:"threat_type,omitempty"`
	UnavailableReason string `json:"unavailable_reason,omitempty"`
	IsSafe            bool   `json:"is_safe"`
	Unavailable       bool   `json:"unavailable"`
}

// PhoneSignal is the carrier lookup verdict for the extracted phone number.
type PhoneSignal struct {
	LineType          valueobject.LineType `json:"line_type,omitempty"`
	Carrier           string               `json:"carrier,omitempty"`
	UnavailableReason string               `json:"unavailable_reason,omitempty"`
	Valid             bool                 `json:"valid"`
	Unavailable       bool                 `json:"unavailable"`
}

// SemanticSignal is the language model's judgement over the whole message.
// Confidence is 0..100; the three levels are 0..10.
type SemanticSignal struct {
	Reason            string   `json:"reason"`
	ImpersonationType string   `json:"impersonation_type,omitempty"`
	ActionRequested   string   `json:"action_requested,omitempty"`
	UnavailableReason string   `json:"unavailable_reason,omitempty"`
	Keywords          []string `json:"keywords"`
	Confidence        int      `json:"confidence"`
	UrgencyLevel      int      `json:"urgency_level"`
	ThreatLevel       int      `json:"threat_level"`
	TemptationLevel   int      `json:"temptation_level"`
	IsScam            bool     `json:"is_scam"`
	Unavailable       bool     `json:"unavailable"`
}

// Factor is one feature the statistical classifier weighed in its prediction.
type Factor struct {
	Feature    string  `json:"feature"`
	Value      float64 `json:"value"`
	Importance float64 `json:"importance"`
}

// StatisticalSignal is the trained classifier's prediction over the feature vector.
type StatisticalSignal struct {
	Confidence        valueobject.ModelConfidence `json:"confidence"`
	UnavailableReason string                      `json:"unavailable_reason,omitempty"`
	TopFactors        []Factor                    `json:"top_factors"`
	ScamProbability   float64                     `json:"scam_probability"`
	Unavailable       bool                        `json:"unavailable"`
}

// UnavailableURLSignal returns a URL signal that must not be trusted for scoring.
func UnavailableURLSignal(reason string) *URLSignal {
	return &URLSignal{Unavailable: true, UnavailableReason: reason}
}

// UnavailablePhoneSignal returns a phone signal that must not be trusted for scoring.
func UnavailablePhoneSignal(reason string) *PhoneSignal {
	return &PhoneSignal{Unavailable: true, UnavailableReason: reason}
}

// UnavailableSemanticSignal returns a semantic signal that must not be trusted for scoring.
func UnavailableSemanticSignal(reason string) *SemanticSignal {
	return &SemanticSignal{Unavailable: true, UnavailableReason: reason}
}

// UnavailableStatisticalSignal returns a statistical signal that must not be trusted for scoring.
func UnavailableStatisticalSignal(reason string) *StatisticalSignal {
	return &StatisticalSignal{Unavailable: true, UnavailableReason: reason}
}

// Usable reports whether the signal was issued and returned a result.
func (s *URLSignal) Usable() bool { return s != nil && !s.Unavailable }

// Usable reports whether the signal was issued and returned a result.
func (s *PhoneSignal) Usable() bool { return s != nil && !s.Unavailable }

// Usable reports whether the signal was issued and returned a result.
func (s *SemanticSignal) Usable() bool { return s != nil && !s.Unavailable }

// Usable reports whether the signal was issued and returned a result.
func (s *StatisticalSignal) Usable() bool { return s != nil && !s.Unavailable }

// SignalBundle groups the signals collected for one message. A nil field
// means the lookup was never issued (for example, no URL was extracted).
type SignalBundle struct {
	URL         *URLSignal
	Phone       *PhoneSignal
	Semantic    *SemanticSignal
	Statistical *StatisticalSignal
}

// SignalStatus describes whether one signal contributed to a verdict.
type SignalStatus struct {
	Name      string `json:"name"`
	Reason    string `json:"reason,omitempty"`
	Issued    bool   `json:"issued"`
	Available bool   `json:"available"`
}

// Statuses reports availability for every signal in a fixed order.
func (b SignalBundle) Statuses() []SignalStatus {
	status := func(name string, issued, unavailable bool, reason string) SignalStatus {
		return SignalStatus{Name: name, Issued: issued, Available: issued && !unavailable, Reason: reason}
	}

	out := make([]SignalStatus, 0, 4)
	if b.URL != nil {
		out = append(out, status("url", true, b.URL.Unavailable, b.URL.UnavailableReason))
	} else {
		out = append(out, status("url", false, false, ""))
	}
	if b.Phone != nil {
		out = append(out, status("phone", true, b.Phone.Unavailable, b.Phone.UnavailableReason))
	} else {
		out = append(out, status("phone", false, false, ""))
	}
	if b.Semantic != nil {
		out = append(out, status("semantic", true, b.Semantic.Unavailable, b.Semantic.UnavailableReason))
	} else {
		out = append(out, status("semantic", false, false, ""))
	}
	if b.Statistical != nil {
		out = append(out, status("statistical", true, b.Statistical.Unavailable, b.Statistical.UnavailableReason))
	} else {
		out = append(out, status("statistical", false, false, ""))
	}
	return out
}
