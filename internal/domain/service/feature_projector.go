package service

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/valueobject"
)

// FeatureProjector maps a parsed message and its signals onto the fixed
// feature vector the statistical classifier was trained on.
// Unavailable or absent signals contribute zeros.
type FeatureProjector struct{}

// NewFeatureProjector creates a FeatureProjector.
func NewFeatureProjector() *FeatureProjector {
	return &FeatureProjector{}
}

// Project is pure: the same inputs always produce the same vector. URL
// features are lexical; only the phone and semantic signals feed the vector.
// The statistical signal in the bundle is ignored.
func (p *FeatureProjector) Project(parsed model.ParsedMessage, signals model.SignalBundle) (model.FeatureVector, error) {
	f := make(map[string]float64, model.FeatureCount)

	words := tokenize(parsed.Content)
	textFeatures(f, parsed.Content, words)
	urlFeatures(f, parsed.URL)
	phoneFeatures(f, parsed.Phone, signals.Phone)
	semanticFeatures(f, signals.Semantic)
	statisticalFeatures(f, parsed.Content, words)

	fv, err := model.NewFeatureVector(f)
	if err != nil {
		return model.FeatureVector{}, fmt.Errorf("projecting features: %w", err)
	}
	return fv, nil
}

func textFeatures(f map[string]float64, text string, words []string) {
	length := utf8.RuneCountInString(text)

	var digits, upper, special, exclaim, question, emoji, caps, maxCaps int
	for _, r := range text {
		switch {
		case unicode.IsDigit(r):
			digits++
		case isEmoji(r):
			emoji++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special++
		}
		switch r {
		case '!', '！':
			exclaim++
		case '?', '？':
			question++
		}
		if unicode.IsUpper(r) {
			upper++
			caps++
			if caps > maxCaps {
				maxCaps = caps
			}
		} else {
			caps = 0
		}
	}

	maxLen, totalLen := 0, 0
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		totalLen += n
		if n > maxLen {
			maxLen = n
		}
	}

	lines := 0
	if text != "" {
		lines = strings.Count(text, "\n") + 1
	}

	f["text_length"] = float64(length)
	f["word_count"] = float64(len(words))
	f["digit_count"] = float64(digits)
	f["digit_ratio"] = ratio(digits, length)
	f["uppercase_ratio"] = ratio(upper, length)
	f["special_char_count"] = float64(special)
	f["exclamation_count"] = float64(exclaim)
	f["question_count"] = float64(question)
	f["has_urgency_keywords"] = boolFeature(urgencyMatcher.distinct(text) > 0)
	f["suspicious_word_count"] = float64(suspiciousMatcher.distinct(text))
	f["max_word_length"] = float64(maxLen)
	f["avg_word_length"] = ratio(totalLen, len(words))
	f["emoji_count"] = float64(emoji)
	f["max_consecutive_caps"] = float64(maxCaps)
	f["line_count"] = float64(lines)
}

func urlFeatures(f map[string]float64, raw string) {
	for _, name := range []string{
		"url_count", "has_suspicious_tld", "has_ip_address", "is_shortened_url",
		"url_length", "has_https", "url_path_depth", "subdomain_count",
	} {
		f[name] = 0
	}
	if raw == "" {
		return
	}

	f["url_count"] = 1
	f["url_length"] = float64(utf8.RuneCountInString(raw))
	f["has_https"] = boolFeature(strings.HasPrefix(strings.ToLower(raw), "https://"))

	u, err := url.Parse(withScheme(raw))
	if err != nil {
		return
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	f["url_path_depth"] = float64(strings.Count(u.Path, "/"))

	if net.ParseIP(host) != nil {
		f["has_ip_address"] = 1
		return
	}

	labels := strings.Split(host, ".")
	tld := labels[len(labels)-1]
	f["has_suspicious_tld"] = boolFeature(suspiciousTLDs[tld])
	f["is_shortened_url"] = boolFeature(shortenerDomains[strings.TrimPrefix(host, "www.")])
	f["subdomain_count"] = float64(subdomainCount(labels))
}

// withScheme prefixes http:// to URLs written without a scheme.
func withScheme(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "http://" + raw
}

// subdomainCount counts labels left of the registrable domain. Two-letter
// country TLDs with a generic second level (example.com.tw) use three labels.
func subdomainCount(labels []string) int {
	registrable := 2
	if n := len(labels); n >= 3 && len(labels[n-1]) == 2 {
		switch labels[n-2] {
		case "com", "net", "org", "gov", "edu", "co", "idv":
			registrable = 3
		}
	}
	if len(labels) <= registrable {
		return 0
	}
	return len(labels) - registrable
}

func phoneFeatures(f map[string]float64, phone string, sig *model.PhoneSignal) {
	f["phone_count"] = 0
	f["is_international"] = 0
	f["is_voip"] = 0
	f["is_mobile"] = 0
	f["phone_valid"] = 0
	f["has_carrier"] = 0
	// A single phone is extracted per message, so this stays 0.
	f["has_multiple_phones"] = 0

	if phone == "" {
		return
	}
	f["phone_count"] = 1
	f["is_international"] = boolFeature(strings.HasPrefix(phone, "+") || strings.HasPrefix(phone, "00"))

	if !sig.Usable() {
		return
	}
	f["is_voip"] = boolFeature(sig.LineType == valueobject.LineTypeVoIP)
	f["is_mobile"] = boolFeature(sig.LineType == valueobject.LineTypeMobile)
	f["phone_valid"] = boolFeature(sig.Valid)
	f["has_carrier"] = boolFeature(sig.Carrier != "")
}

func semanticFeatures(f map[string]float64, sig *model.SemanticSignal) {
	if !sig.Usable() {
		sig = &model.SemanticSignal{}
	}
	f["semantic_is_scam"] = boolFeature(sig.IsScam)
	f["semantic_confidence"] = float64(sig.Confidence)
	f["semantic_urgency_level"] = float64(sig.UrgencyLevel)
	f["semantic_threat_level"] = float64(sig.ThreatLevel)
	f["semantic_temptation_level"] = float64(sig.TemptationLevel)
	f["semantic_has_impersonation"] = boolFeature(sig.ImpersonationType != "")
	f["semantic_impersonation_code"] = float64(categoryCode(impersonationCodes, sig.ImpersonationType))
	f["semantic_has_action_request"] = boolFeature(sig.ActionRequested != "")
	f["semantic_action_code"] = float64(categoryCode(actionCodes, sig.ActionRequested))
	f["semantic_reason_length"] = float64(utf8.RuneCountInString(sig.Reason))
	f["semantic_has_keywords"] = boolFeature(len(sig.Keywords) > 0)
	f["semantic_keyword_count"] = float64(len(sig.Keywords))
}

func statisticalFeatures(f map[string]float64, text string, words []string) {
	f["text_entropy"] = shannonEntropy(text)
	f["readability_score"] = readability(text, words)
	f["complexity_score"] = complexity(words)
}

// tokenize splits on whitespace, strips surrounding punctuation and emits
// each Han ideograph as its own word.
func tokenize(text string) []string {
	var words []string
	for _, field := range strings.Fields(text) {
		var cur []rune
		flush := func() {
			w := strings.TrimFunc(string(cur), func(r rune) bool {
				return unicode.IsPunct(r) || unicode.IsSymbol(r)
			})
			if w != "" {
				words = append(words, w)
			}
			cur = cur[:0]
		}
		for _, r := range field {
			if unicode.Is(unicode.Han, r) {
				flush()
				words = append(words, string(r))
				continue
			}
			cur = append(cur, r)
		}
		flush()
	}
	return words
}

func shannonEntropy(text string) float64 {
	counts := make(map[rune]int)
	total := 0
	for _, r := range text {
		counts[r]++
		total++
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}

// readability combines average sentence length in words with average word
// length in runes.
func readability(text string, words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	sentences := 0
	for _, s := range strings.FieldsFunc(text, isSentenceBreak) {
		if len(tokenize(s)) > 0 {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	totalLen := 0
	for _, w := range words {
		totalLen += utf8.RuneCountInString(w)
	}
	avgSentence := float64(len(words)) / float64(sentences)
	avgWord := float64(totalLen) / float64(len(words))
	return avgSentence*0.39 + avgWord*11.8
}

func isSentenceBreak(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？', '\n':
		return true
	}
	return false
}

func complexity(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[strings.ToLower(w)] = struct{}{}
	}
	return float64(len(distinct)) / float64(len(words))
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	}
	return false
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
