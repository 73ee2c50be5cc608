package service

import (
	"regexp"
	"strings"

	"github.com/bibbank/scam-service/internal/domain/model"
)

const urlChars = `[A-Za-z0-9\-._~:/?#\[\]@!$&'()*+,;=%]`

var (
	urlPattern = regexp.MustCompile(
		`(?i)https?://` + urlChars + `+` +
			`|\bwww\.` + urlChars + `+` +
			`|\b(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+(?:` + strings.Join(bareDomainTLDs, "|") + `)\b(?:[/?#]` + urlChars + `*)?`,
	)

	phonePattern = regexp.MustCompile(
		`\+886[\s-]?\(?0?9\d{2}\)?[\s-]?\d{3}[\s-]?\d{3}` +
			`|\+886[\s-]?\(?0?\d{1,2}\)?[\s-]?\d{3,4}[\s-]?\d{4}` +
			`|09\d{2}[\s-]?\d{3}[\s-]?\d{3}` +
			`|\(?0\d{1,2}\)?[\s-]?\d{3,4}[\s-]?\d{4}` +
			`|\+\d{1,3}[\s-]?\d{2,4}[\s-]?\d{3,4}[\s-]?\d{3,4}`,
	)
)

// trailingPunct is stripped from the end of a matched URL.
const trailingPunct = `.,;:!?)]}'"` + "，。！？；：、）」』】"

// EntityExtractor pulls the first URL and the first phone number out of raw text.
type EntityExtractor struct{}

// NewEntityExtractor creates an EntityExtractor.
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// Extract never fails; absent entities are left empty.
func (e *EntityExtractor) Extract(content string) model.ParsedMessage {
	parsed := model.ParsedMessage{Content: content}
	if content == "" {
		return parsed
	}

	urlSpans := urlPattern.FindAllStringIndex(content, -1)
	for _, span := range urlSpans {
		if u := strings.TrimRight(content[span[0]:span[1]], trailingPunct); u != "" && strings.Contains(u, ".") {
			parsed.URL = u
			break
		}
	}

	parsed.Phone = firstPhone(maskSpans(content, urlSpans))
	return parsed
}

// maskSpans blanks out URL matches so digits inside a URL are not read as a
// phone number. Byte offsets are preserved.
func maskSpans(s string, spans [][]int) string {
	if len(spans) == 0 {
		return s
	}
	b := []byte(s)
	for _, span := range spans {
		for i := span[0]; i < span[1]; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

func firstPhone(s string) string {
	for _, span := range phonePattern.FindAllStringIndex(s, -1) {
		if span[0] > 0 && isDigitByte(s[span[0]-1]) {
			continue
		}
		if span[1] < len(s) && isDigitByte(s[span[1]]) {
			continue
		}
		return NormalizePhone(s[span[0]:span[1]])
	}
	return ""
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

// NormalizePhone keeps only digits and a leading plus sign.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
