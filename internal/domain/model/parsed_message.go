package model

// ParsedMessage is the result of entity extraction over one inbound message.
// At most one URL and one phone number are kept; Content is the original text.
type ParsedMessage struct {
	// URL is the first URL found in Content, empty when none matched.
	URL string
	// Phone is the first phone number found, reduced to digits and a leading '+'.
	Phone   string
	Content string
}

// HasURL reports whether a URL was extracted.
func (p ParsedMessage) HasURL() bool { return p.URL != "" }

// HasPhone reports whether a phone number was extracted.
func (p ParsedMessage) HasPhone() bool { return p.Phone != "" }
