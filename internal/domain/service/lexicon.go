package service

import (
	"regexp"
	"strings"
)

// Keyword lists cover English and Traditional Chinese scam phrasing.
var (
	urgencyKeywords = []string{
		"urgent", "immediately", "act now", "asap", "expire", "expires", "expired",
		"suspended", "final notice", "last chance", "limited time", "within 24 hours", "right away",
		"緊急", "立即", "馬上", "盡快", "立刻", "限時", "逾期", "凍結", "停權", "最後通知", "今日內", "即將失效",
	}

	suspiciousKeywords = []string{
		"prize", "winner", "won", "free", "gift", "lottery", "password", "otp", "verification code",
		"refund", "investment", "guaranteed", "bitcoin", "crypto", "loan", "click", "package",
		"delivery", "customs", "claim", "reward", "bank account", "wire transfer", "gift card",
		"中獎", "免費", "獎金", "帳戶", "密碼", "驗證碼", "退款", "投資", "保證", "比特幣", "虛擬貨幣",
		"貸款", "點擊", "包裹", "海關", "領取", "獲利", "解除分期", "匯款", "轉帳", "加賴", "客服",
	}

	suspiciousTLDs = map[string]bool{
		"xyz": true, "top": true, "club": true, "online": true, "site": true, "icu": true,
		"buzz": true, "tk": true, "ml": true, "ga": true, "cf": true, "gq": true, "work": true,
		"vip": true, "shop": true, "live": true, "click": true, "link": true, "rest": true, "cam": true,
	}

	shortenerDomains = map[string]bool{
		"bit.ly": true, "tinyurl.com": true, "t.co": true, "goo.gl": true, "reurl.cc": true,
		"ppt.cc": true, "lihi.cc": true, "lihi1.cc": true, "is.gd": true, "ow.ly": true,
		"cutt.ly": true, "rebrand.ly": true, "shorturl.at": true, "t.ly": true, "0rz.tw": true,
		"pse.is": true, "s.yam.com": true,
	}

	// bareDomainTLDs are accepted for URLs written without a scheme or www.
	bareDomainTLDs = []string{
		"com", "net", "org", "tw", "cn", "hk", "io", "co", "xyz", "top", "info", "me", "ly",
		"cc", "shop", "vip", "app", "site", "online", "club", "link", "biz", "gov", "edu",
		"icu", "buzz", "tk", "live", "click", "at", "gd", "is",
	}
)

// impersonationCodes encodes the semantic classifier's impersonation type.
// Unlisted non-empty values encode as otherCode.
var impersonationCodes = map[string]int{
	"bank":         1,
	"government":   2,
	"police":       3,
	"courier":      4,
	"ecommerce":    5,
	"telecom":      6,
	"family":       7,
	"tech_support": 8,
	"investment":   9,
}

// actionCodes encodes the action the message asks the recipient to take.
var actionCodes = map[string]int{
	"click_link":     1,
	"call_phone":     2,
	"transfer_money": 3,
	"provide_info":   4,
	"download_app":   5,
	"add_contact":    6,
}

const otherCode = 99

// ImpersonationTypes lists the impersonation categories the feature vector encodes.
func ImpersonationTypes() []string {
	return []string{"bank", "government", "police", "courier", "ecommerce", "telecom", "family", "tech_support", "investment", "other"}
}

// ActionTypes lists the requested-action categories the feature vector encodes.
func ActionTypes() []string {
	return []string{"click_link", "call_phone", "transfer_money", "provide_info", "download_app", "add_contact", "other"}
}

func categoryCode(codes map[string]int, value string) int {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return 0
	}
	if code, ok := codes[v]; ok {
		return code
	}
	return otherCode
}

// keywordMatcher finds keywords in text. ASCII keywords match whole words
// case-insensitively; CJK keywords match as substrings.
type keywordMatcher struct {
	ascii *regexp.Regexp
	cjk   []string
}

func newKeywordMatcher(keywords []string) *keywordMatcher {
	var ascii []string
	m := &keywordMatcher{}
	for _, k := range keywords {
		if isASCII(k) {
			ascii = append(ascii, regexp.QuoteMeta(k))
		} else {
			m.cjk = append(m.cjk, k)
		}
	}
	if len(ascii) > 0 {
		m.ascii = regexp.MustCompile(`(?i)\b(?:` + strings.Join(ascii, "|") + `)\b`)
	}
	return m
}

// distinct returns how many different keywords occur in text.
func (m *keywordMatcher) distinct(text string) int {
	seen := make(map[string]bool)
	if m.ascii != nil {
		for _, hit := range m.ascii.FindAllString(text, -1) {
			seen[strings.ToLower(hit)] = true
		}
	}
	for _, k := range m.cjk {
		if strings.Contains(text, k) {
			seen[k] = true
		}
	}
	return len(seen)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

var (
	urgencyMatcher    = newKeywordMatcher(urgencyKeywords)
	suspiciousMatcher = newKeywordMatcher(suspiciousKeywords)
)
