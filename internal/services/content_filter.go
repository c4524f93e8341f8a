package services

import (
	"regexp"
	"sync"
)

var bannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"spam", "scam", "scammer", "phishing", "malware",
}

// ContentFilter screens free-text inquiry messages before they are stored.
// Contact details are blocked so negotiation stays on-platform until a lease
// exists.
type ContentFilter struct {
	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	emailPattern        *regexp.Regexp
	phonePattern        *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	compiled            bool
	mu                  sync.RWMutex
}

func NewContentFilter() *ContentFilter {
	f := &ContentFilter{}
	f.compilePatterns()
	return f
}

func (f *ContentFilter) compilePatterns() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.compiled {
		return
	}

	f.bannedWordRegexps = make([]*regexp.Regexp, 0, len(bannedWords))
	for _, word := range bannedWords {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		re, err := regexp.Compile(pattern)
		if err == nil {
			f.bannedWordRegexps = append(f.bannedWordRegexps, re)
		}
	}

	f.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	f.emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	f.phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	f.repeatedCharPattern = regexp.MustCompile(`(?i)([a-z]{1})\1{4,}|!{4,}|\?{4,}|\.{4,}`)
	f.compiled = true
}

// Check returns false plus a reason code when the text violates the rules.
func (f *ContentFilter) Check(text string) (bool, string) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if text == "" {
		return true, ""
	}
	for _, re := range f.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if f.urlPattern.MatchString(text) {
		return false, "url_not_allowed"
	}
	if f.emailPattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if f.phonePattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if f.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	return true, ""
}

// RejectionMessage maps a reason code to user-facing copy.
func (f *ContentFilter) RejectionMessage(reason string) string {
	messages := map[string]string{
		"inappropriate_language":   "Your message contains inappropriate language.",
		"url_not_allowed":          "URLs and web links are not allowed in messages.",
		"contact_info_not_allowed": "Sharing contact information is not allowed before a lease is in place.",
		"spam_detected":            "Your message appears to be spam.",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "Your message does not meet our content guidelines."
}
