package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentFilter(t *testing.T) {
	filter := NewContentFilter()

	cases := []struct {
		name   string
		text   string
		ok     bool
		reason string
	}{
		{"clean text", "Is the apartment still available from March?", true, ""},
		{"empty text", "", true, ""},
		{"banned word", "this listing is a scam", false, "inappropriate_language"},
		{"url", "see photos at https://example.com/pics", false, "url_not_allowed"},
		{"bare www url", "check www.example.com/listing for more", false, "url_not_allowed"},
		{"email address", "reach me at jane.doe@example.com instead", false, "contact_info_not_allowed"},
		{"phone number", "call me on 555-123-4567", false, "contact_info_not_allowed"},
		{"repeated characters", "pleaseeeee reply", false, "spam_detected"},
		{"excessive punctuation", "available????? when????", false, "spam_detected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := filter.Check(tc.text)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestRejectionMessageCoversAllReasons(t *testing.T) {
	filter := NewContentFilter()
	for _, reason := range []string{
		"inappropriate_language",
		"url_not_allowed",
		"contact_info_not_allowed",
		"spam_detected",
	} {
		assert.NotEmpty(t, filter.RejectionMessage(reason))
	}
	assert.NotEmpty(t, filter.RejectionMessage("something_else"))
}
