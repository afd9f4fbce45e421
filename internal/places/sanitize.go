package places

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips all markup from provider text and escapes what is left.
// Sanitizing already-sanitized text returns it unchanged.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *Sanitizer) Clean(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(text))
}
