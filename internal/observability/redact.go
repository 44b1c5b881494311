// Package observability provides structured logging helpers with sensitive
// data redaction. Vendor error text can echo the credential that was sent;
// everything surfaced to logs or callers passes through the redactor first.
package observability

import (
	"regexp"
	"strings"
)

// Redactor masks credential material in free-form text.
type Redactor struct {
	patterns []*redactPattern
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a redactor covering the key formats of the supported
// vendors plus generic bearer tokens.
func NewRedactor() *Redactor {
	r := &Redactor{}
	r.addPattern(`sk-proj-[a-zA-Z0-9\-_]{20,}`, "[REDACTED_KEY]")
	r.addPattern(`sk-ant-[a-zA-Z0-9\-_]{20,}`, "[REDACTED_KEY]")
	r.addPattern(`sk-or-[a-zA-Z0-9\-_]{20,}`, "[REDACTED_KEY]")
	r.addPattern(`sk-[a-zA-Z0-9]{20,}`, "[REDACTED_KEY]")
	r.addPattern(`xai-[a-zA-Z0-9]{20,}`, "[REDACTED_KEY]")
	r.addPattern(`AIza[a-zA-Z0-9\-_]{35}`, "[REDACTED_KEY]")
	r.addPattern(`Bearer\s+[a-zA-Z0-9\-_\.]+`, "Bearer [REDACTED]")
	r.addPattern(`(?i)key=[a-zA-Z0-9\-_]{10,}`, "key=[REDACTED]")
	return r
}

func (r *Redactor) addPattern(pattern, replacement string) {
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return
	}
	r.patterns = append(r.patterns, &redactPattern{regex: regex, replacement: replacement})
}

// Redact masks all recognized credential patterns in text.
func (r *Redactor) Redact(text string) string {
	for _, p := range r.patterns {
		text = p.regex.ReplaceAllString(text, p.replacement)
	}
	return text
}

// RedactSecret removes a known secret from text regardless of its format.
// Used for stored credentials whose shape is vendor-defined and unknown.
func RedactSecret(text, secret string) string {
	if secret == "" {
		return text
	}
	return strings.ReplaceAll(text, secret, "[REDACTED_KEY]")
}
