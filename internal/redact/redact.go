// Package redact provides utilities for redacting credentials from strings
// before they are logged or returned in error responses. Upstream language
// model errors can echo request headers or query strings, and database inputs
// can carry connection strings with passwords; this package keeps those values
// out of log sinks and task records.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules are applied in order; earlier rules take the more specific shapes.
var rules = []rule{
	// Connection strings: keep scheme and host, drop user info
	{
		pattern:     regexp.MustCompile(`(?i)\b(postgres|postgresql|mysql|mongodb|sqlite)://[^@\s/]+@`),
		replacement: "${1}://" + RedactedCredentialPlaceholder + "@",
	},
	// Authorization headers
	{
		pattern:     regexp.MustCompile(`(?i)\b(bearer)\s+[A-Za-z0-9_\-.~+/=]{8,}`),
		replacement: "${1} " + RedactedKeyPlaceholder,
	},
	// Provider key shapes (OpenAI sk-..., Google AIza...)
	{
		pattern:     regexp.MustCompile(`\b(sk-[A-Za-z0-9_\-]{16,}|AIza[0-9A-Za-z_\-]{30,})`),
		replacement: RedactedKeyPlaceholder,
	},
	// key=value and key: value pairs
	{
		pattern:     regexp.MustCompile(`(?i)\b(api[_-]?key|key|token|secret|password|passwd)(["']?\s*[=:]\s*["']?)[^\s"'&]{4,}`),
		replacement: "${1}${2}" + RedactionPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
