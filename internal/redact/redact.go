// Package redact scrubs secrets and infrastructure details from error text
// before it is logged: database URLs, tokens, password hashes, emails, SQL,
// file paths and host addresses.
package redact

import "regexp"

// Placeholders substituted for redacted text.
const (
	RedactionPlaceholder    = "[REDACTED]"
	RedactedDSNPlaceholder  = "[REDACTED_DSN]"
	RedactedJWTPlaceholder  = "[REDACTED_JWT]"
	RedactedHashPlaceholder = "[REDACTED_HASH]"
	RedactedEmail           = "[REDACTED_EMAIL]"
	RedactedSQL             = "[REDACTED_SQL]"
	RedactedPathPlaceholder = "[REDACTED_PATH]"
	RedactedHostPlaceholder = "[REDACTED_HOST]"
	RedactedStackTrace      = "[REDACTED_STACK]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; earlier rules must not leave text a later rule
// would mangle.
var rules = []rule{
	{regexp.MustCompile(`goroutine \d+ \[[^\]]*\]:[\s\S]*`), RedactedStackTrace},
	{regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mongodb(?:\+srv)?)://\S+`), RedactedDSNPlaceholder},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), RedactedJWTPlaceholder},
	{regexp.MustCompile(`\$2[aby]\$\d{2}\$[./A-Za-z0-9]{53}`), RedactedHashPlaceholder},
	{
		regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|jwt_secret|api[_-]?key|token)\s*[=:]\s*['"]?[^'"\s&,\[]+['"]?`),
		"${1}=" + RedactionPlaceholder,
	},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmail},
	{regexp.MustCompile(`\b(?:SELECT|INSERT INTO|UPDATE \w+ SET|DELETE FROM)\b[^;]*`), RedactedSQL},
	{regexp.MustCompile(`(?:/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`\b(?:[A-Za-z0-9-]+\.)+[A-Za-z]{2,}:\d{1,5}\b`), RedactedHostPlaceholder},
	{regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,3}){3}(?::\d{1,5})?\b`), RedactedHostPlaceholder},
}

// String redacts sensitive information from the input string
func String(input string) string {
	for _, r := range rules {
		if input == "" {
			break
		}
		input = r.pattern.ReplaceAllString(input, r.replacement)
	}
	return input
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
