package sanitize

import "regexp"

// Transcripts leave the process on the classification call, so obvious
// PII is masked first. Patterns are deliberately conservative: a missed
// redaction is worse than an over-eager one for this data.
var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	// 3-3-4 phone shapes with optional country code; loose enough for
	// "(555) 123-4567" but tight enough to leave timestamps alone.
	phonePattern = regexp.MustCompile(`(\+\d{1,2}[ .\-]?)?\(?\d{3}\)?[ .\-]\d{3}[ .\-]\d{4}\b`)
	cardPattern  = regexp.MustCompile(`\b\d{13,16}\b`)
	tokenPattern = regexp.MustCompile(`(?i)bearer\s+[a-z0-9._\-]{16,}`)
)

// Redact masks emails, phone numbers, card-like digit runs, and bearer
// tokens in a transcript. Pure function of its input.
func Redact(text string) string {
	text = emailPattern.ReplaceAllString(text, "[email]")
	text = tokenPattern.ReplaceAllString(text, "[token]")
	text = phonePattern.ReplaceAllString(text, "[phone]")
	text = cardPattern.ReplaceAllString(text, "[number]")
	return text
}
