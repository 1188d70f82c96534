package transcript

import "strings"

// Line is one speaker turn in a normalized transcript.
type Line struct {
	Timestamp string
	Speaker   string // "user", "bot", or a passthrough value
	Message   string
}

// Transcript is the speaker-tagged plain-text rendering of one
// conversation CSV.
type Transcript struct {
	File  string
	Lines []Line

	// Fallback holds a best-effort join of text columns when the expected
	// columns could not be resolved. When set, Lines is empty.
	Fallback string
}

// Text renders the transcript in the canonical "[time] speaker: message"
// form, or returns the fallback join verbatim.
func (t *Transcript) Text() string {
	if t.Fallback != "" {
		return t.Fallback
	}
	var b strings.Builder
	for i, l := range t.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("[")
		b.WriteString(l.Timestamp)
		b.WriteString("] ")
		b.WriteString(l.Speaker)
		b.WriteString(": ")
		b.WriteString(l.Message)
	}
	return b.String()
}

// IsEmpty reports whether the transcript has no content at all.
func (t *Transcript) IsEmpty() bool {
	return strings.TrimSpace(t.Text()) == ""
}

// UserMessages returns the lowercased message text of every user turn.
// For fallback transcripts this scans rendered lines for "user:" the same
// way the filter does, so filtering stays a pure function of the text.
func (t *Transcript) UserMessages() []string {
	var msgs []string
	for _, line := range strings.Split(t.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		idx := strings.Index(lower, "user:")
		if idx < 0 {
			continue
		}
		msgs = append(msgs, strings.TrimSpace(lower[idx+len("user:"):]))
	}
	return msgs
}
