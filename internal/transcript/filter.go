package transcript

import "strings"

// Verdict is the pre-LLM classification of a transcript.
type Verdict int

const (
	// Keep means the transcript has enough substance to classify.
	Keep Verdict = iota
	// Empty means the transcript has no content at all.
	Empty
	// Incomplete means no line is attributable to the user.
	Incomplete
	// LowValue means the user contributed nothing substantial.
	LowValue
)

func (v Verdict) String() string {
	switch v {
	case Empty:
		return "empty"
	case Incomplete:
		return "incomplete"
	case LowValue:
		return "low-value"
	}
	return "keep"
}

// Canonical rejection messages that carry no analytical value on their own.
var stoplist = map[string]bool{
	"cancel": true,
	"no":     true,
	"stop":   true,
	"quit":   true,
	"exit":   true,
}

// formSentinel is the canned line the chat widget emits on form submit.
const formSentinel = "the user completes the submission of the form"

var greetingWords = []string{"hi", "hello", "hey", "good morning", "good afternoon"}

// Filter decides whether a transcript is worth an LLM call. It is a pure
// function of the transcript text: checks run in order (empty, incomplete,
// low-value) and the first hit wins.
func Filter(t *Transcript) Verdict {
	if t.IsEmpty() {
		return Empty
	}

	userMsgs := t.UserMessages()
	if len(userMsgs) == 0 {
		return Incomplete
	}

	// Hard threshold, not a heuristic: two or fewer user messages is
	// low-value regardless of content.
	if len(userMsgs) <= 2 {
		return LowValue
	}

	for _, msg := range userMsgs {
		if stoplist[msg] {
			continue
		}
		if msg == formSentinel {
			continue
		}
		if isGreeting(msg) {
			continue
		}
		return Keep
	}
	return LowValue
}

func isGreeting(msg string) bool {
	if len(msg) >= 20 {
		return false
	}
	for _, w := range greetingWords {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}
