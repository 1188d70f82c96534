package aggregate

import "strings"

// categoryRule folds a raw free-text label into a canonical problem
// bucket by substring match.
type categoryRule struct {
	Name     string
	Keywords []string
}

// problemRules is an ordered contract: rules are evaluated first-match-
// wins, and the order doubles as alphabetical precedence when one label
// could match several buckets. Changing the order changes the report
// taxonomy, so treat it like a schema.
var problemRules = []categoryRule{
	{Name: "api-system-access", Keywords: []string{"api", "access", "schema", "system", "database"}},
	{Name: "integration", Keywords: []string{"integration", "webhook", "clickmagick", "weebly", "wix", "everflow"}},
	{Name: "ui-workflow", Keywords: []string{"ui", "interface", "workflow", "form", "button", "desktop"}},
}

// CategoryOther collects labels no rule claims.
const CategoryOther = "other"

// CategoryFor maps a raw label to its canonical problem category.
func CategoryFor(label string) string {
	lower := strings.ToLower(label)
	for _, rule := range problemRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Name
			}
		}
	}
	return CategoryOther
}

// noIssuePhrases are placeholder labels meaning "nothing wrong here".
// They are excluded from problem indexes so a healthy conversation never
// shows up as a problem.
var noIssuePhrases = []string{
	"no-improvement-needed",
	"no-missing-feature",
	"no-feature-category",
	"bot-handled-perfectly",
	"user-request-fulfilled",
	"conversation-successful",
	"bot-solved-problem",
	"user-satisfied",
	"conversation-completed-successfully",
	"system-functioning-perfectly",
	"all-requests-successful",
	"no-technical-issues",
	"no-escalation-needed",
	"no-errors-detected",
	"conversation-abandoned",
	"user-abandoned-conversation",
	"none",
}

// IsNoIssue reports whether a label is a placeholder rather than a real
// problem.
func IsNoIssue(label string) bool {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return true
	}
	for _, phrase := range noIssuePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// NormalizeLabel consolidates trivially different spellings of the same
// free-text label: case, surrounding space, and internal runs of
// whitespace. Lossy beyond that is intentional; the buckets exist for
// reporting, not recall.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}
