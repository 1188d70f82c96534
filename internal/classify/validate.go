package classify

import (
	"fmt"
	"strings"
)

var failureCategories = map[string]bool{
	"missing-info":            true,
	"requires-human":          true,
	"feature-not-supported":   true,
	"bot-error":               true,
	"user-abandoned":          true,
	"incomplete-conversation": true,
	"other":                   true,
}

var userEmotions = map[string]bool{
	"frustrated": true,
	"satisfied":  true,
	"neutral":    true,
	"confused":   true,
	"grateful":   true,
}

var complexities = map[string]bool{
	"simple":   true,
	"moderate": true,
	"complex":  true,
}

var efforts = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

// bareNegatives are the generic non-answers the prompt forbids. Their
// presence means the model ignored the schema contract; the record is
// rejected rather than aggregated into meaningless buckets.
var bareNegatives = map[string]bool{
	"none":        true,
	"none-needed": true,
	"no":          true,
}

// validate enforces the schema contract after JSON decoding. It mutates f
// only to clamp the priority score; everything else is reject-or-accept.
func validate(f *Fields) error {
	if len(f.Topics) == 0 {
		return fmt.Errorf("schema violation: topics is empty")
	}
	if !failureCategories[f.FailureCategory] {
		return fmt.Errorf("schema violation: failure_category %q not in enum", f.FailureCategory)
	}
	if !userEmotions[f.UserEmotion] {
		return fmt.Errorf("schema violation: user_emotion %q not in enum", f.UserEmotion)
	}
	if !complexities[f.ConversationComplexity] {
		return fmt.Errorf("schema violation: conversation_complexity %q not in enum", f.ConversationComplexity)
	}
	if !efforts[f.ImprovementEffort] {
		return fmt.Errorf("schema violation: improvement_effort %q not in enum", f.ImprovementEffort)
	}

	if f.FeaturePriorityScore < 1 {
		f.FeaturePriorityScore = 1
	}
	if f.FeaturePriorityScore > 5 {
		f.FeaturePriorityScore = 5
	}

	for field, value := range map[string]string{
		"missing_feature":             f.MissingFeature,
		"feature_category":            f.FeatureCategory,
		"specific_improvement_needed": f.ImprovementNeeded,
	} {
		if isBareNegative(value) {
			return fmt.Errorf("schema violation: %s is a bare negative %q", field, value)
		}
	}
	for field, values := range map[string][]string{
		"topics":               f.Topics,
		"user_tasks_attempted": f.UserTasksAttempted,
		"why_unsolved":         f.WhyUnsolved,
		"escalation_triggers":  f.EscalationTriggers,
		"error_patterns":       f.ErrorPatterns,
	} {
		for _, v := range values {
			if isBareNegative(v) {
				return fmt.Errorf("schema violation: %s contains bare negative %q", field, v)
			}
		}
	}
	return nil
}

func isBareNegative(s string) bool {
	return bareNegatives[strings.ToLower(strings.TrimSpace(s))]
}
