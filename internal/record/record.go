package record

import "fmt"

// Conversation quality tags used for downstream filtering. These are set
// by the pipeline, never by the LLM.
const (
	QualityHighValue = "high-value"
	QualityLowValue  = "low-value"
	QualityError     = "error"
	QualityUnknown   = "unknown"
)

// Failure category enumeration. The LLM is constrained to this set; stub
// records use it too.
const (
	FailureMissingInfo         = "missing-info"
	FailureRequiresHuman       = "requires-human"
	FailureFeatureNotSupported = "feature-not-supported"
	FailureBotError            = "bot-error"
	FailureUserAbandoned       = "user-abandoned"
	FailureIncomplete          = "incomplete-conversation"
	FailureOther               = "other"
)

// IncompleteSolved fixes how a bot-only transcript (no user input) counts
// toward the solve rate. A greeting that nobody answered solved nothing.
const IncompleteSolved = false

// Example is a short quote pulled from the transcript by the classifier.
type Example struct {
	Speaker string `json:"speaker"`
	Quote   string `json:"quote"`
}

// Record is one classified conversation. Every field is always populated:
// stub constructors fill placeholders so the aggregator never sees a
// partial record.
type Record struct {
	File string `json:"file"`

	Topics             []string  `json:"topics"`
	UserTasksAttempted []string  `json:"user_tasks_attempted"`
	Solved             bool      `json:"solved"`
	WhyUnsolved        []string  `json:"why_unsolved"`
	NeedsHuman         bool      `json:"needs_human"`
	Capabilities       []string  `json:"capabilities"`
	Limitations        []string  `json:"limitations"`
	Examples           []Example `json:"examples"`

	FailureCategory   string `json:"failure_category"`
	MissingFeature    string `json:"missing_feature"`
	FeatureCategory   string `json:"feature_category"`
	ImprovementNeeded string `json:"specific_improvement_needed"`

	SuccessPatterns            []string `json:"success_patterns"`
	DemonstratedSkills         []string `json:"demonstrated_skills"`
	UserSatisfactionIndicators []string `json:"user_satisfaction_indicators"`
	ConversationFlow           []string `json:"conversation_flow"`
	EscalationTriggers         []string `json:"escalation_triggers"`
	ErrorPatterns              []string `json:"error_patterns"`

	UserEmotion            string `json:"user_emotion"`
	ConversationComplexity string `json:"conversation_complexity"`
	FeaturePriorityScore   int    `json:"feature_priority_score"`
	ImprovementEffort      string `json:"improvement_effort"`

	ConversationQuality string `json:"conversation_quality"`
	FilteredReason      string `json:"filtered_reason"`
}

// base returns a record with every scalar field at its neutral placeholder
// value. Stub constructors override what differs.
func base(file string) Record {
	return Record{
		File:                       file,
		Topics:                     []string{},
		UserTasksAttempted:         []string{},
		WhyUnsolved:                []string{},
		Capabilities:               []string{},
		Limitations:                []string{},
		Examples:                   []Example{},
		SuccessPatterns:            []string{},
		DemonstratedSkills:         []string{},
		UserSatisfactionIndicators: []string{},
		ConversationFlow:           []string{},
		EscalationTriggers:         []string{},
		ErrorPatterns:              []string{},
		UserEmotion:                "neutral",
		ConversationComplexity:     "simple",
		FeaturePriorityScore:       1,
		ImprovementEffort:          "low",
	}
}

// EmptyStub is the record for a transcript with no content at all.
func EmptyStub(file string) Record {
	r := base(file)
	r.Topics = []string{"empty-transcript"}
	r.WhyUnsolved = []string{"empty-transcript"}
	r.FailureCategory = FailureOther
	r.MissingFeature = "no-missing-feature-empty-transcript"
	r.FeatureCategory = "no-feature-category-empty-transcript"
	r.ImprovementNeeded = "no-improvement-needed-empty-transcript"
	r.ConversationQuality = QualityLowValue
	r.FilteredReason = "empty-transcript"
	return r
}

// IncompleteStub is the record for a bot-only transcript. The bot did its
// part (greeting, form render), so the success-shaped fields carry
// positive placeholders, but per IncompleteSolved it is not a solve.
func IncompleteStub(file string) Record {
	r := base(file)
	r.Topics = []string{"incomplete-conversation"}
	r.UserTasksAttempted = []string{"no-user-request"}
	r.Solved = IncompleteSolved
	r.WhyUnsolved = []string{"no-user-request-to-solve"}
	r.Capabilities = []string{"greeting", "form-presentation"}
	r.FailureCategory = FailureIncomplete
	r.MissingFeature = "no-missing-feature-incomplete-conversation"
	r.FeatureCategory = "no-feature-category-incomplete-conversation"
	r.ImprovementNeeded = "no-improvement-needed-user-abandoned"
	r.SuccessPatterns = []string{"bot-greeting-successful", "form-presentation-complete"}
	r.DemonstratedSkills = []string{"greeting", "form-presentation", "template-rendering"}
	r.UserSatisfactionIndicators = []string{"conversation-initiated", "bot-ready-to-help"}
	r.ConversationFlow = []string{"bot-greeting", "form-presentation", "user-abandoned"}
	r.EscalationTriggers = []string{"user-abandoned-conversation", "no-escalation-needed"}
	r.ErrorPatterns = []string{"no-errors-detected", "conversation-abandoned"}
	r.ConversationQuality = QualityLowValue
	r.FilteredReason = "incomplete-conversation-no-user-input"
	return r
}

// LowValueStub is the record for a conversation with no substantial user
// content (greetings, cancellations, ≤2 user messages).
func LowValueStub(file string) Record {
	r := base(file)
	r.Topics = []string{"low-value-conversation"}
	r.UserTasksAttempted = []string{"minimal-interaction"}
	r.WhyUnsolved = []string{"no-substantial-request"}
	r.Capabilities = []string{"greeting", "basic-interaction"}
	r.FailureCategory = "low-value-conversation"
	r.MissingFeature = "no-missing-feature-low-value"
	r.FeatureCategory = "no-feature-category-low-value"
	r.ImprovementNeeded = "no-improvement-needed-low-value"
	r.SuccessPatterns = []string{"bot-greeting-successful", "basic-interaction-complete"}
	r.DemonstratedSkills = []string{"greeting", "basic-interaction"}
	r.UserSatisfactionIndicators = []string{"conversation-initiated", "minimal-interaction"}
	r.ConversationFlow = []string{"bot-greeting", "user-minimal-response"}
	r.EscalationTriggers = []string{"no-escalation-needed", "minimal-interaction"}
	r.ErrorPatterns = []string{"no-errors-detected", "low-value-conversation"}
	r.ConversationQuality = QualityLowValue
	r.FilteredReason = "low-value-2-or-fewer-user-messages"
	return r
}

// DryRunStub stands in for a classification when the LLM call is skipped.
func DryRunStub(file string) Record {
	r := base(file)
	r.Topics = []string{"unknown"}
	r.WhyUnsolved = []string{"dry-run-no-llm"}
	r.FailureCategory = FailureOther
	r.MissingFeature = "no-missing-feature-dry-run"
	r.FeatureCategory = "no-feature-category-dry-run"
	r.ImprovementNeeded = "no-improvement-needed-dry-run"
	r.ConversationQuality = QualityUnknown
	r.FilteredReason = "dry-run"
	return r
}

// ParseErrorStub is the fallback for any classification failure: network
// error, non-2xx status, malformed JSON, schema violation. The concrete
// error type is kept in why_unsolved for diagnosability.
func ParseErrorStub(file string, err error) Record {
	r := base(file)
	r.Topics = []string{"parse-error"}
	r.WhyUnsolved = []string{fmt.Sprintf("exception: %T", err)}
	r.FailureCategory = FailureOther
	r.MissingFeature = "no-missing-feature-parse-error"
	r.FeatureCategory = "no-feature-category-parse-error"
	r.ImprovementNeeded = "no-improvement-needed-parse-error"
	r.ConversationQuality = QualityError
	r.FilteredReason = "parse-error"
	return r
}

// FileErrorStub is the fallback for I/O-level failures reading the input.
func FileErrorStub(file string, err error) Record {
	r := base(file)
	r.Topics = []string{"file-error"}
	r.WhyUnsolved = []string{fmt.Sprintf("file-error: %T", err)}
	r.FailureCategory = FailureOther
	r.MissingFeature = "no-missing-feature-file-error"
	r.FeatureCategory = "no-feature-category-file-error"
	r.ImprovementNeeded = "no-improvement-needed-file-error"
	r.ConversationQuality = QualityError
	r.FilteredReason = "file-error"
	return r
}
