package classify

// API request/response types for OpenAI-compatible chat completions.

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
	MaxTokens      int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type respFormat struct {
	Type string `json:"type"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Fields is the strict JSON schema the model must return: the
// ConversationRecord minus the pipeline-owned fields (file,
// conversation_quality, filtered_reason).
type Fields struct {
	Topics             []string `json:"topics"`
	UserTasksAttempted []string `json:"user_tasks_attempted"`
	Solved             bool     `json:"solved"`
	WhyUnsolved        []string `json:"why_unsolved"`
	NeedsHuman         bool     `json:"needs_human"`
	Capabilities       []string `json:"capabilities"`
	Limitations        []string `json:"limitations"`

	FailureCategory   string `json:"failure_category"`
	MissingFeature    string `json:"missing_feature"`
	FeatureCategory   string `json:"feature_category"`
	ImprovementNeeded string `json:"specific_improvement_needed"`

	Examples []exampleJSON `json:"examples"`

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
}

type exampleJSON struct {
	Speaker string `json:"speaker"`
	Quote   string `json:"quote"`
}

// Outcome is the tagged result of one classification call. Exactly one
// of Fields, ParseErr, NetErr is meaningful, discriminated by Kind.
type Outcome struct {
	Kind     OutcomeKind
	Fields   Fields
	ParseErr error // Kind == OutcomeParseError
	NetErr   error // Kind == OutcomeNetworkError
}

type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeParseError
	OutcomeNetworkError
)

func okOutcome(f Fields) Outcome       { return Outcome{Kind: OutcomeOK, Fields: f} }
func parseOutcome(err error) Outcome   { return Outcome{Kind: OutcomeParseError, ParseErr: err} }
func networkOutcome(err error) Outcome { return Outcome{Kind: OutcomeNetworkError, NetErr: err} }
