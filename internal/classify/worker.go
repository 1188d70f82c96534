package classify

import (
	"context"

	"github.com/johns/chatlens/internal/ratelimit"
	"github.com/johns/chatlens/internal/record"
	"github.com/johns/chatlens/internal/transcript"
)

// Worker classifies one transcript at a time, gated by a shared rate
// limiter. Multiple workers share one Worker value safely: the client
// and limiter are both concurrency-safe and the Worker itself holds no
// per-call state.
type Worker struct {
	client  *Client
	limiter *ratelimit.Limiter
}

func NewWorker(client *Client, limiter *ratelimit.Limiter) *Worker {
	return &Worker{client: client, limiter: limiter}
}

// Classify runs one transcript through the LLM and folds the outcome
// into a complete record. Any failure, network or parse, becomes a
// ParseErrorStub so the caller always gets a full record back.
func (w *Worker) Classify(ctx context.Context, t transcript.Transcript) record.Record {
	w.limiter.Acquire()

	out := w.client.Complete(ctx, t.Text())
	switch out.Kind {
	case OutcomeOK:
		return fieldsToRecord(t.File, out.Fields)
	case OutcomeNetworkError:
		return record.ParseErrorStub(t.File, out.NetErr)
	default:
		return record.ParseErrorStub(t.File, out.ParseErr)
	}
}

// fieldsToRecord attaches the pipeline-owned fields to a validated
// classification.
func fieldsToRecord(file string, f Fields) record.Record {
	examples := make([]record.Example, 0, len(f.Examples))
	for _, e := range f.Examples {
		examples = append(examples, record.Example{Speaker: e.Speaker, Quote: e.Quote})
	}
	return record.Record{
		File:                       file,
		Topics:                     orEmpty(f.Topics),
		UserTasksAttempted:         orEmpty(f.UserTasksAttempted),
		Solved:                     f.Solved,
		WhyUnsolved:                orEmpty(f.WhyUnsolved),
		NeedsHuman:                 f.NeedsHuman,
		Capabilities:               orEmpty(f.Capabilities),
		Limitations:                orEmpty(f.Limitations),
		Examples:                   examples,
		FailureCategory:            f.FailureCategory,
		MissingFeature:             f.MissingFeature,
		FeatureCategory:            f.FeatureCategory,
		ImprovementNeeded:          f.ImprovementNeeded,
		SuccessPatterns:            orEmpty(f.SuccessPatterns),
		DemonstratedSkills:         orEmpty(f.DemonstratedSkills),
		UserSatisfactionIndicators: orEmpty(f.UserSatisfactionIndicators),
		ConversationFlow:           orEmpty(f.ConversationFlow),
		EscalationTriggers:         orEmpty(f.EscalationTriggers),
		ErrorPatterns:              orEmpty(f.ErrorPatterns),
		UserEmotion:                f.UserEmotion,
		ConversationComplexity:     f.ConversationComplexity,
		FeaturePriorityScore:       f.FeaturePriorityScore,
		ImprovementEffort:          f.ImprovementEffort,
		ConversationQuality:        record.QualityHighValue,
		FilteredReason:             "none",
	}
}

// orEmpty normalizes a nil slice so every record marshals list fields as
// [] rather than null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
