package pipeline

import (
	"context"
	"log/slog"

	"github.com/johns/chatlens/internal/classify"
	"github.com/johns/chatlens/internal/discover"
	"github.com/johns/chatlens/internal/dispatch"
	"github.com/johns/chatlens/internal/record"
	"github.com/johns/chatlens/internal/sanitize"
	"github.com/johns/chatlens/internal/transcript"
)

// TranscriptSink receives the sanitized transcript text of every
// classified conversation. Implementations must be safe for concurrent
// use; the pipeline calls it from worker goroutines.
type TranscriptSink interface {
	SaveTranscript(file, text string) error
}

// Pipeline turns one input file into a complete record: normalize,
// redact, filter, then classify or stub.
type Pipeline struct {
	MaxChars int
	DryRun   bool
	Worker   *classify.Worker // may be nil when DryRun
	Sink     TranscriptSink   // optional
	Logger   *slog.Logger
}

func New(maxChars int, dryRun bool, worker *classify.Worker, sink TranscriptSink, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		MaxChars: maxChars,
		DryRun:   dryRun,
		Worker:   worker,
		Sink:     sink,
		Logger:   logger,
	}
}

// Process implements dispatch.Func.
func (p *Pipeline) Process(ctx context.Context, f discover.InputFile) dispatch.Outcome {
	t, err := transcript.NormalizeFile(f.Path, p.MaxChars)
	if err != nil {
		p.Logger.Warn("unreadable input", "file", f.Name, "error", err)
		return dispatch.Outcome{
			Record: record.FileErrorStub(f.Name, err),
			Status: dispatch.StatusError,
		}
	}

	redact(t)

	switch transcript.Filter(t) {
	case transcript.Empty:
		return dispatch.Outcome{Record: record.EmptyStub(f.Name), Status: dispatch.StatusFiltered}
	case transcript.Incomplete:
		return dispatch.Outcome{Record: record.IncompleteStub(f.Name), Status: dispatch.StatusFiltered}
	case transcript.LowValue:
		return dispatch.Outcome{Record: record.LowValueStub(f.Name), Status: dispatch.StatusFiltered}
	}

	p.save(f.Name, t.Text())

	if p.DryRun || p.Worker == nil {
		return dispatch.Outcome{Record: record.DryRunStub(f.Name), Status: dispatch.StatusClassified}
	}

	r := p.Worker.Classify(ctx, *t)
	status := dispatch.StatusClassified
	if r.ConversationQuality == record.QualityError {
		status = dispatch.StatusError
	}
	return dispatch.Outcome{Record: r, Status: status}
}

// redact scrubs PII in place before the text leaves the process.
func redact(t *transcript.Transcript) {
	if t.Fallback != "" {
		t.Fallback = sanitize.Redact(t.Fallback)
		return
	}
	for i := range t.Lines {
		t.Lines[i].Message = sanitize.Redact(t.Lines[i].Message)
	}
}

func (p *Pipeline) save(file, text string) {
	if p.Sink == nil {
		return
	}
	if err := p.Sink.SaveTranscript(file, text); err != nil {
		p.Logger.Warn("save transcript", "file", file, "error", err)
	}
}
