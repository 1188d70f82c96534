package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/johns/chatlens/internal/discover"
	"github.com/johns/chatlens/internal/dispatch"
	"github.com/johns/chatlens/internal/record"
)

type memSink struct {
	mu    sync.Mutex
	texts map[string]string
}

func (s *memSink) SaveTranscript(file, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.texts == nil {
		s.texts = map[string]string{}
	}
	s.texts[file] = text
	return nil
}

func writeInput(t *testing.T, name, content string) discover.InputFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return discover.InputFile{Path: path, Name: name}
}

const substantialCSV = `Time,Sender Type,Message
2025-03-01 09:00:00,bot,Hello! How can I help?
2025-03-01 09:00:10,user,My email is jane@example.com and I need a refund
2025-03-01 09:00:20,bot,I cannot process refunds
2025-03-01 09:00:30,user,Why not? This is ridiculous
2025-03-01 09:00:40,user,Connect me to a human please
`

func dryRunPipeline(sink TranscriptSink) *Pipeline {
	return New(0, true, nil, sink, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProcessDryRunClassifies(t *testing.T) {
	f := writeInput(t, "chat_001.csv", substantialCSV)

	out := dryRunPipeline(nil).Process(context.Background(), f)

	if out.Status != dispatch.StatusClassified {
		t.Fatalf("status = %v", out.Status)
	}
	if out.Record.ConversationQuality != record.QualityUnknown {
		t.Errorf("quality: got %q", out.Record.ConversationQuality)
	}
	if out.Record.FilteredReason != "dry-run" {
		t.Errorf("filtered_reason: got %q", out.Record.FilteredReason)
	}
}

func TestProcessFiltersLowValue(t *testing.T) {
	f := writeInput(t, "chat_002.csv", `Time,Sender Type,Message
2025-03-01 09:00:00,bot,Hello! How can I help?
2025-03-01 09:00:10,user,hi
`)

	out := dryRunPipeline(nil).Process(context.Background(), f)

	if out.Status != dispatch.StatusFiltered {
		t.Fatalf("status = %v", out.Status)
	}
	if out.Record.FilteredReason != "low-value-2-or-fewer-user-messages" {
		t.Errorf("filtered_reason: got %q", out.Record.FilteredReason)
	}
}

func TestProcessFiltersBotOnly(t *testing.T) {
	f := writeInput(t, "chat_003.csv", `Time,Sender Type,Message
2025-03-01 09:00:00,bot,Hello! Please fill in the form.
`)

	out := dryRunPipeline(nil).Process(context.Background(), f)

	if out.Status != dispatch.StatusFiltered {
		t.Fatalf("status = %v", out.Status)
	}
	if out.Record.FailureCategory != record.FailureIncomplete {
		t.Errorf("failure_category: got %q", out.Record.FailureCategory)
	}
	if out.Record.Solved != record.IncompleteSolved {
		t.Errorf("solved: got %v", out.Record.Solved)
	}
}

func TestProcessMissingFileIsError(t *testing.T) {
	f := discover.InputFile{Path: "/nonexistent/chat.csv", Name: "chat.csv"}

	out := dryRunPipeline(nil).Process(context.Background(), f)

	if out.Status != dispatch.StatusError {
		t.Fatalf("status = %v", out.Status)
	}
	if out.Record.Topics[0] != "file-error" {
		t.Errorf("topics: %v", out.Record.Topics)
	}
}

// Redaction happens before the text reaches the sink, so nothing
// downstream ever sees the raw PII.
func TestProcessRedactsBeforeSink(t *testing.T) {
	sink := &memSink{}
	f := writeInput(t, "chat_004.csv", substantialCSV)

	dryRunPipeline(sink).Process(context.Background(), f)

	text, ok := sink.texts["chat_004.csv"]
	if !ok {
		t.Fatal("transcript not saved to sink")
	}
	if strings.Contains(text, "jane@example.com") {
		t.Errorf("raw email leaked into sink:\n%s", text)
	}
	if !strings.Contains(text, "[email]") {
		t.Errorf("expected redaction marker in:\n%s", text)
	}
}

// Filtered conversations never reach the sink.
func TestProcessFilteredSkipsSink(t *testing.T) {
	sink := &memSink{}
	f := writeInput(t, "chat_005.csv", `Time,Sender Type,Message
2025-03-01 09:00:00,user,hi
2025-03-01 09:00:10,bot,Hello!
`)

	dryRunPipeline(sink).Process(context.Background(), f)

	if len(sink.texts) != 0 {
		t.Errorf("filtered transcript saved: %v", sink.texts)
	}
}
