package dashboard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/johns/chatlens/internal/aggregate"
	"github.com/johns/chatlens/internal/record"
)

func testRecords() []record.Record {
	problem := record.Record{
		File:                   "bad.csv",
		Topics:                 []string{"refund"},
		WhyUnsolved:            []string{"bot cannot process refunds"},
		NeedsHuman:             true,
		FailureCategory:        record.FailureFeatureNotSupported,
		MissingFeature:         "refund processing API",
		FeatureCategory:        "billing",
		ImprovementNeeded:      "integrate with billing system API",
		UserEmotion:            "frustrated",
		ConversationComplexity: "moderate",
		ConversationQuality:    record.QualityHighValue,
	}
	success := record.Record{
		File:                   "good.csv",
		Topics:                 []string{"policy"},
		Solved:                 true,
		Capabilities:           []string{"policy-explanation"},
		DemonstratedSkills:     []string{"policy-explanation"},
		FailureCategory:        "other",
		ImprovementNeeded:      "bot-handled-perfectly",
		UserEmotion:            "satisfied",
		ConversationComplexity: "simple",
		ConversationQuality:    record.QualityHighValue,
	}
	return []record.Record{problem, success}
}

func TestWriteDashboard(t *testing.T) {
	records := testRecords()
	s := aggregate.Aggregate(records)
	m := aggregate.BuildMapping(records)

	path := filepath.Join(t.TempDir(), "dashboard.html")
	err := Write(path, Data{
		Summary: s,
		Mapping: m,
		Transcripts: map[string]string{
			"bad.csv": "[2025-03-01 09:00:00] user: I want a refund <now>",
		},
		GeneratedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)

	for _, want := range []string{
		"Chatbot Analysis Dashboard",
		"Generated 2025-03-01 12:00 UTC",
		"api-system-access",
		"refund processing api",
		"bad.csv",
		"policy-explanation",
		"good.csv",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}

	// Transcript content is escaped, not injected raw.
	if strings.Contains(html, "<now>") {
		t.Error("transcript HTML not escaped")
	}
	if !strings.Contains(html, "&lt;now&gt;") {
		t.Error("escaped transcript text missing")
	}

	// Self-contained: no external asset references.
	for _, forbidden := range []string{"<script src=", "<link rel="} {
		if strings.Contains(html, forbidden) {
			t.Errorf("dashboard references external asset: %s", forbidden)
		}
	}
}

func TestWriteDashboardEmptyRun(t *testing.T) {
	s := aggregate.Aggregate(nil)
	m := aggregate.BuildMapping(nil)

	path := filepath.Join(t.TempDir(), "dashboard.html")
	if err := Write(path, Data{Summary: s, Mapping: m, GeneratedAt: time.Now()}); err != nil {
		t.Fatalf("Write on empty run: %v", err)
	}
}
