package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johns/chatlens/internal/aggregate"
	"github.com/johns/chatlens/internal/record"
)

func actionable(file, improvement string, priority int, effort string) record.Record {
	return record.Record{
		File:                   file,
		Topics:                 []string{"refund"},
		UserTasksAttempted:     []string{"get refund"},
		WhyUnsolved:            []string{"bot cannot process refunds"},
		NeedsHuman:             true,
		FailureCategory:        record.FailureFeatureNotSupported,
		MissingFeature:         "refund processing system",
		FeatureCategory:        "billing",
		ImprovementNeeded:      improvement,
		EscalationTriggers:     []string{"bot-cannot-process-refund"},
		ErrorPatterns:          []string{"refund-endpoint-missing"},
		UserEmotion:            "frustrated",
		ConversationComplexity: "moderate",
		FeaturePriorityScore:   priority,
		ImprovementEffort:      effort,
		ConversationQuality:    record.QualityHighValue,
	}
}

func handled(file string) record.Record {
	return record.Record{
		File:                   file,
		Topics:                 []string{"greeting"},
		Solved:                 true,
		Capabilities:           []string{"greeting"},
		DemonstratedSkills:     []string{"greeting"},
		SuccessPatterns:        []string{"friendly-tone"},
		FailureCategory:        "other",
		ImprovementNeeded:      "bot-handled-perfectly",
		UserEmotion:            "satisfied",
		ConversationComplexity: "simple",
		ConversationQuality:    record.QualityHighValue,
	}
}

func TestBuildRoadmapGroupsAndSorts(t *testing.T) {
	var records []record.Record
	for i := 0; i < 12; i++ {
		records = append(records, actionable("big", "integrate with billing system API", 4, "medium"))
	}
	for i := 0; i < 6; i++ {
		records = append(records, actionable("mid", "add order lookup", 3, "low"))
	}
	records = append(records, actionable("small", "expose shipping ETA", 2, "low"))
	records = append(records, handled("ok.csv"))

	roadmap := BuildRoadmap(records)

	if len(roadmap) != 3 {
		t.Fatalf("roadmap items: %d, want 3", len(roadmap))
	}
	if roadmap[0].Improvement != "integrate with billing system api" || roadmap[0].Count != 12 {
		t.Errorf("top item: %+v", roadmap[0])
	}
	if roadmap[0].AvgPriority != 4.0 || roadmap[0].Effort != "medium" {
		t.Errorf("top item stats: %+v", roadmap[0])
	}
	if roadmap[1].Count != 6 || roadmap[2].Count != 1 {
		t.Errorf("order: %+v", roadmap)
	}
}

func TestBuildRoadmapExcludesPlaceholders(t *testing.T) {
	records := []record.Record{handled("a.csv"), handled("b.csv")}
	if got := BuildRoadmap(records); len(got) != 0 {
		t.Errorf("placeholders made the roadmap: %+v", got)
	}
}

func TestWriteExecutiveReportDetailed(t *testing.T) {
	records := []record.Record{handled("ok.csv")}
	for i := 0; i < 11; i++ {
		records = append(records, actionable("f", "integrate with billing system API", 4, "medium"))
	}
	s := aggregate.Aggregate(records)

	path := filepath.Join(t.TempDir(), "executive_report.md")
	if err := WriteExecutiveReport(path, records, s, false); err != nil {
		t.Fatalf("WriteExecutiveReport: %v", err)
	}

	text := readFile(t, path)
	for _, want := range []string{
		"## Executive Summary",
		"## Prioritized Improvement Roadmap",
		"High-Impact Improvements",
		"integrate with billing system api",
		"- **Effort**: MEDIUM",
		"#### Success Patterns",
		"friendly-tone",
		"## Action Plan",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteExecutiveReportShort(t *testing.T) {
	records := []record.Record{
		actionable("a.csv", "add refund API", 5, "high"),
		handled("b.csv"),
	}
	s := aggregate.Aggregate(records)

	path := filepath.Join(t.TempDir(), "executive_report.md")
	if err := WriteExecutiveReport(path, records, s, true); err != nil {
		t.Fatal(err)
	}

	text := readFile(t, path)
	if !strings.Contains(text, "Executive Brief") {
		t.Errorf("short report missing brief header:\n%s", text)
	}
	if strings.Contains(text, "Prioritized Improvement Roadmap") {
		t.Errorf("short report should not carry the full roadmap")
	}
}

func TestWriteExecutiveReportEmptyRoadmap(t *testing.T) {
	records := []record.Record{handled("a.csv")}
	s := aggregate.Aggregate(records)

	path := filepath.Join(t.TempDir(), "executive_report.md")
	if err := WriteExecutiveReport(path, records, s, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(readFile(t, path), "No Actionable Improvements Needed") {
		t.Error("empty roadmap section missing")
	}
}

func TestWriteSummaryMarkdown(t *testing.T) {
	records := []record.Record{
		handled("a.csv"),
		actionable("b.csv", "add refund API", 4, "medium"),
	}
	s := aggregate.Aggregate(records)

	path := filepath.Join(t.TempDir(), "summary_report.md")
	if err := WriteSummaryMarkdown(path, s); err != nil {
		t.Fatalf("WriteSummaryMarkdown: %v", err)
	}

	text := readFile(t, path)
	for _, want := range []string{
		"# Chatbot Analysis Summary Report",
		"**Total Conversations**: 2",
		"## Top Failure Categories",
		"## Categorized User Tasks",
		"#### Success Patterns",
		"friendly-tone",
		"## Key Insights",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
