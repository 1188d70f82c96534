package aggregate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/johns/chatlens/internal/record"
)

// Artifact filenames are a stable contract with downstream tooling.
// Renaming one is a breaking change.
const (
	FileRecords           = "per_chat.jsonl"
	FileSummary           = "summary_report.csv"
	FileTopics            = "topics.csv"
	FileFailureCategories = "failure_categories.csv"
	FileFeatureCategories = "feature_categories.csv"
	FileMissingFeatures   = "missing_features.csv"
	FileImprovements      = "improvements.csv"
	FileEscalations       = "escalation_triggers.csv"
	FileErrorPatterns     = "error_patterns.csv"
	FileEmotions          = "user_emotions.csv"
	FileComplexity        = "conversation_complexity.csv"
	FileCategorizedFails  = "categorized_failures.csv"
	FileCategorizedTasks  = "categorized_tasks.csv"
	FileSuccessfulTopics  = "successful_topics.csv"
	FileCapabilities      = "capabilities.csv"
	FileSuccessPatterns   = "success_patterns.csv"
	FileOtherFailures     = "other_failures_breakdown.csv"
	FileOtherTasks        = "other_tasks_breakdown.csv"
	FileMapping           = "problem_conversation_mapping.json"
)

// WriteArtifacts renders the durable output set for one run: the raw
// record lines, every frequency table, and the reverse index. The
// directory is created if needed. Partial failures abort: a half-written
// artifact set is worse than none.
func WriteArtifacts(dir string, records []record.Record, s *Summary, m *Mapping) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := record.WriteJSONL(filepath.Join(dir, FileRecords), records); err != nil {
		return err
	}
	if err := WriteSummaryCSV(filepath.Join(dir, FileSummary), s); err != nil {
		return err
	}
	if err := WriteTopicsCSV(filepath.Join(dir, FileTopics), s.Topics); err != nil {
		return err
	}

	tables := []struct {
		file   string
		header string
		c      Counter
		total  int
	}{
		{FileFailureCategories, "failure_category", s.FailureCategories, s.Total},
		{FileFeatureCategories, "feature_category", s.FeatureCategories, s.Total},
		{FileMissingFeatures, "missing_feature", s.MissingFeatures, s.Total},
		{FileImprovements, "improvement", s.Improvements, s.Total},
		{FileEscalations, "escalation_trigger", s.EscalationTriggers, s.Total},
		{FileErrorPatterns, "error_pattern", s.ErrorPatterns, s.Total},
		{FileEmotions, "user_emotion", s.UserEmotions, s.Total},
		{FileComplexity, "conversation_complexity", s.Complexity, s.Total},
		{FileCategorizedFails, "failure_category", s.CategorizedFailures, s.Total},
		{FileCategorizedTasks, "task_category", s.CategorizedTasks, s.Total},
		{FileSuccessfulTopics, "successful_topic", s.SuccessfulTopics, s.Solved},
		{FileCapabilities, "capability", s.Capabilities, s.Solved},
		{FileSuccessPatterns, "success_pattern", s.SuccessPatterns, s.Solved},
		{FileOtherFailures, "other_failure_reason", s.OtherFailures, 0},
		{FileOtherTasks, "other_user_task", s.OtherTasks, 0},
	}
	for _, t := range tables {
		if err := WriteCounterCSV(filepath.Join(dir, t.file), t.header, t.c, t.total); err != nil {
			return err
		}
	}

	return writeMappingJSON(filepath.Join(dir, FileMapping), m)
}

func writeMappingJSON(path string, m *Mapping) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
