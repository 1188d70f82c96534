package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/johns/chatlens/internal/aggregate"
)

// WriteSummaryMarkdown renders the run summary as a markdown narrative.
// Section order mirrors the CSV artifact set so a reader can cross-check
// any number against its table.
func WriteSummaryMarkdown(path string, s *aggregate.Summary) error {
	var b strings.Builder

	b.WriteString("# Chatbot Analysis Summary Report\n\n")
	b.WriteString("## Overall Statistics\n")
	fmt.Fprintf(&b, "- **Total Conversations**: %d\n", s.Total)
	fmt.Fprintf(&b, "- **Solved Conversations**: %d (%.1f%%)\n", s.Solved, s.SolveRate())
	fmt.Fprintf(&b, "- **Needs Human**: %d (%.1f%%)\n", s.NeedsHuman, s.HumanRate())
	fmt.Fprintf(&b, "- **Processing Errors**: %d\n", s.Errors)

	writeTopSection(&b, "Top Failure Categories", s.FailureCategories, s.Total, 5)
	writeTopSection(&b, "Top Feature Categories", s.FeatureCategories, s.Total, 5)
	writeTopicSection(&b, s)
	writeTopSection(&b, "Categorized Failure Reasons", s.CategorizedFailures, s.Total, 0)
	writeTopSection(&b, "Categorized User Tasks", s.CategorizedTasks, s.Total, 0)

	b.WriteString("\n## Improvement Priorities\n")
	for i, e := range s.Improvements.Sorted() {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- **%s Priority**: %s (%d conversations need this)\n",
			priorityWord(e.Count), e.Label, e.Count)
	}

	writeBreakdown(&b, "Top 'Other' Failure Reasons (need better categorization)", s.OtherFailures)
	writeBreakdown(&b, "Top 'Other' User Tasks (need better categorization)", s.OtherTasks)

	b.WriteString("\n## Success Analysis\n")
	fmt.Fprintf(&b, "### What the Chatbot Does Well (%d successful conversations)\n", s.Solved)
	if s.Solved > 0 {
		writeSuccessSection(&b, "Top Successful Topics", s.SuccessfulTopics, s.Solved, 5)
		writeSuccessSection(&b, "Demonstrated Capabilities", s.Capabilities, s.Solved, 5)
		writeSuccessSection(&b, "Success Patterns", s.SuccessPatterns, s.Solved, 5)
	}

	b.WriteString("\n## Key Insights\n")
	fmt.Fprintf(&b, "1. **Most Common Issue**: %s\n", s.CategorizedFailures.Top("N/A"))
	fmt.Fprintf(&b, "2. **Top User Need**: %s\n", s.CategorizedTasks.Top("N/A"))
	fmt.Fprintf(&b, "3. **Priority Improvement**: %s\n", s.Improvements.Top("N/A"))

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeTopSection(b *strings.Builder, title string, c aggregate.Counter, total, limit int) {
	fmt.Fprintf(b, "\n## %s\n", title)
	for i, e := range c.Sorted() {
		if limit > 0 && i >= limit {
			break
		}
		pct := 0.0
		if total > 0 {
			pct = float64(e.Count) / float64(total) * 100
		}
		fmt.Fprintf(b, "- **%s**: %d conversations (%.1f%%)\n", e.Label, e.Count, pct)
	}
}

func writeTopicSection(b *strings.Builder, s *aggregate.Summary) {
	b.WriteString("\n## Top Topics\n")
	topics := aggregate.Counter{}
	for t, st := range s.Topics {
		topics[t] = st.Count
	}
	for i, e := range topics.Sorted() {
		if i >= 5 {
			break
		}
		st := s.Topics[e.Label]
		fmt.Fprintf(b, "- **%s**: %d conversations, %.1f%% solved\n", e.Label, st.Count, st.SolveRate()*100)
	}
}

func writeSuccessSection(b *strings.Builder, title string, c aggregate.Counter, solved, limit int) {
	fmt.Fprintf(b, "\n#### %s\n", title)
	for i, e := range c.Sorted() {
		if i >= limit {
			break
		}
		pct := float64(e.Count) / float64(solved) * 100
		fmt.Fprintf(b, "- **%s**: %d conversations (%.1f%% of successes)\n", e.Label, e.Count, pct)
	}
}

func writeBreakdown(b *strings.Builder, title string, c aggregate.Counter) {
	if len(c) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n", title)
	for i, e := range c.Sorted() {
		if i >= 10 {
			break
		}
		fmt.Fprintf(b, "- **%s**: %d occurrences\n", e.Label, e.Count)
	}
	b.WriteString("\n**Recommendation**: add these patterns to the categorization tables.\n")
}

func priorityWord(count int) string {
	switch {
	case count >= 3:
		return "High"
	case count >= 2:
		return "Medium"
	default:
		return "Low"
	}
}
