package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/johns/chatlens/internal/aggregate"
	"github.com/johns/chatlens/internal/record"
)

// RoadmapItem is one actionable improvement with its impact statistics.
type RoadmapItem struct {
	Improvement     string
	Count           int
	Percentage      float64
	AvgPriority     float64
	Effort          string // most common effort across occurrences
	FailureCategory string // most common failure category
}

// BuildRoadmap folds records into a prioritized improvement list.
// Placeholder improvements ("bot handled it fine") are excluded; the
// roadmap only carries items that need development work. Sorted by
// impact, then priority, then name for stable output.
func BuildRoadmap(records []record.Record) []RoadmapItem {
	type acc struct {
		count       int
		prioritySum int
		efforts     aggregate.Counter
		categories  aggregate.Counter
	}
	byImprovement := map[string]*acc{}

	for i := range records {
		r := &records[i]
		if aggregate.IsNoIssue(r.ImprovementNeeded) {
			continue
		}
		key := aggregate.NormalizeLabel(r.ImprovementNeeded)
		a := byImprovement[key]
		if a == nil {
			a = &acc{efforts: aggregate.Counter{}, categories: aggregate.Counter{}}
			byImprovement[key] = a
		}
		a.count++
		a.prioritySum += r.FeaturePriorityScore
		a.efforts.Add(r.ImprovementEffort)
		a.categories.Add(r.FailureCategory)
	}

	total := len(records)
	items := make([]RoadmapItem, 0, len(byImprovement))
	for improvement, a := range byImprovement {
		pct := 0.0
		if total > 0 {
			pct = float64(a.count) / float64(total) * 100
		}
		items = append(items, RoadmapItem{
			Improvement:     improvement,
			Count:           a.count,
			Percentage:      pct,
			AvgPriority:     float64(a.prioritySum) / float64(a.count),
			Effort:          a.efforts.Top("unknown"),
			FailureCategory: a.categories.Top("unknown"),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		if items[i].AvgPriority != items[j].AvgPriority {
			return items[i].AvgPriority > items[j].AvgPriority
		}
		return items[i].Improvement < items[j].Improvement
	})
	return items
}

// WriteExecutiveReport renders the stakeholder-facing markdown report.
// short selects the one-page variant.
func WriteExecutiveReport(path string, records []record.Record, s *aggregate.Summary, short bool) error {
	roadmap := BuildRoadmap(records)

	var b strings.Builder
	if short {
		writeConcise(&b, s, roadmap)
	} else {
		writeDetailed(&b, s, roadmap)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeConcise(b *strings.Builder, s *aggregate.Summary, roadmap []RoadmapItem) {
	b.WriteString("# Chatbot Performance: Executive Brief\n\n")
	fmt.Fprintf(b, "- **Conversations analyzed**: %d\n", s.Total)
	fmt.Fprintf(b, "- **Solve rate**: %.1f%%\n", s.SolveRate())
	fmt.Fprintf(b, "- **Escalation rate**: %.1f%%\n", s.HumanRate())
	fmt.Fprintf(b, "- **Top failure category**: %s\n", s.FailureCategories.Top("N/A"))

	b.WriteString("\n## Top Missing Features\n")
	for i, e := range s.MissingFeatures.Sorted() {
		if i >= 3 {
			break
		}
		fmt.Fprintf(b, "%d. %s (%d conversations)\n", i+1, e.Label, e.Count)
	}

	b.WriteString("\n## Top Improvements\n")
	for i, item := range roadmap {
		if i >= 3 {
			break
		}
		fmt.Fprintf(b, "%d. %s (%d conversations, effort %s)\n", i+1, item.Improvement, item.Count, item.Effort)
	}
}

func writeDetailed(b *strings.Builder, s *aggregate.Summary, roadmap []RoadmapItem) {
	b.WriteString("# Chatbot Performance: Executive Report\n")

	b.WriteString("\n## Executive Summary\n")
	fmt.Fprintf(b, "- **Total Conversations Analyzed**: %d\n", s.Total)
	fmt.Fprintf(b, "- **Solve Rate**: %.1f%% (%d conversations)\n", s.SolveRate(), s.Solved)
	fmt.Fprintf(b, "- **Escalation Rate**: %.1f%% (%d conversations)\n", s.HumanRate(), s.NeedsHuman)
	fmt.Fprintf(b, "- **Processing Errors**: %d\n", s.Errors)
	fmt.Fprintf(b, "- **Most Common Failure**: %s\n", s.FailureCategories.Top("N/A"))

	b.WriteString("\n## Problem Analysis\n")
	b.WriteString("\n### Missing Features by Demand\n")
	for i, e := range s.MissingFeatures.Sorted() {
		if i >= 10 {
			break
		}
		fmt.Fprintf(b, "- **%s**: %d conversations need this\n", e.Label, e.Count)
	}
	writeTopSection(b, "Failure Categories", s.FailureCategories, s.Total, 0)

	b.WriteString("\n## Success Analysis\n")
	if s.Solved > 0 {
		writeSuccessSection(b, "Top Successful Topics", s.SuccessfulTopics, s.Solved, 5)
		writeSuccessSection(b, "Demonstrated Capabilities", s.Capabilities, s.Solved, 5)
		writeSuccessSection(b, "Success Patterns", s.SuccessPatterns, s.Solved, 5)
	} else {
		b.WriteString("No solved conversations in this run.\n")
	}

	writeRoadmap(b, s, roadmap)

	b.WriteString("\n## Action Plan\n")
	b.WriteString("- **Development Team**: focus on the high-impact missing features above\n")
	b.WriteString("- **Support Team**: prepare escalation paths for the top failure categories\n")
	b.WriteString("- **Product Team**: prioritize the roadmap by impact and effort\n")
}

func writeRoadmap(b *strings.Builder, s *aggregate.Summary, roadmap []RoadmapItem) {
	b.WriteString("\n## Prioritized Improvement Roadmap\n")

	if len(roadmap) == 0 {
		handled := s.Total - s.Errors
		b.WriteString("\n### No Actionable Improvements Needed\n")
		fmt.Fprintf(b, "- %d conversations were handled without requiring changes\n", handled)
		b.WriteString("- Monitor for new failure patterns as usage grows\n")
		return
	}

	b.WriteString("\n**Impact**: number of conversations affected. ")
	b.WriteString("**Effort**: low (UI changes), medium (API integration), high (new systems).\n")

	tiers := []struct {
		title    string
		min, max int
	}{
		{"High-Impact Improvements (10+ conversations)", 10, 1 << 30},
		{"Medium-Impact Improvements (5-9 conversations)", 5, 9},
		{"Low-Impact Improvements (2-4 conversations)", 2, 4},
	}
	for _, tier := range tiers {
		fmt.Fprintf(b, "\n### %s\n", tier.title)
		for _, item := range roadmap {
			if item.Count < tier.min || item.Count > tier.max {
				continue
			}
			fmt.Fprintf(b, "\n**%s**\n", item.Improvement)
			fmt.Fprintf(b, "- **Impact**: %d conversations (%.1f%%)\n", item.Count, item.Percentage)
			fmt.Fprintf(b, "- **Effort**: %s\n", strings.ToUpper(item.Effort))
			fmt.Fprintf(b, "- **Priority Score**: %.1f/5\n", item.AvgPriority)
			fmt.Fprintf(b, "- **Failure Category**: %s\n", item.FailureCategory)
		}
	}

	fmt.Fprintf(b, "\n### Summary\n")
	fmt.Fprintf(b, "- **Actionable improvements**: %d unique items\n", len(roadmap))
	fmt.Fprintf(b, "- **Total conversations analyzed**: %d\n", s.Total)
}
