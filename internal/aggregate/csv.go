package aggregate

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
)

// writeCSV writes one table, header first, fsynced by Close semantics of
// os.WriteFile-style usage.
func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// WriteCounterCSV writes a label/count/percentage table. total <= 0
// omits the percentage column.
func WriteCounterCSV(path, labelHeader string, c Counter, total int) error {
	var header []string
	var rows [][]string
	if total > 0 {
		header = []string{labelHeader, "count", "percentage"}
		for _, e := range c.Sorted() {
			pct := float64(e.Count) / float64(total) * 100
			rows = append(rows, []string{e.Label, fmt.Sprintf("%d", e.Count), fmt.Sprintf("%.1f", pct)})
		}
	} else {
		header = []string{labelHeader, "count"}
		for _, e := range c.Sorted() {
			rows = append(rows, []string{e.Label, fmt.Sprintf("%d", e.Count)})
		}
	}
	return writeCSV(path, header, rows)
}

// WriteTopicsCSV writes the per-topic table with solve rates.
func WriteTopicsCSV(path string, topics map[string]*TopicStat) error {
	type row struct {
		topic string
		stat  *TopicStat
	}
	rows := make([]row, 0, len(topics))
	for t, st := range topics {
		rows = append(rows, row{t, st})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stat.Count != rows[j].stat.Count {
			return rows[i].stat.Count > rows[j].stat.Count
		}
		return rows[i].topic < rows[j].topic
	})

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.topic,
			fmt.Sprintf("%d", r.stat.Count),
			fmt.Sprintf("%d", r.stat.Solved),
			fmt.Sprintf("%.1f", r.stat.SolveRate()*100),
		})
	}
	return writeCSV(path, []string{"topic", "count", "solved", "solve_rate_pct"}, out)
}

// WriteSummaryCSV writes the headline metric/value table.
func WriteSummaryCSV(path string, s *Summary) error {
	rows := [][]string{
		{"Total Conversations", fmt.Sprintf("%d", s.Total)},
		{"Solved Conversations", fmt.Sprintf("%d", s.Solved)},
		{"Solve Rate (%)", fmt.Sprintf("%.1f%%", s.SolveRate())},
		{"Needs Human (%)", fmt.Sprintf("%.1f%%", s.HumanRate())},
		{"Processing Errors", fmt.Sprintf("%d", s.Errors)},
		{"Top Failure Category", s.FailureCategories.Top("N/A")},
		{"Top Feature Category", s.FeatureCategories.Top("N/A")},
		{"Top Topic", topTopic(s.Topics)},
		{"Top Categorized Failure", s.CategorizedFailures.Top("N/A")},
		{"Top Categorized Task", s.CategorizedTasks.Top("N/A")},
	}
	return writeCSV(path, []string{"metric", "value"}, rows)
}

func topTopic(topics map[string]*TopicStat) string {
	best, bestCount := "N/A", 0
	for t, st := range topics {
		if st.Count > bestCount || (st.Count == bestCount && bestCount > 0 && t < best) {
			best, bestCount = t, st.Count
		}
	}
	return best
}
