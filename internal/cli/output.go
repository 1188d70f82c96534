package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/johns/chatlens/internal/aggregate"
	"github.com/johns/chatlens/internal/dashboard"
	"github.com/johns/chatlens/internal/record"
	"github.com/johns/chatlens/internal/report"
	"github.com/johns/chatlens/internal/store"
)

const (
	fileSummaryMD   = "summary_report.md"
	fileExecutiveMD = "executive_report.md"
	fileDashboard   = "dashboard.html"
)

// writeOutputs renders the full artifact set for a record multiset:
// JSONL + CSV tables + mapping JSON, both markdown reports, and the
// dashboard. Transcripts for the dashboard come from the store when one
// is available.
func writeOutputs(dir string, records []record.Record, st *store.Store, short bool) error {
	s := aggregate.Aggregate(records)
	m := aggregate.BuildMapping(records)

	if err := aggregate.WriteArtifacts(dir, records, s, m); err != nil {
		return err
	}
	if err := report.WriteSummaryMarkdown(filepath.Join(dir, fileSummaryMD), s); err != nil {
		return fmt.Errorf("write summary markdown: %w", err)
	}
	if err := report.WriteExecutiveReport(filepath.Join(dir, fileExecutiveMD), records, s, short); err != nil {
		return fmt.Errorf("write executive report: %w", err)
	}

	transcripts := map[string]string{}
	if st != nil {
		var err error
		transcripts, err = st.Transcripts()
		if err != nil {
			logger.Warn("load transcripts for dashboard", "error", err)
			transcripts = map[string]string{}
		}
	}
	err := dashboard.Write(filepath.Join(dir, fileDashboard), dashboard.Data{
		Summary:     s,
		Mapping:     m,
		Transcripts: transcripts,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	logger.Info("artifacts written",
		"dir", dir,
		"records", len(records),
		"solve_rate", fmt.Sprintf("%.1f%%", s.SolveRate()),
	)
	return nil
}
