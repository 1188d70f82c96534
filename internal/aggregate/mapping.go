package aggregate

import (
	"sort"

	"github.com/johns/chatlens/internal/record"
)

// Mapping is the reverse index consumed by the dashboard: canonical
// problem category -> raw label -> contributing files, plus a success
// view of demonstrated capabilities.
//
// Invariant: every file appears under exactly one problem category, no
// matter how many of its labels matched different categories. A file in
// the problems index never also appears in the success index.
type Mapping struct {
	Problems  map[string]map[string][]string `json:"problems"`
	Successes map[string][]string            `json:"successful_capabilities"`
}

// problemLabels extracts the real problem labels of one record: a
// missing feature when the failure was feature-not-supported, any
// actionable improvement, and every escalation trigger and error
// pattern. Placeholder labels ("no-escalation-needed", "no-errors-
// detected", ...) are excluded by the no-issue filter.
func problemLabels(r *record.Record) []string {
	var labels []string
	if r.FailureCategory == record.FailureFeatureNotSupported && !IsNoIssue(r.MissingFeature) {
		labels = append(labels, NormalizeLabel(r.MissingFeature))
	}
	if !IsNoIssue(r.ImprovementNeeded) {
		labels = append(labels, NormalizeLabel(r.ImprovementNeeded))
	}
	for _, trigger := range r.EscalationTriggers {
		if !IsNoIssue(trigger) {
			labels = append(labels, NormalizeLabel(trigger))
		}
	}
	for _, pattern := range r.ErrorPatterns {
		if !IsNoIssue(pattern) {
			labels = append(labels, NormalizeLabel(pattern))
		}
	}
	return labels
}

// fileCategory resolves which single problem category claims a file:
// the alphabetically first category any of its labels matched. The
// category names are chosen so plain string order is the precedence
// order.
func fileCategory(labels []string) string {
	best := ""
	for _, label := range labels {
		cat := CategoryFor(label)
		if best == "" || cat < best {
			best = cat
		}
	}
	return best
}

// BuildMapping constructs the reverse index from a record multiset.
// Rebuilt wholesale on every run; never patched incrementally.
func BuildMapping(records []record.Record) *Mapping {
	m := &Mapping{
		Problems:  map[string]map[string][]string{},
		Successes: map[string][]string{},
	}

	claimed := map[string]bool{}

	for i := range records {
		r := &records[i]
		labels := problemLabels(r)
		if len(labels) == 0 {
			continue
		}
		cat := fileCategory(labels)
		byLabel := m.Problems[cat]
		if byLabel == nil {
			byLabel = map[string][]string{}
			m.Problems[cat] = byLabel
		}
		for _, label := range labels {
			byLabel[label] = append(byLabel[label], r.File)
		}
		claimed[r.File] = true
	}

	for i := range records {
		r := &records[i]
		if !r.Solved || claimed[r.File] {
			continue
		}
		for _, skill := range r.DemonstratedSkills {
			if IsNoIssue(skill) {
				continue
			}
			label := NormalizeLabel(skill)
			m.Successes[label] = append(m.Successes[label], r.File)
		}
	}

	m.sortFiles()
	return m
}

// sortFiles orders and dedupes every file list for stable output.
func (m *Mapping) sortFiles() {
	for _, byLabel := range m.Problems {
		for label, files := range byLabel {
			byLabel[label] = sortUnique(files)
		}
	}
	for label, files := range m.Successes {
		m.Successes[label] = sortUnique(files)
	}
}

func sortUnique(s []string) []string {
	sort.Strings(s)
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}
