package aggregate

import (
	"strings"

	"github.com/johns/chatlens/internal/record"
)

// TopicStat tracks per-topic volume and outcomes.
type TopicStat struct {
	Count  int
	Solved int
}

// SolveRate is the fraction of this topic's conversations marked solved.
func (s TopicStat) SolveRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Solved) / float64(s.Count)
}

// Summary is the full aggregate over one run's records. Built by a pure
// fold, so it is independent of record arrival order and can be rebuilt
// wholesale from per_chat.jsonl at any time.
type Summary struct {
	Total      int
	Solved     int
	NeedsHuman int
	Errors     int

	Topics            map[string]*TopicStat
	FailureCategories Counter
	FeatureCategories Counter
	MissingFeatures   Counter

	CategorizedFailures Counter
	CategorizedTasks    Counter
	Improvements        Counter
	EscalationTriggers  Counter
	ErrorPatterns       Counter
	UserEmotions        Counter
	Complexity          Counter

	SuccessfulTopics Counter
	Capabilities     Counter
	SuccessPatterns  Counter

	// Raw labels that fell into the "other" buckets, kept for their own
	// breakdown tables.
	OtherFailures Counter
	OtherTasks    Counter
}

func newSummary() *Summary {
	return &Summary{
		Topics:              map[string]*TopicStat{},
		FailureCategories:   Counter{},
		FeatureCategories:   Counter{},
		MissingFeatures:     Counter{},
		CategorizedFailures: Counter{},
		CategorizedTasks:    Counter{},
		Improvements:        Counter{},
		EscalationTriggers:  Counter{},
		ErrorPatterns:       Counter{},
		UserEmotions:        Counter{},
		Complexity:          Counter{},
		SuccessfulTopics:    Counter{},
		Capabilities:        Counter{},
		SuccessPatterns:     Counter{},
		OtherFailures:       Counter{},
		OtherTasks:          Counter{},
	}
}

// SolveRate is the overall solved fraction, in percent.
func (s *Summary) SolveRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Solved) / float64(s.Total) * 100
}

// HumanRate is the fraction needing human escalation, in percent.
func (s *Summary) HumanRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.NeedsHuman) / float64(s.Total) * 100
}

// Aggregate folds a multiset of records into a Summary. Records arrive
// in whatever order the dispatcher finished them; nothing here depends
// on it. Missing or sentinel values are skipped, never fatal.
func Aggregate(records []record.Record) *Summary {
	s := newSummary()
	for i := range records {
		s.fold(&records[i])
	}
	return s
}

func (s *Summary) fold(r *record.Record) {
	s.Total++
	if r.Solved {
		s.Solved++
	}
	if r.NeedsHuman {
		s.NeedsHuman++
	}
	if r.ConversationQuality == record.QualityError {
		s.Errors++
	}

	for _, topic := range r.Topics {
		if topic == "" || topic == "unknown" {
			continue
		}
		st := s.Topics[topic]
		if st == nil {
			st = &TopicStat{}
			s.Topics[topic] = st
		}
		st.Count++
		if r.Solved {
			st.Solved++
		}
	}

	if r.FailureCategory != "" && r.FailureCategory != "unknown" {
		s.FailureCategories.Add(r.FailureCategory)
	}
	if fc := r.FeatureCategory; fc != "" && fc != "none" && !strings.HasPrefix(fc, "no-feature-category") {
		s.FeatureCategories.Add(fc)
	}
	if r.FailureCategory == record.FailureFeatureNotSupported && !IsNoIssue(r.MissingFeature) {
		s.MissingFeatures.Add(NormalizeLabel(r.MissingFeature))
	}

	for _, reason := range r.WhyUnsolved {
		bucket := CategorizeFailureReason(reason)
		s.CategorizedFailures.Add(bucket)
		if bucket == CategoryOther && reason != "" {
			s.OtherFailures.Add(strings.ToLower(reason))
		}
	}
	for _, task := range r.UserTasksAttempted {
		bucket := CategorizeUserTask(task)
		s.CategorizedTasks.Add(bucket)
		if bucket == CategoryOther && task != "" {
			s.OtherTasks.Add(strings.ToLower(task))
		}
	}

	s.foldImprovement(r.ImprovementNeeded)
	s.foldTriggers(r.EscalationTriggers)
	s.foldErrorPatterns(r.ErrorPatterns)

	if r.UserEmotion != "" {
		s.UserEmotions.Add(r.UserEmotion)
	}
	if r.ConversationComplexity != "" {
		s.Complexity.Add(r.ConversationComplexity)
	}

	if r.Solved {
		for _, topic := range r.Topics {
			if topic != "" && topic != "unknown" {
				s.SuccessfulTopics.Add(topic)
			}
		}
		for _, c := range r.Capabilities {
			if c != "" {
				s.Capabilities.Add(c)
			}
		}
		for _, p := range r.SuccessPatterns {
			if p != "" {
				s.SuccessPatterns.Add(p)
			}
		}
	}
}

// foldImprovement rolls placeholder improvements into two stable buckets
// so the table is dominated by actionable items, not boilerplate.
func (s *Summary) foldImprovement(improvement string) {
	lower := strings.ToLower(improvement)
	switch {
	case improvement == "" || strings.HasPrefix(lower, "no-improvement-needed"):
		s.Improvements.Add("no-improvement-needed")
	case containsAny(lower, "bot-handled", "user-request-fulfilled", "conversation-successful"):
		s.Improvements.Add("no-improvement-needed-successful")
	case containsAny(lower, "user-abandoned", "conversation-abandoned"):
		s.Improvements.Add("no-improvement-needed-abandoned")
	default:
		s.Improvements.Add(improvement)
	}
}

func (s *Summary) foldTriggers(triggers []string) {
	if len(triggers) == 0 {
		s.EscalationTriggers.Add("no-escalation-triggers-provided")
		return
	}
	for _, trigger := range triggers {
		if trigger == "" || trigger == "none" {
			continue
		}
		lower := strings.ToLower(trigger)
		switch {
		case containsAny(lower, "no-escalation", "bot-solved", "user-satisfied", "conversation-completed"):
			s.EscalationTriggers.Add("no-escalation-needed-successful")
		case containsAny(lower, "user-abandoned", "conversation-abandoned"):
			s.EscalationTriggers.Add("no-escalation-needed-abandoned")
		default:
			s.EscalationTriggers.Add(trigger)
		}
	}
}

func (s *Summary) foldErrorPatterns(patterns []string) {
	if len(patterns) == 0 {
		s.ErrorPatterns.Add("no-error-patterns-provided")
		return
	}
	for _, p := range patterns {
		if p == "" || p == "none" {
			continue
		}
		lower := strings.ToLower(p)
		switch {
		case containsAny(lower, "no-errors", "system-functioning", "all-requests-successful", "no-technical"):
			s.ErrorPatterns.Add("no-errors-detected-successful")
		case containsAny(lower, "conversation-abandoned", "user-abandoned"):
			s.ErrorPatterns.Add("no-errors-detected-abandoned")
		default:
			s.ErrorPatterns.Add(p)
		}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
