package aggregate

import "sort"

// Counter is a label frequency table.
type Counter map[string]int

func (c Counter) Add(label string) {
	c[label]++
}

// Entry is one row of a sorted frequency table.
type Entry struct {
	Label string
	Count int
}

// Sorted returns entries by descending count, label ascending on ties.
// The tiebreak keeps artifact output byte-stable across runs.
func (c Counter) Sorted() []Entry {
	entries := make([]Entry, 0, len(c))
	for label, count := range c {
		entries = append(entries, Entry{Label: label, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// Top returns the most frequent label, or fallback when empty.
func (c Counter) Top(fallback string) string {
	entries := c.Sorted()
	if len(entries) == 0 {
		return fallback
	}
	return entries[0].Label
}
