package transcript

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var fractionalSeconds = regexp.MustCompile(`\.\d+$`)

// NormalizeFile reads a conversation CSV export and renders it as a
// speaker-tagged transcript.
func NormalizeFile(path string, maxChars int) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Normalize(f, filepath.Base(path), maxChars)
}

// Normalize parses a rectangular CSV table into a Transcript. Column
// naming varies across exports, so resolution is tolerant: a timestamp
// column contains "Time", a sender column starts with "sender type", a
// message column is named "message". If any of the three is missing the
// table degrades to a best-effort join of text columns. maxChars <= 0
// disables truncation; when enabled, truncation cuts at the budget.
func Normalize(r io.Reader, file string, maxChars int) (*Transcript, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // exports are not always rectangular

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return &Transcript{File: file}, nil
	}

	header := rows[0]
	timeCol, senderCol, msgCol := resolveColumns(header)

	t := &Transcript{File: file}
	if timeCol < 0 || senderCol < 0 || msgCol < 0 {
		t.Fallback = truncate(fallbackJoin(rows), maxChars)
		return t, nil
	}

	for _, row := range rows[1:] {
		msg := cell(row, msgCol)
		if strings.TrimSpace(msg) == "" {
			continue
		}
		ts := fractionalSeconds.ReplaceAllString(cell(row, timeCol), "")
		t.Lines = append(t.Lines, Line{
			Timestamp: ts,
			Speaker:   normalizeSpeaker(cell(row, senderCol)),
			Message:   msg,
		})
	}

	if maxChars > 0 {
		t.Fallback = truncate(t.Text(), maxChars)
		t.Lines = nil
	}
	return t, nil
}

func resolveColumns(header []string) (timeCol, senderCol, msgCol int) {
	timeCol, senderCol, msgCol = -1, -1, -1
	for i, name := range header {
		lower := strings.ToLower(strings.TrimSpace(name))
		switch {
		case timeCol < 0 && strings.Contains(name, "Time"):
			timeCol = i
		case senderCol < 0 && strings.HasPrefix(lower, "sender type"):
			senderCol = i
		case msgCol < 0 && lower == "message":
			msgCol = i
		}
	}
	return
}

func normalizeSpeaker(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "web", "user", "customer", "client":
		return "user"
	case "bot", "assistant", "agent", "system":
		return "bot"
	case "":
		return "user"
	}
	return v
}

// fallbackJoin concatenates all non-numeric cell values per row, so a
// table with unrecognized columns still yields something classifiable.
func fallbackJoin(rows [][]string) string {
	var lines []string
	for _, row := range rows[1:] {
		var parts []string
		for _, c := range row {
			c = strings.TrimSpace(c)
			if c == "" || isNumeric(c) {
				continue
			}
			parts = append(parts, c)
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, " | "))
		}
	}
	return strings.Join(lines, "\n")
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	return s[:maxChars]
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
