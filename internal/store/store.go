package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/johns/chatlens/internal/record"
)

// Store persists classification records and sanitized transcripts in a
// sqlite database inside the output directory. Records are upserted by
// file name, so re-running a batch over the same corpus replaces rather
// than duplicates. Safe for concurrent use.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
	file        TEXT PRIMARY KEY,
	solved      INTEGER NOT NULL,
	needs_human INTEGER NOT NULL,
	quality     TEXT NOT NULL,
	payload     TEXT NOT NULL,
	updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_records_quality ON records(quality);

CREATE TABLE IF NOT EXISTS transcripts (
	file       TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRecord upserts one classification record. The full record rides
// along as JSON; the indexed columns exist for cheap filtering.
func (s *Store) SaveRecord(r record.Record) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`
		INSERT INTO records (file, solved, needs_human, quality, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(file) DO UPDATE SET
			solved = excluded.solved,
			needs_human = excluded.needs_human,
			quality = excluded.quality,
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP`,
		r.File, boolInt(r.Solved), boolInt(r.NeedsHuman), r.ConversationQuality, string(payload))
	if err != nil {
		return fmt.Errorf("save record %s: %w", r.File, err)
	}
	return nil
}

// SaveRecords upserts a batch inside one transaction.
func (s *Store) SaveRecords(records []record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO records (file, solved, needs_human, quality, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(file) DO UPDATE SET
			solved = excluded.solved,
			needs_human = excluded.needs_human,
			quality = excluded.quality,
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", r.File, err)
		}
		if _, err := stmt.Exec(r.File, boolInt(r.Solved), boolInt(r.NeedsHuman),
			r.ConversationQuality, string(payload)); err != nil {
			return fmt.Errorf("save record %s: %w", r.File, err)
		}
	}
	return tx.Commit()
}

// Records loads every stored record, ordered by file name.
func (s *Store) Records() ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT payload FROM records ORDER BY file`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var r record.Record
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveTranscript upserts the sanitized transcript of one file. It
// implements pipeline.TranscriptSink.
func (s *Store) SaveTranscript(file, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO transcripts (file, text, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(file) DO UPDATE SET
			text = excluded.text,
			updated_at = CURRENT_TIMESTAMP`,
		file, text)
	if err != nil {
		return fmt.Errorf("save transcript %s: %w", file, err)
	}
	return nil
}

// Transcript returns the sanitized transcript for a file, or "" when
// none was stored.
func (s *Store) Transcript(file string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var text string
	err := s.db.QueryRow(`SELECT text FROM transcripts WHERE file = ?`, file).Scan(&text)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load transcript %s: %w", file, err)
	}
	return text, nil
}

// Transcripts loads all sanitized transcripts keyed by file.
func (s *Store) Transcripts() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT file, text FROM transcripts`)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var file, text string
		if err := rows.Scan(&file, &text); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		out[file] = text
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
