// Package journal keeps a local record of every token status mutation the
// console attempted and how it ended.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	OutcomeApplied    = "applied"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
)

type Entry struct {
	EntryID    string    `json:"entry_id"`
	TokenID    string    `json:"token_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Journal struct {
	db *sql.DB
}

func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize journal: %w", err)
	}
	return j, nil
}

func (j *Journal) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS status_mutations (
		entry_id TEXT PRIMARY KEY,
		token_id TEXT NOT NULL,
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_status_mutations_created_at ON status_mutations(created_at);
	CREATE INDEX IF NOT EXISTS idx_status_mutations_token ON status_mutations(token_id);
	`
	_, err := j.db.Exec(schema)
	return err
}

func (j *Journal) Record(ctx context.Context, entry Entry) error {
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO status_mutations (entry_id, token_id, from_status, to_status, outcome, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.EntryID, entry.TokenID, entry.FromStatus, entry.ToStatus, entry.Outcome, entry.Detail, entry.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("record mutation: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first. tokenID narrows the list
// when non-empty.
func (j *Journal) Recent(ctx context.Context, tokenID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT entry_id, token_id, from_status, to_status, outcome, detail, created_at
		FROM status_mutations
	`
	args := []any{}
	if tokenID != "" {
		query += ` WHERE token_id = ?`
		args = append(args, tokenID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mutations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.EntryID, &e.TokenID, &e.FromStatus, &e.ToStatus, &e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mutation: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}
