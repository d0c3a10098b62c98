// Package sessionlog provides append and query access to the session_log
// table: the audit trail of what each instance did, written by the log
// command and on deregistration, read back by the status command.
package sessionlog

import (
	"context"
	"database/sql"
	"fmt"

	"clambake/pkg/protocol"
)

// Store manages the session_log table in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// AppendParams holds parameters for one session log entry.
type AppendParams struct {
	InstanceID    string
	Project       string
	Action        string
	Summary       string
	FilesModified []string
}

// Append writes one entry. Entries are never updated or deleted.
func (s *Store) Append(ctx context.Context, p AppendParams) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_log (instance_id, project, action, summary, files_modified)
		 VALUES (?, ?, ?, ?, ?)`,
		p.InstanceID, p.Project, p.Action, p.Summary,
		protocol.EncodeList(p.FilesModified),
	)
	if err != nil {
		return fmt.Errorf("append session log: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]protocol.SessionEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, instance_id, COALESCE(project, ''), action, summary,
		        files_modified, created_at
		 FROM session_log
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent session log: %w", err)
	}
	defer rows.Close()

	var entries []protocol.SessionEntry
	for rows.Next() {
		var e protocol.SessionEntry
		var files string
		if err := rows.Scan(
			&e.ID, &e.InstanceID, &e.Project, &e.Action, &e.Summary,
			&files, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan session entry: %w", err)
		}
		e.FilesModified = protocol.DecodeList(files)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session log rows: %w", err)
	}
	return entries, nil
}
