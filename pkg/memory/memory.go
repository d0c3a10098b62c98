// Package memory provides the shared knowledge store: project-scoped and
// global entries with type, tags, and lifecycle status. Entries are never
// hard-deleted; moving the status off "active" is the deletion-equivalent.
// There is no versioning; the latest write wins.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clambake/pkg/protocol"
)

// Store manages the project_memory and global_memory tables in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EntryParams holds parameters for inserting a new memory entry.
type EntryParams struct {
	Project      string // ignored for global entries
	Type         string
	Title        string
	Content      string
	Tags         []string
	RelatedFiles []string // project scope only
	CreatedBy    string
}

// RememberProject inserts a project-scoped entry and returns its id.
func (s *Store) RememberProject(ctx context.Context, p EntryParams) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO project_memory
		     (project, memory_type, title, content, tags, related_files, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Project, p.Type, p.Title, p.Content,
		protocol.EncodeList(p.Tags), protocol.EncodeList(p.RelatedFiles), p.CreatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("remember project memory: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("remember project memory id: %w", err)
	}
	return id, nil
}

// RememberGlobal inserts a global entry and returns its id.
func (s *Store) RememberGlobal(ctx context.Context, p EntryParams) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO global_memory (memory_type, title, content, tags, created_by)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Type, p.Title, p.Content, protocol.EncodeList(p.Tags), p.CreatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("remember global memory: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("remember global memory id: %w", err)
	}
	return id, nil
}

// RecallOpts configures a memory query. Project and Global select the scope;
// when Global is false Project must be set.
type RecallOpts struct {
	Global  bool
	Project string
	Type    string // optional filter
	Search  string // case-insensitive substring match on title or content
	Limit   int    // default 20
}

// Recall returns entries matching the filters, most recently updated first.
// Project-scoped recall only surfaces entries still in active status.
func (s *Store) Recall(ctx context.Context, opts RecallOpts) ([]protocol.MemoryEntry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	var conditions []string
	var args []any

	if !opts.Global {
		conditions = append(conditions, "project = ?", "status = 'active'")
		args = append(args, opts.Project)
	}
	if opts.Type != "" {
		conditions = append(conditions, "memory_type = ?")
		args = append(args, opts.Type)
	}
	if opts.Search != "" {
		conditions = append(conditions, "(title LIKE ? OR content LIKE ?)")
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern)
	}

	var q string
	if opts.Global {
		q = `SELECT id, '', memory_type, title, content, tags, '[]', status,
		            created_by, created_at, updated_at
		     FROM global_memory`
	} else {
		q = `SELECT id, project, memory_type, title, content, tags, related_files,
		            status, created_by, created_at, updated_at
		     FROM project_memory`
	}
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY updated_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("recall: %w", err)
	}
	defer rows.Close()

	var entries []protocol.MemoryEntry
	for rows.Next() {
		var e protocol.MemoryEntry
		var tags, relatedFiles string
		if err := rows.Scan(
			&e.ID, &e.Project, &e.Type, &e.Title, &e.Content,
			&tags, &relatedFiles, &e.Status, &e.CreatedBy,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("recall scan: %w", err)
		}
		e.Tags = protocol.DecodeList(tags)
		e.RelatedFiles = protocol.DecodeList(relatedFiles)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recall rows: %w", err)
	}
	return entries, nil
}

// Update is a typed partial update: nil fields are left untouched.
type Update struct {
	Title   *string
	Content *string
	Status  *string
}

// UpdateEntry applies a partial update to one entry, bumping updated_at.
// The statement is fully parameterized; absent fields fall back to the
// current column value via COALESCE. Reports MemoryNotFoundError when the
// id does not exist in the selected scope.
func (s *Store) UpdateEntry(ctx context.Context, id int64, global bool, upd Update) error {
	// Table names come from these two compile-time constants only.
	table, scope := "project_memory", "project"
	if global {
		table, scope = "global_memory", "global"
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE `+table+`
		 SET updated_at = datetime('now'),
		     title = COALESCE(?, title),
		     content = COALESCE(?, content),
		     status = COALESCE(?, status)
		 WHERE id = ?`,
		nullable(upd.Title), nullable(upd.Content), nullable(upd.Status), id,
	)
	if err != nil {
		return fmt.Errorf("update memory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update memory rows affected: %w", err)
	}
	if n == 0 {
		return &protocol.MemoryNotFoundError{ID: id, Scope: scope}
	}
	return nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
