// Package messaging manages the append-only messages table. A message is
// addressed to an instance id, a project name, or the broadcast marker;
// targeting is resolved at read time (the inbox query filters on the
// caller's id, project, and the marker), never by fan-out at send time.
package messaging

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clambake/pkg/protocol"
)

// Store manages the messages table in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SendParams holds parameters for sending one message.
type SendParams struct {
	FromInstance string
	FromProject  string
	To           string // instance id, project name, or protocol.BroadcastTarget
	Type         string
	Subject      string
	Body         string
	ExpiresAt    string // optional datetime string; empty means no expiry
}

// Send inserts one message row and returns its id.
func (s *Store) Send(ctx context.Context, p SendParams) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages
		     (from_instance, from_project, to_target, message_type, subject, body, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.FromInstance, p.FromProject, p.To, p.Type, p.Subject, p.Body,
		nullIfEmpty(p.ExpiresAt),
	)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("send message id: %w", err)
	}
	return id, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

const messageColumns = `id, from_instance, COALESCE(from_project, ''), to_target,
       message_type, subject, COALESCE(body, ''), is_read, created_at,
       COALESCE(expires_at, '')`

// Inbox returns messages addressed to the instance, its project, or the
// broadcast marker, excluding expired ones, newest first, capped at
// protocol.InboxPageSize. By default only unread messages are returned.
func (s *Store) Inbox(ctx context.Context, instanceID, project string, includeRead bool) ([]protocol.Message, error) {
	q := `SELECT ` + messageColumns + `
	      FROM messages
	      WHERE to_target IN (?, ?, ?)
	        AND (expires_at IS NULL OR expires_at > datetime('now'))`
	if !includeRead {
		q += ` AND is_read = 0`
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, q,
		instanceID, project, protocol.BroadcastTarget, protocol.InboxPageSize)
	if err != nil {
		return nil, fmt.Errorf("inbox: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// UnreadCount returns the number of unread, unexpired messages addressed to
// the instance, its project, or the broadcast marker.
func (s *Store) UnreadCount(ctx context.Context, instanceID, project string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages
		 WHERE to_target IN (?, ?, ?)
		   AND is_read = 0
		   AND (expires_at IS NULL OR expires_at > datetime('now'))`,
		instanceID, project, protocol.BroadcastTarget,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return count, nil
}

// Read flips the message to read and returns the full row. Re-reading an
// already-read message returns the row again without error; a nonexistent
// id reports MessageNotFoundError. This is the only update path for the
// read flag.
func (s *Store) Read(ctx context.Context, id int64) (*protocol.Message, error) {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE messages SET is_read = 1 WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}

	var m protocol.Message
	err := s.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = ?`, id,
	).Scan(
		&m.ID, &m.FromInstance, &m.FromProject, &m.ToTarget,
		&m.Type, &m.Subject, &m.Body, &m.Read, &m.CreatedAt, &m.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, &protocol.MessageNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}
	return &m, nil
}

// Recent returns messages created within the given window regardless of
// target or read state, newest first. Used by the status command.
func (s *Store) Recent(ctx context.Context, within time.Duration, limit int) ([]protocol.Message, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+`
		 FROM messages
		 WHERE created_at > datetime('now', ?)
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		fmt.Sprintf("-%d seconds", int64(within.Seconds())), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// DeleteExpired removes messages whose expiry has passed. Returns the number
// of rows removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM messages
		 WHERE expires_at IS NOT NULL AND expires_at <= datetime('now')`)
	if err != nil {
		return 0, fmt.Errorf("delete expired messages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired rows affected: %w", err)
	}
	return n, nil
}

func scanMessages(rows *sql.Rows) ([]protocol.Message, error) {
	var messages []protocol.Message
	for rows.Next() {
		var m protocol.Message
		if err := rows.Scan(
			&m.ID, &m.FromInstance, &m.FromProject, &m.ToTarget,
			&m.Type, &m.Subject, &m.Body, &m.Read, &m.CreatedAt, &m.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("message rows: %w", err)
	}
	return messages, nil
}
