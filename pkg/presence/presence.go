// Package presence manages the instances table: registration, heartbeats,
// liveness queries, and the stale-row sweep. An instance counts as active
// while its heartbeat age stays below the configured window; beyond the
// larger stale threshold the cleanup sweep removes the row.
package presence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clambake/pkg/protocol"
)

// Store manages the instances table in SQLite.
type Store struct {
	db           *sql.DB
	activeWindow time.Duration
	staleAfter   time.Duration
}

// NewStore creates a Store backed by the given database. activeWindow and
// staleAfter are the liveness policy constants (see config).
func NewStore(db *sql.DB, activeWindow, staleAfter time.Duration) *Store {
	return &Store{db: db, activeWindow: activeWindow, staleAfter: staleAfter}
}

// RegisterParams holds parameters for registering an instance.
type RegisterParams struct {
	ID         string
	Project    string
	WorkingDir string
	Model      string
}

// Register upserts a presence row with status active and a fresh heartbeat.
func (s *Store) Register(ctx context.Context, p RegisterParams) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO instances (instance_id, project, working_dir, model, status)
		 VALUES (?, ?, ?, ?, 'active')
		 ON CONFLICT (instance_id) DO UPDATE SET
		     last_heartbeat = datetime('now'), status = 'active'`,
		p.ID, p.Project, p.WorkingDir, p.Model,
	)
	if err != nil {
		return fmt.Errorf("register instance: %w", err)
	}
	return nil
}

// HeartbeatUpdate is a typed partial update: nil fields are left untouched.
type HeartbeatUpdate struct {
	Task   *string
	Status *string
}

// Heartbeat refreshes the heartbeat timestamp and applies any optional
// fields. The statement is fully parameterized; absent fields fall back to
// the current column value via COALESCE.
func (s *Store) Heartbeat(ctx context.Context, instanceID string, upd HeartbeatUpdate) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE instances
		 SET last_heartbeat = datetime('now'),
		     current_task = COALESCE(?, current_task),
		     status = COALESCE(?, status)
		 WHERE instance_id = ?`,
		nullable(upd.Task), nullable(upd.Status), instanceID,
	)
	if err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("heartbeat rows affected: %w", err)
	}
	if n == 0 {
		return &protocol.InstanceNotFoundError{ID: instanceID}
	}
	return nil
}

// nullable converts an optional string into a driver-level NULL when absent.
func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Active returns instances whose heartbeat age is below the active window,
// ordered by project then id. excludeID, when non-empty, omits that
// instance (register uses it to list the other participants).
func (s *Store) Active(ctx context.Context, excludeID string) ([]protocol.Instance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT instance_id, project, working_dir, model, status,
		        COALESCE(current_task, ''), last_heartbeat,
		        CAST((julianday('now') - julianday(last_heartbeat)) * 86400 AS INTEGER)
		 FROM instances
		 WHERE (julianday('now') - julianday(last_heartbeat)) * 86400 < ?
		   AND instance_id != ?
		 ORDER BY project, instance_id`,
		s.activeWindow.Seconds(), excludeID,
	)
	if err != nil {
		return nil, fmt.Errorf("active instances: %w", err)
	}
	defer rows.Close()

	var instances []protocol.Instance
	for rows.Next() {
		var inst protocol.Instance
		if err := rows.Scan(
			&inst.ID, &inst.Project, &inst.WorkingDir, &inst.Model,
			&inst.Status, &inst.CurrentTask, &inst.LastHeartbeat,
			&inst.HeartbeatAge,
		); err != nil {
			return nil, fmt.Errorf("active instances scan: %w", err)
		}
		instances = append(instances, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("active instances rows: %w", err)
	}
	return instances, nil
}

// SetBusy marks the instance busy with the given task label and refreshes
// the heartbeat. Used as the follow-up to a successful task claim.
func (s *Store) SetBusy(ctx context.Context, instanceID, taskTitle string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE instances
		 SET current_task = ?, status = 'busy', last_heartbeat = datetime('now')
		 WHERE instance_id = ?`,
		taskTitle, instanceID,
	)
	if err != nil {
		return fmt.Errorf("set busy: %w", err)
	}
	return nil
}

// ClearTask resets the instance to active with no task label. Used after a
// task completes or fails.
func (s *Store) ClearTask(ctx context.Context, instanceID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE instances
		 SET current_task = NULL, status = 'active', last_heartbeat = datetime('now')
		 WHERE instance_id = ?`,
		instanceID,
	)
	if err != nil {
		return fmt.Errorf("clear task: %w", err)
	}
	return nil
}

// Deregister removes the presence row. Deleting an absent row is a no-op.
func (s *Store) Deregister(ctx context.Context, instanceID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM instances WHERE instance_id = ?`, instanceID,
	)
	if err != nil {
		return fmt.Errorf("deregister: %w", err)
	}
	return nil
}

// DeleteStale removes instances whose heartbeat age exceeds the staleness
// threshold. Returns the number of rows removed.
func (s *Store) DeleteStale(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM instances
		 WHERE (julianday('now') - julianday(last_heartbeat)) * 86400 > ?`,
		s.staleAfter.Seconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete stale instances: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete stale rows affected: %w", err)
	}
	return n, nil
}
