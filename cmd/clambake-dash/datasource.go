package main

import (
	"context"
	"database/sql"
	"fmt"

	"clambake/pkg/protocol"

	_ "modernc.org/sqlite"
)

// Snapshot is one consistent read of the coordination database: every
// instance, the newest tasks, and the last day of messages.
type Snapshot struct {
	Instances []protocol.Instance
	Tasks     []protocol.Task
	Messages  []protocol.Message
}

// FetchSnapshot opens the database read-only, reads all three sections, and
// closes it again. The dashboard never writes, so each refresh can afford a
// fresh connection.
func FetchSnapshot(ctx context.Context, dbPath string) (*Snapshot, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open coordination db %s: %w", dbPath, err)
	}
	defer db.Close() //nolint:errcheck // best-effort close on read-only path

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping coordination db %s: %w", dbPath, err)
	}

	snap := &Snapshot{}
	if snap.Instances, err = fetchInstances(ctx, db); err != nil {
		return nil, err
	}
	if snap.Tasks, err = fetchTasks(ctx, db); err != nil {
		return nil, err
	}
	if snap.Messages, err = fetchMessages(ctx, db); err != nil {
		return nil, err
	}
	return snap, nil
}

// fetchInstances returns every registered instance, stalest last. Unlike the
// CLI's status command the dashboard shows stale rows too; the heartbeat age
// column makes staleness visible instead.
func fetchInstances(ctx context.Context, db *sql.DB) ([]protocol.Instance, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT instance_id, project, working_dir, model, status,
		        COALESCE(current_task, ''), last_heartbeat,
		        CAST((julianday('now') - julianday(last_heartbeat)) * 86400 AS INTEGER)
		 FROM instances
		 ORDER BY last_heartbeat DESC`)
	if err != nil {
		return nil, fmt.Errorf("query instances: %w", err)
	}
	defer rows.Close() //nolint:errcheck // best-effort close after full iteration

	var instances []protocol.Instance
	for rows.Next() {
		var inst protocol.Instance
		if err := rows.Scan(
			&inst.ID, &inst.Project, &inst.WorkingDir, &inst.Model,
			&inst.Status, &inst.CurrentTask, &inst.LastHeartbeat, &inst.HeartbeatAge,
		); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

// fetchTasks returns the newest 100 tasks in queue order.
func fetchTasks(ctx context.Context, db *sql.DB) ([]protocol.Task, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, COALESCE(description, ''), project, priority,
		        COALESCE(assigned_role, ''), COALESCE(assigned_instance, ''),
		        status, created_at
		 FROM tasks
		 ORDER BY priority DESC, created_at ASC, id ASC
		 LIMIT 100`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close() //nolint:errcheck // best-effort close after full iteration

	var tasks []protocol.Task
	for rows.Next() {
		var t protocol.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Project, &t.Priority,
			&t.AssignedRole, &t.AssignedInstance, &t.Status, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// fetchMessages returns the last 24 hours of traffic, newest first.
func fetchMessages(ctx context.Context, db *sql.DB) ([]protocol.Message, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, from_instance, COALESCE(from_project, ''), to_target,
		        message_type, subject, is_read, created_at
		 FROM messages
		 WHERE created_at > datetime('now', '-24 hours')
		 ORDER BY created_at DESC, id DESC
		 LIMIT 50`)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close() //nolint:errcheck // best-effort close after full iteration

	var messages []protocol.Message
	for rows.Next() {
		var m protocol.Message
		if err := rows.Scan(
			&m.ID, &m.FromInstance, &m.FromProject, &m.ToTarget,
			&m.Type, &m.Subject, &m.Read, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
