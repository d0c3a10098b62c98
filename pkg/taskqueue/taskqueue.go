// Package taskqueue manages the tasks table and its state machine:
//
//	pending -> claimed -> done | failed
//
// in_progress behaves like claimed (both block a re-claim); done and failed
// are terminal. The claim is the one operation needing atomicity beyond a
// keyed update: a conditional UPDATE guarded by status = 'pending' flips the
// status, stamps the claimant and the claim timestamp in a single statement.
// When two instances race, the database's write serialization guarantees
// exactly one update affects a row; the loser sees zero rows and gets
// TaskUnavailableError. Dependency lists and file scopes are stored as-is
// and never enforced.
package taskqueue

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clambake/pkg/protocol"
)

// Store manages the tasks table in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateParams holds parameters for creating a pending task.
type CreateParams struct {
	Title       string
	Description string
	Project     string
	Priority    int
	Role        string   // optional assigned role
	FileScope   []string // advisory
	DependsOn   []int64  // advisory; existence is not verified
	CreatedBy   string
}

// Create inserts a pending task and returns its id.
func (s *Store) Create(ctx context.Context, p CreateParams) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks
		     (title, description, project, priority, assigned_role,
		      file_scope, depends_on, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, p.Project, p.Priority,
		nullIfEmpty(p.Role),
		protocol.EncodeList(p.FileScope), protocol.EncodeIDList(p.DependsOn),
		p.CreatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create task id: %w", err)
	}
	return id, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ListOpts configures a task listing.
type ListOpts struct {
	Project       string
	Status        string
	Role          string
	AvailableOnly bool // restrict to status 'pending' (claimable work)
}

// List returns tasks matching the filters, ordered by priority descending
// then creation time ascending, the tie-break that decides claim order
// when several agents poll concurrently.
func (s *Store) List(ctx context.Context, opts ListOpts) ([]protocol.Task, error) {
	var conditions []string
	var args []any

	if opts.AvailableOnly {
		conditions = append(conditions, "status = ?")
		args = append(args, string(protocol.TaskPending))
	} else if opts.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, opts.Status)
	}
	if opts.Project != "" {
		conditions = append(conditions, "project = ?")
		args = append(args, opts.Project)
	}
	if opts.Role != "" {
		conditions = append(conditions, "assigned_role = ?")
		args = append(args, opts.Role)
	}

	q := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY priority DESC, created_at ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []protocol.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task rows: %w", err)
	}
	return tasks, nil
}

// Claim transitions the task from pending to claimed, stamping the claiming
// instance and the claim timestamp, conditioned on the row still being
// pending: one indivisible compare-and-swap. Exactly one of any set of
// concurrent claimants succeeds; the rest get TaskUnavailableError, which is
// also what a nonexistent id reports (the outcomes are indistinguishable to
// the loser). Returns the claimed task on success.
func (s *Store) Claim(ctx context.Context, id int64, instanceID string) (*protocol.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("claim begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx,
		`UPDATE tasks
		 SET status = 'claimed', assigned_instance = ?, claimed_at = datetime('now')
		 WHERE id = ? AND status = 'pending'`,
		instanceID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("claim update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("claim rows affected: %w", err)
	}
	if n == 0 {
		return nil, &protocol.TaskUnavailableError{ID: id}
	}

	task, err := getTask(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("claim fetch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("claim commit: %w", err)
	}
	return task, nil
}

// Done transitions the task to done and records the result. The primary
// path is conditioned on the caller being the recorded claimant; when that
// affects zero rows the update retries by id alone as an administrative
// override. Terminal rows are never rewritten, so a task that is already
// done or failed reports TaskNotFoundError, same as a nonexistent id.
func (s *Store) Done(ctx context.Context, id int64, instanceID, result string) error {
	return s.finish(ctx, id, instanceID, string(protocol.TaskDone), result)
}

// Fail transitions the task to failed by id alone (no claimant check) and
// records the result as the failure reason.
func (s *Store) Fail(ctx context.Context, id int64, result string) error {
	return s.finish(ctx, id, "", string(protocol.TaskFailed), result)
}

func (s *Store) finish(ctx context.Context, id int64, instanceID, status, result string) error {
	if instanceID != "" {
		res, err := s.db.ExecContext(ctx,
			`UPDATE tasks
			 SET status = ?, result = ?, completed_at = datetime('now')
			 WHERE id = ? AND assigned_instance = ?
			   AND status NOT IN ('done', 'failed')`,
			status, result, id, instanceID,
		)
		if err != nil {
			return fmt.Errorf("finish task: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("finish rows affected: %w", err)
		} else if n > 0 {
			return nil
		}
	}

	// Administrative override: by id alone, still respecting terminal states.
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks
		 SET status = ?, result = ?, completed_at = datetime('now')
		 WHERE id = ? AND status NOT IN ('done', 'failed')`,
		status, result, id,
	)
	if err != nil {
		return fmt.Errorf("finish task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish rows affected: %w", err)
	}
	if n == 0 {
		return &protocol.TaskNotFoundError{ID: id}
	}
	return nil
}

// Get returns a task by id, or TaskNotFoundError.
func (s *Store) Get(ctx context.Context, id int64) (*protocol.Task, error) {
	task, err := getTask(ctx, s.db, id)
	if err == sql.ErrNoRows {
		return nil, &protocol.TaskNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

const taskColumns = `id, title, COALESCE(description, ''), project, priority,
       COALESCE(assigned_role, ''), file_scope, depends_on,
       COALESCE(assigned_instance, ''), status, COALESCE(result, ''),
       created_by, created_at, COALESCE(claimed_at, ''), COALESCE(completed_at, '')`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTask(ctx context.Context, q querier, id int64) (*protocol.Task, error) {
	row := q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*protocol.Task, error) {
	var t protocol.Task
	var fileScope, dependsOn string
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Project, &t.Priority,
		&t.AssignedRole, &fileScope, &dependsOn,
		&t.AssignedInstance, &t.Status, &t.Result,
		&t.CreatedBy, &t.CreatedAt, &t.ClaimedAt, &t.CompletedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.FileScope = protocol.DecodeList(fileScope)
	t.DependsOn = protocol.DecodeIDList(dependsOn)
	return &t, nil
}
