// Package roles manages the agent_roles table: named personas with
// capability lists and the system prompt surfaced when a task assigned to
// that role is claimed. Roles upsert by name; there is no delete.
package roles

import (
	"context"
	"database/sql"
	"fmt"

	"clambake/pkg/protocol"
)

// Store manages the agent_roles table in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Upsert creates the role or overwrites its description, prompt, and
// capabilities, bumping updated_at.
func (s *Store) Upsert(ctx context.Context, r protocol.Role) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO agent_roles (name, description, system_prompt, capabilities)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET
		     description = excluded.description,
		     system_prompt = excluded.system_prompt,
		     capabilities = excluded.capabilities,
		     updated_at = datetime('now')`,
		r.Name, r.Description, r.SystemPrompt, protocol.EncodeList(r.Capabilities),
	)
	if err != nil {
		return fmt.Errorf("upsert role %s: %w", r.Name, err)
	}
	return nil
}

// Get returns the full role including its system prompt, or
// RoleNotFoundError.
func (s *Store) Get(ctx context.Context, name string) (*protocol.Role, error) {
	var r protocol.Role
	var capabilities string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, description, system_prompt, capabilities, updated_at
		 FROM agent_roles WHERE name = ?`, name,
	).Scan(&r.Name, &r.Description, &r.SystemPrompt, &capabilities, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &protocol.RoleNotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("get role %s: %w", name, err)
	}
	r.Capabilities = protocol.DecodeList(capabilities)
	return &r, nil
}

// List returns all roles ordered by name.
func (s *Store) List(ctx context.Context) ([]protocol.Role, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, description, system_prompt, capabilities, updated_at
		 FROM agent_roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []protocol.Role
	for rows.Next() {
		var r protocol.Role
		var capabilities string
		if err := rows.Scan(&r.Name, &r.Description, &r.SystemPrompt, &capabilities, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		r.Capabilities = protocol.DecodeList(capabilities)
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("role rows: %w", err)
	}
	return roles, nil
}

// Seed upserts the built-in roles (planner, coder, qa, reviewer) and returns
// how many were written. Idempotent.
func (s *Store) Seed(ctx context.Context) (int, error) {
	builtin, err := BuiltinRoles()
	if err != nil {
		return 0, err
	}
	for _, r := range builtin {
		if err := s.Upsert(ctx, r); err != nil {
			return 0, fmt.Errorf("seed: %w", err)
		}
	}
	return len(builtin), nil
}
