package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"clambake/internal/config"
	"clambake/pkg/memory"
	"clambake/pkg/messaging"
	"clambake/pkg/presence"
	"clambake/pkg/protocol"
	"clambake/pkg/roles"
	"clambake/pkg/sessionlog"
	"clambake/pkg/taskqueue"
)

// stores bundles one open database connection with a store per concern.
// Every command opens the bundle, does its work, and closes it; there is
// no long-lived process holding the connection.
type stores struct {
	db       *sql.DB
	presence *presence.Store
	messages *messaging.Store
	memories *memory.Store
	tasks    *taskqueue.Store
	roles    *roles.Store
	sessions *sessionlog.Store
}

// openStores opens the coordination database at cfg.DBPath, ensures the
// schema exists, and constructs the per-concern stores. The schema DDL is
// idempotent, so every command can apply it on open.
func openStores(cfg *config.Config) (*stores, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("coordination db unavailable (check CLAMBAKE_DB_PATH): %w", err)
	}

	if _, err := db.ExecContext(context.Background(), protocol.SchemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &stores{
		db:       db,
		presence: presence.NewStore(db, cfg.ActiveWindow, cfg.StaleAfter),
		messages: messaging.NewStore(db),
		memories: memory.NewStore(db),
		tasks:    taskqueue.NewStore(db),
		roles:    roles.NewStore(db),
		sessions: sessionlog.NewStore(db),
	}, nil
}

// Close releases the underlying database connection.
func (s *stores) Close() error {
	return s.db.Close()
}
