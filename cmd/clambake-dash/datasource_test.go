package main

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"clambake/pkg/protocol"

	_ "modernc.org/sqlite"
)

// seedTestDB creates a coordination database on disk with a few rows of
// each kind and returns its path.
func seedTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "clambake.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(protocol.SchemaDDL); err != nil {
		t.Fatalf("exec schema: %v", err)
	}

	stmts := []string{
		`INSERT INTO instances (instance_id, project, working_dir, model, status)
		 VALUES ('aaa111bbb222', 'webapp', '/src/webapp', 'opus', 'busy')`,
		`INSERT INTO tasks (title, project, priority, created_by)
		 VALUES ('Fix login bug', 'webapp', 5, 'human')`,
		`INSERT INTO tasks (title, project, priority, created_by)
		 VALUES ('Write docs', 'webapp', 1, 'human')`,
		`INSERT INTO messages (from_instance, from_project, to_target, message_type, subject)
		 VALUES ('aaa111bbb222', 'webapp', '@all', 'info', 'hello')`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return dbPath
}

func TestFetchSnapshot(t *testing.T) {
	dbPath := seedTestDB(t)

	snap, err := FetchSnapshot(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("fetch snapshot: %v", err)
	}

	if len(snap.Instances) != 1 {
		t.Errorf("expected 1 instance, got %d", len(snap.Instances))
	}
	if len(snap.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(snap.Tasks))
	}
	// Queue order: higher priority first.
	if snap.Tasks[0].Title != "Fix login bug" {
		t.Errorf("expected priority ordering, got %q first", snap.Tasks[0].Title)
	}
	if len(snap.Messages) != 1 {
		t.Errorf("expected 1 message, got %d", len(snap.Messages))
	}
}

func TestFetchSnapshotMissingDB(t *testing.T) {
	_, err := FetchSnapshot(context.Background(), filepath.Join(t.TempDir(), "absent.db"))
	if err == nil {
		t.Fatal("expected error for missing database")
	}
}
