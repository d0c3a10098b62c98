package presence_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"clambake/pkg/presence"
	"clambake/pkg/protocol"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(protocol.SchemaDDL); err != nil {
		t.Fatalf("exec schema: %v", err)
	}
	return db
}

func newTestStore(t *testing.T) *presence.Store {
	t.Helper()
	return presence.NewStore(setupTestDB(t), 2*time.Minute, time.Hour)
}

func register(t *testing.T, store *presence.Store, id, project string) {
	t.Helper()
	err := store.Register(context.Background(), presence.RegisterParams{
		ID: id, Project: project, WorkingDir: "/src", Model: "opus",
	})
	if err != nil {
		t.Fatalf("register %s: %v", id, err)
	}
}

func TestRegisterAndActive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	register(t, store, "aaa111", "webapp")
	register(t, store, "bbb222", "webapp")

	active, err := store.Active(ctx, "aaa111")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 other active instance, got %d", len(active))
	}
	if active[0].ID != "bbb222" {
		t.Errorf("expected bbb222, got %s", active[0].ID)
	}
	if active[0].Status != "active" {
		t.Errorf("expected status active, got %s", active[0].Status)
	}
}

func TestRegisterTwiceIsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	register(t, store, "aaa111", "webapp")
	register(t, store, "aaa111", "webapp")

	active, err := store.Active(ctx, "")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected a single row after re-register, got %d", len(active))
	}
}

func TestHeartbeatPartialUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	register(t, store, "aaa111", "webapp")

	task := "fix login bug"
	if err := store.Heartbeat(ctx, "aaa111", presence.HeartbeatUpdate{Task: &task}); err != nil {
		t.Fatalf("heartbeat with task: %v", err)
	}

	active, err := store.Active(ctx, "")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active[0].CurrentTask != "fix login bug" {
		t.Errorf("expected task set, got %q", active[0].CurrentTask)
	}
	if active[0].Status != "active" {
		t.Errorf("status should be untouched, got %q", active[0].Status)
	}

	// Status-only update leaves the task label alone.
	status := "idle"
	if err := store.Heartbeat(ctx, "aaa111", presence.HeartbeatUpdate{Status: &status}); err != nil {
		t.Fatalf("heartbeat with status: %v", err)
	}
	active, _ = store.Active(ctx, "")
	if active[0].CurrentTask != "fix login bug" {
		t.Errorf("task label should be untouched, got %q", active[0].CurrentTask)
	}
	if active[0].Status != "idle" {
		t.Errorf("expected status idle, got %q", active[0].Status)
	}
}

func TestHeartbeatUnknownInstance(t *testing.T) {
	store := newTestStore(t)

	err := store.Heartbeat(context.Background(), "ghost", presence.HeartbeatUpdate{})
	var notFound *protocol.InstanceNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected InstanceNotFoundError, got %v", err)
	}
}

func TestSetBusyAndClearTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	register(t, store, "aaa111", "webapp")

	if err := store.SetBusy(ctx, "aaa111", "migrate schema"); err != nil {
		t.Fatalf("set busy: %v", err)
	}
	active, _ := store.Active(ctx, "")
	if active[0].Status != "busy" || active[0].CurrentTask != "migrate schema" {
		t.Errorf("expected busy/migrate schema, got %s/%s", active[0].Status, active[0].CurrentTask)
	}

	if err := store.ClearTask(ctx, "aaa111"); err != nil {
		t.Fatalf("clear task: %v", err)
	}
	active, _ = store.Active(ctx, "")
	if active[0].Status != "active" || active[0].CurrentTask != "" {
		t.Errorf("expected active with no task, got %s/%q", active[0].Status, active[0].CurrentTask)
	}
}

func TestDeregister(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	register(t, store, "aaa111", "webapp")

	if err := store.Deregister(ctx, "aaa111"); err != nil {
		t.Fatalf("deregister: %v", err)
	}
	active, _ := store.Active(ctx, "")
	if len(active) != 0 {
		t.Errorf("expected no active instances, got %d", len(active))
	}

	// Deregistering again is harmless.
	if err := store.Deregister(ctx, "aaa111"); err != nil {
		t.Errorf("second deregister: %v", err)
	}
}

func TestActiveWindowExcludesStaleHeartbeats(t *testing.T) {
	db := setupTestDB(t)
	store := presence.NewStore(db, 2*time.Minute, time.Hour)
	ctx := context.Background()

	// One fresh, one with a heartbeat 10 minutes back.
	if err := store.Register(ctx, presence.RegisterParams{ID: "fresh", Project: "p"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := db.Exec(
		`INSERT INTO instances (instance_id, project, last_heartbeat)
		 VALUES ('old', 'p', datetime('now', '-10 minutes'))`)
	if err != nil {
		t.Fatalf("insert old: %v", err)
	}

	active, err := store.Active(ctx, "")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 1 || active[0].ID != "fresh" {
		t.Fatalf("expected only fresh instance, got %+v", active)
	}
}

func TestDeleteStale(t *testing.T) {
	db := setupTestDB(t)
	store := presence.NewStore(db, 2*time.Minute, time.Hour)
	ctx := context.Background()

	if err := store.Register(ctx, presence.RegisterParams{ID: "fresh", Project: "p"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := db.Exec(
		`INSERT INTO instances (instance_id, project, last_heartbeat)
		 VALUES ('stale', 'p', datetime('now', '-2 hours'))`)
	if err != nil {
		t.Fatalf("insert stale: %v", err)
	}

	n, err := store.DeleteStale(ctx)
	if err != nil {
		t.Fatalf("delete stale: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 stale row removed, got %d", n)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM instances`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 remaining instance, got %d", count)
	}
}
