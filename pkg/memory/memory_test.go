package memory_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"clambake/pkg/memory"
	"clambake/pkg/protocol"

	_ "modernc.org/sqlite"
)

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

func TestRememberAndRecallProject(t *testing.T) {
	store := memory.NewStore(setupTestDB(t))
	ctx := context.Background()

	id, err := store.RememberProject(ctx, memory.EntryParams{
		Project:      "webapp",
		Type:         "decision",
		Title:        "use sqlite for coordination",
		Content:      "single shared database file, WAL mode",
		Tags:         []string{"architecture", "db"},
		RelatedFiles: []string{"pkg/protocol/schema.go"},
		CreatedBy:    "aaa111",
	})
	if err != nil {
		t.Fatalf("remember: %v", err)
	}
	if id == 0 {
		t.Fatal("expected nonzero id")
	}

	entries, err := store.Recall(ctx, memory.RecallOpts{Project: "webapp"})
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Title != "use sqlite for coordination" || e.Status != "active" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if len(e.Tags) != 2 || e.Tags[0] != "architecture" {
		t.Errorf("tags round-trip failed: %v", e.Tags)
	}
	if len(e.RelatedFiles) != 1 {
		t.Errorf("related files round-trip failed: %v", e.RelatedFiles)
	}

	// Entries from other projects stay invisible.
	entries, _ = store.Recall(ctx, memory.RecallOpts{Project: "other"})
	if len(entries) != 0 {
		t.Errorf("expected no entries for other project, got %d", len(entries))
	}
}

func TestRecallGlobal(t *testing.T) {
	store := memory.NewStore(setupTestDB(t))
	ctx := context.Background()

	_, err := store.RememberGlobal(ctx, memory.EntryParams{
		Type: "gotcha", Title: "sqlite busy timeout",
		Content: "always set busy_timeout for multi-process access",
		Tags:    []string{"sqlite"}, CreatedBy: "human",
	})
	if err != nil {
		t.Fatalf("remember global: %v", err)
	}

	entries, err := store.Recall(ctx, memory.RecallOpts{Global: true})
	if err != nil {
		t.Fatalf("recall global: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 global entry, got %d", len(entries))
	}
	if entries[0].Project != "" {
		t.Errorf("global entry should have no project, got %q", entries[0].Project)
	}
}

func TestRecallFilters(t *testing.T) {
	store := memory.NewStore(setupTestDB(t))
	ctx := context.Background()

	seed := []memory.EntryParams{
		{Project: "webapp", Type: "decision", Title: "auth uses JWT", Content: "tokens expire hourly"},
		{Project: "webapp", Type: "gotcha", Title: "Login Throttling", Content: "nginx caps at 10 rps"},
		{Project: "webapp", Type: "gotcha", Title: "cache warmup", Content: "cold start takes minutes"},
	}
	for _, p := range seed {
		if _, err := store.RememberProject(ctx, p); err != nil {
			t.Fatalf("remember %q: %v", p.Title, err)
		}
	}

	t.Run("type filter", func(t *testing.T) {
		entries, err := store.Recall(ctx, memory.RecallOpts{Project: "webapp", Type: "gotcha"})
		if err != nil {
			t.Fatalf("recall: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("expected 2 gotchas, got %d", len(entries))
		}
	})

	t.Run("case-insensitive substring search on title", func(t *testing.T) {
		entries, err := store.Recall(ctx, memory.RecallOpts{Project: "webapp", Search: "throttling"})
		if err != nil {
			t.Fatalf("recall: %v", err)
		}
		if len(entries) != 1 || entries[0].Title != "Login Throttling" {
			t.Fatalf("expected throttling entry, got %+v", entries)
		}
	})

	t.Run("search matches content too", func(t *testing.T) {
		entries, err := store.Recall(ctx, memory.RecallOpts{Project: "webapp", Search: "expire"})
		if err != nil {
			t.Fatalf("recall: %v", err)
		}
		if len(entries) != 1 || entries[0].Title != "auth uses JWT" {
			t.Fatalf("expected JWT entry, got %+v", entries)
		}
	})

	t.Run("limit caps results", func(t *testing.T) {
		entries, err := store.Recall(ctx, memory.RecallOpts{Project: "webapp", Limit: 2})
		if err != nil {
			t.Fatalf("recall: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("expected 2 entries with limit, got %d", len(entries))
		}
	})
}

func TestUpdateEntry(t *testing.T) {
	store := memory.NewStore(setupTestDB(t))
	ctx := context.Background()

	id, err := store.RememberProject(ctx, memory.EntryParams{
		Project: "webapp", Type: "decision", Title: "old title", Content: "old content",
	})
	if err != nil {
		t.Fatalf("remember: %v", err)
	}

	content := "new content"
	if err := store.UpdateEntry(ctx, id, false, memory.Update{Content: &content}); err != nil {
		t.Fatalf("update: %v", err)
	}

	entries, _ := store.Recall(ctx, memory.RecallOpts{Project: "webapp"})
	if entries[0].Content != "new content" {
		t.Errorf("content = %q, want new content", entries[0].Content)
	}
	if entries[0].Title != "old title" {
		t.Errorf("title should be untouched, got %q", entries[0].Title)
	}
}

func TestStatusTransitionHidesEntry(t *testing.T) {
	store := memory.NewStore(setupTestDB(t))
	ctx := context.Background()

	id, err := store.RememberProject(ctx, memory.EntryParams{
		Project: "webapp", Type: "issue", Title: "flaky test", Content: "seen in CI",
	})
	if err != nil {
		t.Fatalf("remember: %v", err)
	}

	status := "resolved"
	if err := store.UpdateEntry(ctx, id, false, memory.Update{Status: &status}); err != nil {
		t.Fatalf("update status: %v", err)
	}

	// Resolved entries no longer surface in project recall (the
	// deletion-equivalent), but the row itself is retained.
	entries, _ := store.Recall(ctx, memory.RecallOpts{Project: "webapp"})
	if len(entries) != 0 {
		t.Errorf("resolved entry should be hidden, got %d entries", len(entries))
	}
}

func TestUpdateUnknownEntry(t *testing.T) {
	store := memory.NewStore(setupTestDB(t))
	title := "x"

	err := store.UpdateEntry(context.Background(), 404, false, memory.Update{Title: &title})
	var notFound *protocol.MemoryNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected MemoryNotFoundError, got %v", err)
	}
	if notFound.Scope != "project" {
		t.Errorf("scope = %q, want project", notFound.Scope)
	}

	err = store.UpdateEntry(context.Background(), 404, true, memory.Update{Title: &title})
	if !errors.As(err, &notFound) || notFound.Scope != "global" {
		t.Fatalf("expected global MemoryNotFoundError, got %v", err)
	}
}
