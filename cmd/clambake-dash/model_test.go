package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"clambake/internal/config"
	"clambake/pkg/protocol"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := &config.Config{
		DBPath: filepath.Join(t.TempDir(), "clambake.db"),
	}
	return newModel(cfg)
}

func TestSnapshotUpdatesTables(t *testing.T) {
	m := testModel(t)

	snap := &Snapshot{
		Instances: []protocol.Instance{{ID: "aaa111bbb222", Project: "webapp", Status: "active"}},
		Tasks:     []protocol.Task{{ID: 1, Title: "Fix login", Project: "webapp", Status: "pending"}},
		Messages:  []protocol.Message{{ID: 1, FromInstance: "aaa111bbb222", ToTarget: "@all", Type: "info", Subject: "hi"}},
	}

	updated, _ := m.Update(snapshotMsg{snap: snap})
	m = updated.(Model)

	if m.snapshot != snap {
		t.Fatal("expected snapshot stored on model")
	}
	if m.lastUpdate.IsZero() {
		t.Error("expected lastUpdate to be stamped")
	}
	if got := len(m.tables[TabTasks].Rows()); got != 1 {
		t.Errorf("expected 1 task row, got %d", got)
	}

	view := m.View()
	if !strings.Contains(view, "Instances (1)") || !strings.Contains(view, "Tasks (1)") {
		t.Errorf("expected tab counts in view, got:\n%s", view)
	}
}

func TestSnapshotErrorShownInView(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(snapshotMsg{err: errors.New("db locked")})
	m = updated.(Model)

	if !strings.Contains(m.View(), "db locked") {
		t.Error("expected error surfaced in view")
	}

	// A successful snapshot clears the error.
	updated, _ = m.Update(snapshotMsg{snap: &Snapshot{}})
	m = updated.(Model)
	if strings.Contains(m.View(), "db locked") {
		t.Error("expected error cleared after good snapshot")
	}
}

func TestTabNavigation(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if m.activeTab != TabTasks {
		t.Errorf("after tab, activeTab = %v", m.activeTab)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = updated.(Model)
	if m.activeTab != TabInstances {
		t.Errorf("after shift+tab, activeTab = %v", m.activeTab)
	}

	// Wraps around backwards.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = updated.(Model)
	if m.activeTab != TabMessages {
		t.Errorf("expected wrap to last tab, got %v", m.activeTab)
	}
}

func TestQuitKey(t *testing.T) {
	m := testModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestWindowResizeAdjustsTables(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d", m.width, m.height)
	}

	// Tiny terminals clamp instead of going negative.
	updated, _ = m.Update(tea.WindowSizeMsg{Width: 20, Height: 4})
	m = updated.(Model)
	if m.tables[TabInstances].Height() < 3 {
		t.Errorf("table height = %d, want >= 3", m.tables[TabInstances].Height())
	}
}
