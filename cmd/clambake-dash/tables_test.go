package main

import (
	"testing"

	"clambake/pkg/protocol"
)

func TestInstanceRows(t *testing.T) {
	rows := instanceRows([]protocol.Instance{
		{ID: "aaa111bbb222", Project: "webapp", Status: "busy",
			CurrentTask: "Fix login", HeartbeatAge: 42, Model: "opus"},
		{ID: "ccc333", Project: "api", Status: "active", HeartbeatAge: 7200},
	})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][3] != "Fix login" || rows[0][4] != "42s" {
		t.Errorf("unexpected busy row: %v", rows[0])
	}
	if rows[1][3] != "idle" || rows[1][4] != "2h" {
		t.Errorf("unexpected idle row: %v", rows[1])
	}
}

func TestTaskRows(t *testing.T) {
	rows := taskRows([]protocol.Task{
		{ID: 1, Title: "Write parser", Project: "webapp", Priority: 5,
			AssignedRole: "coder", AssignedInstance: "aaa111bbb222", Status: "claimed"},
		{ID: 2, Title: "Review", Project: "webapp", Status: "pending"},
	})

	if rows[0][5] != "aaa111bb" {
		t.Errorf("expected truncated assignee, got %q", rows[0][5])
	}
	if rows[1][3] != "any" || rows[1][5] != "-" {
		t.Errorf("unexpected unassigned row: %v", rows[1])
	}
}

func TestMessageRows(t *testing.T) {
	rows := messageRows([]protocol.Message{
		{ID: 3, FromInstance: "aaa111bbb222", FromProject: "webapp",
			ToTarget: "@all", Type: "warning", Subject: "Deploy frozen", Read: false},
		{ID: 4, FromInstance: "ccc333", ToTarget: "api",
			Type: "info", Subject: "FYI", Read: true},
	})

	if rows[0][1] != "*" {
		t.Errorf("expected unread marker, got %q", rows[0][1])
	}
	if rows[0][2] != "webapp/aaa111bb" {
		t.Errorf("unexpected from column: %q", rows[0][2])
	}
	if rows[1][1] != "" {
		t.Errorf("expected no marker on read message, got %q", rows[1][1])
	}
	if rows[1][2] != "?/ccc333" {
		t.Errorf("expected unknown-project fallback, got %q", rows[1][2])
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{59, "59s"},
		{60, "1m"},
		{3599, "59m"},
		{3600, "1h"},
		{86400, "24h"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.seconds); got != tt.want {
			t.Errorf("formatAge(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
