package main

import (
	"bytes"
	"strings"
	"testing"

	"clambake/pkg/protocol"
)

func TestRenderStatusEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderStatus(&buf, newStatusStyles(false), nil, nil, nil)

	out := buf.String()
	for _, section := range []string{"=== ACTIVE INSTANCES ===", "=== RECENT MESSAGES (24h) ===", "=== RECENT ACTIVITY ==="} {
		if !strings.Contains(out, section) {
			t.Errorf("missing section %q in:\n%s", section, out)
		}
	}
	if strings.Count(out, "(none)") != 3 {
		t.Errorf("expected three (none) markers, got:\n%s", out)
	}
}

func TestRenderStatusRows(t *testing.T) {
	instances := []protocol.Instance{
		{ID: "aaa111bbb222", Project: "webapp", Status: "busy", CurrentTask: "Fix login bug", HeartbeatAge: 12},
		{ID: "ccc333ddd444", Project: "api", Status: "active", HeartbeatAge: 45},
	}
	messages := []protocol.Message{
		{ID: 7, FromInstance: "aaa111bbb222", FromProject: "webapp", ToTarget: "@all",
			Type: "warning", Subject: "Deploy frozen", Read: false, CreatedAt: "2026-08-23 10:15:00"},
	}
	activity := []protocol.SessionEntry{
		{InstanceID: "aaa111bbb222", Project: "webapp", Action: "task_completed",
			Summary: "login fix merged", CreatedAt: "2026-08-23 10:20:00"},
	}

	var buf bytes.Buffer
	renderStatus(&buf, newStatusStyles(false), instances, messages, activity)
	out := buf.String()

	if !strings.Contains(out, "[busy] webapp - Fix login bug (heartbeat 12s ago) aaa111bbb222") {
		t.Errorf("instance line missing, got:\n%s", out)
	}
	if !strings.Contains(out, "[active] api - idle (heartbeat 45s ago)") {
		t.Errorf("idle fallback missing, got:\n%s", out)
	}
	if !strings.Contains(out, "*[7] webapp (aaa111bb) -> @all: [warning] Deploy frozen") {
		t.Errorf("unread message line missing, got:\n%s", out)
	}
	if !strings.Contains(out, "08/23 10:20 [webapp] task_completed - login fix merged") {
		t.Errorf("activity line missing, got:\n%s", out)
	}
}

func TestShortTimestamp(t *testing.T) {
	if got := shortTimestamp("2026-08-23 10:15:00"); got != "08/23 10:15" {
		t.Errorf("shortTimestamp = %q", got)
	}
	// Unparsable input passes through.
	if got := shortTimestamp("whenever"); got != "whenever" {
		t.Errorf("shortTimestamp passthrough = %q", got)
	}
}

func TestStatusCommand(t *testing.T) {
	cfg := testConfig(t)
	register(t, cfg, "webapp")

	out, _, err := executeCommand(cfg, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "webapp") {
		t.Errorf("expected registered instance in status, got:\n%s", out)
	}
}
