package protocol

// BroadcastTarget is the reserved message target meaning "every instance".
const BroadcastTarget = "@all"

// ClambakeDir is the user-level state directory (e.g., ~/.clambake).
const ClambakeDir = ".clambake"

// InboxPageSize caps the number of messages returned by an inbox query.
const InboxPageSize = 50

// InstanceStatus is the presence status of a registered instance.
type InstanceStatus string

const (
	InstanceActive       InstanceStatus = "active"
	InstanceIdle         InstanceStatus = "idle"
	InstanceBusy         InstanceStatus = "busy"
	InstanceShuttingDown InstanceStatus = "shutting_down"
)

// Valid reports whether s is one of the four known instance statuses.
func (s InstanceStatus) Valid() bool {
	switch s {
	case InstanceActive, InstanceIdle, InstanceBusy, InstanceShuttingDown:
		return true
	default:
		return false
	}
}

// MessageType classifies a message for the receiving agent.
type MessageType string

const (
	MessageInfo    MessageType = "info"
	MessageWarning MessageType = "warning"
	MessageBlocker MessageType = "blocker"
	MessageRequest MessageType = "request"
	MessageDone    MessageType = "done"
)

// Valid reports whether t is one of the known message types.
func (t MessageType) Valid() bool {
	switch t {
	case MessageInfo, MessageWarning, MessageBlocker, MessageRequest, MessageDone:
		return true
	default:
		return false
	}
}

// TaskStatus is a state in the task lifecycle.
//
// Transitions: pending -> claimed -> done | failed. An in_progress row
// behaves like claimed for claiming purposes (both block a re-claim);
// done and failed are terminal.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskClaimed    TaskStatus = "claimed"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskFailed     TaskStatus = "failed"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskClaimed, TaskInProgress, TaskDone, TaskFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether s is a terminal status (no further transitions).
func (s TaskStatus) Terminal() bool {
	return s == TaskDone || s == TaskFailed
}

// MemoryStatus is the lifecycle status of a memory entry. Entries are never
// hard-deleted; a status transition is the deletion-equivalent.
type MemoryStatus string

const (
	MemoryActive     MemoryStatus = "active"
	MemoryResolved   MemoryStatus = "resolved"
	MemoryDeprecated MemoryStatus = "deprecated"
	MemorySuperseded MemoryStatus = "superseded"
)

// Valid reports whether s is one of the known memory statuses.
func (s MemoryStatus) Valid() bool {
	switch s {
	case MemoryActive, MemoryResolved, MemoryDeprecated, MemorySuperseded:
		return true
	default:
		return false
	}
}

// SessionActions lists the accepted values for the session log "action"
// field, in the order they appear in command help.
var SessionActions = []string{
	"started", "task_started", "task_completed",
	"issue_found", "issue_resolved", "docker_operation",
	"file_modified", "shutdown",
}

// ValidSessionAction reports whether action is an accepted session log action.
func ValidSessionAction(action string) bool {
	for _, a := range SessionActions {
		if a == action {
			return true
		}
	}
	return false
}
