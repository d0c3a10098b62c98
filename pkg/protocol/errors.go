package protocol

import "fmt"

// TaskUnavailableError reports a claim that affected zero rows: the task is
// already claimed, finished, or never existed. From the caller's perspective
// those outcomes are indistinguishable, so they share one error type.
// Enables typed discrimination via errors.As.
type TaskUnavailableError struct {
	ID int64
}

func (e *TaskUnavailableError) Error() string {
	return fmt.Sprintf("task #%d not available (already claimed or doesn't exist)", e.ID)
}

// TaskNotFoundError reports a done/fail against a nonexistent task id.
type TaskNotFoundError struct {
	ID int64
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task #%d not found", e.ID)
}

// MessageNotFoundError reports a read against a nonexistent message id.
type MessageNotFoundError struct {
	ID int64
}

func (e *MessageNotFoundError) Error() string {
	return fmt.Sprintf("message #%d not found", e.ID)
}

// MemoryNotFoundError reports an update against a nonexistent memory entry.
// Scope is "global" or the memory's project scope label ("project").
type MemoryNotFoundError struct {
	ID    int64
	Scope string
}

func (e *MemoryNotFoundError) Error() string {
	return fmt.Sprintf("%s memory #%d not found", e.Scope, e.ID)
}

// RoleNotFoundError reports a lookup of an undefined agent role.
type RoleNotFoundError struct {
	Name string
}

func (e *RoleNotFoundError) Error() string {
	return fmt.Sprintf("role %q not found", e.Name)
}

// InstanceNotFoundError reports a presence update against an instance whose
// row no longer exists (deregistered or swept by cleanup).
type InstanceNotFoundError struct {
	ID string
}

func (e *InstanceNotFoundError) Error() string {
	return fmt.Sprintf("instance %s not found", e.ID)
}
