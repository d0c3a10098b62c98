package protocol

// Instance represents a row in the instances SQLite table.
// One row per registered agent process; the row is deleted on deregister
// or by the cleanup sweep once the heartbeat goes stale.
type Instance struct {
	ID            string `json:"instance_id"`
	Project       string `json:"project"`
	WorkingDir    string `json:"working_dir"`
	Model         string `json:"model"`
	Status        string `json:"status"`
	CurrentTask   string `json:"current_task"`
	LastHeartbeat string `json:"last_heartbeat"`

	// HeartbeatAge is seconds since the last heartbeat, computed at query
	// time. Only populated by presence queries that select it.
	HeartbeatAge int64 `json:"heartbeat_age,omitempty"`
}

// Message represents a row in the messages SQLite table.
// Immutable once created except for the unread -> read transition.
type Message struct {
	ID           int64  `json:"id"`
	FromInstance string `json:"from_instance"`
	FromProject  string `json:"from_project"`
	ToTarget     string `json:"to_target"`
	Type         string `json:"message_type"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	Read         bool   `json:"is_read"`
	CreatedAt    string `json:"created_at"`
	ExpiresAt    string `json:"expires_at,omitempty"`
}

// MemoryEntry represents a row in either the project_memory or
// global_memory SQLite table. Global entries have an empty Project and
// never carry RelatedFiles.
type MemoryEntry struct {
	ID           int64    `json:"id"`
	Project      string   `json:"project,omitempty"`
	Type         string   `json:"memory_type"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	RelatedFiles []string `json:"related_files,omitempty"`
	Status       string   `json:"status"`
	CreatedBy    string   `json:"created_by"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// Task represents a row in the tasks SQLite table.
//
// AssignedInstance is non-empty iff status is claimed, in_progress, done
// or failed, and is stamped at the moment of the claim. FileScope and
// DependsOn are advisory metadata: the queue stores them as-is and does
// not enforce sequencing.
type Task struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Project          string   `json:"project"`
	Priority         int      `json:"priority"`
	AssignedRole     string   `json:"assigned_role,omitempty"`
	FileScope        []string `json:"file_scope"`
	DependsOn        []int64  `json:"depends_on"`
	AssignedInstance string   `json:"assigned_instance,omitempty"`
	Status           string   `json:"status"`
	Result           string   `json:"result,omitempty"`
	CreatedBy        string   `json:"created_by"`
	CreatedAt        string   `json:"created_at"`
	ClaimedAt        string   `json:"claimed_at,omitempty"`
	CompletedAt      string   `json:"completed_at,omitempty"`
}

// Role represents a row in the agent_roles SQLite table.
// Upsert-by-name: re-creating a role overwrites description, prompt and
// capabilities and bumps updated_at.
type Role struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	SystemPrompt string   `json:"system_prompt"`
	Capabilities []string `json:"capabilities"`
	UpdatedAt    string   `json:"updated_at,omitempty"`
}

// SessionEntry represents a row in the session_log SQLite table.
type SessionEntry struct {
	ID            int64    `json:"id"`
	InstanceID    string   `json:"instance_id"`
	Project       string   `json:"project"`
	Action        string   `json:"action"`
	Summary       string   `json:"summary"`
	FilesModified []string `json:"files_modified"`
	CreatedAt     string   `json:"created_at"`
}
