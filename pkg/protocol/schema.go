package protocol

// SchemaDDL defines the SQLite schema for the clambake coordination database.
// Tables: instances, messages, project_memory, global_memory, session_log,
// tasks, agent_roles. Execute against a SQLite database with:
// db.Exec(SchemaDDL). Idempotent (CREATE ... IF NOT EXISTS throughout).
//
// List-valued columns (tags, file_scope, depends_on, ...) hold JSON arrays
// encoded as TEXT. Timestamps are datetime('now') strings in UTC.
const SchemaDDL = `
-- Registered agent instances with heartbeat-based liveness
CREATE TABLE IF NOT EXISTS instances (
    instance_id TEXT PRIMARY KEY,
    project TEXT NOT NULL,
    working_dir TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL DEFAULT 'unknown',
    status TEXT NOT NULL DEFAULT 'active',
    current_task TEXT,
    last_heartbeat TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Append-only inter-instance messages; to_target is an instance id,
-- a project name, or '@all'
CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY,
    from_instance TEXT NOT NULL,
    from_project TEXT,
    to_target TEXT NOT NULL,
    message_type TEXT NOT NULL DEFAULT 'info',
    subject TEXT NOT NULL,
    body TEXT,
    is_read INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    expires_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_messages_target ON messages(to_target, is_read);

-- Project-scoped knowledge entries
CREATE TABLE IF NOT EXISTS project_memory (
    id INTEGER PRIMARY KEY,
    project TEXT NOT NULL,
    memory_type TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    related_files TEXT NOT NULL DEFAULT '[]',
    status TEXT NOT NULL DEFAULT 'active',
    created_by TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_project_memory_project ON project_memory(project, status);

-- Cross-project knowledge entries
CREATE TABLE IF NOT EXISTS global_memory (
    id INTEGER PRIMARY KEY,
    memory_type TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    status TEXT NOT NULL DEFAULT 'active',
    created_by TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Append-only audit trail of session actions
CREATE TABLE IF NOT EXISTS session_log (
    id INTEGER PRIMARY KEY,
    instance_id TEXT NOT NULL,
    project TEXT,
    action TEXT NOT NULL,
    summary TEXT NOT NULL,
    files_modified TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Work queue; the claim transition is the one conditional update in the
-- system (WHERE status = 'pending' guards against double-claim)
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    project TEXT NOT NULL,
    priority INTEGER NOT NULL DEFAULT 0,
    assigned_role TEXT,
    file_scope TEXT NOT NULL DEFAULT '[]',
    depends_on TEXT NOT NULL DEFAULT '[]',
    assigned_instance TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    result TEXT,
    created_by TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    claimed_at TEXT,
    completed_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status, priority);

-- Named agent personas surfaced at claim time
CREATE TABLE IF NOT EXISTS agent_roles (
    name TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    system_prompt TEXT NOT NULL,
    capabilities TEXT NOT NULL DEFAULT '[]',
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
