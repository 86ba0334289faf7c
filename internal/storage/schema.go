package storage

// Schema is the SQL schema for the context store. Creation is idempotent
// and safe to run on every startup against a pre-populated database.
// Schema changes are additive-only by convention; there is no migration
// tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS projects (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    description    TEXT,
    type           TEXT NOT NULL DEFAULT 'feature'
                   CHECK(type IN ('feature', 'bugfix', 'refactor', 'spike', 'maintenance')),
    status         TEXT NOT NULL DEFAULT 'active'
                   CHECK(status IN ('active', 'paused', 'completed', 'archived')),
    workspace_path TEXT,
    created_at     TEXT NOT NULL,
    updated_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS context_entries (
    id         TEXT PRIMARY KEY,
    project_id TEXT REFERENCES projects(id) ON DELETE CASCADE,
    type       TEXT NOT NULL
               CHECK(type IN ('business_rule', 'pattern', 'convention', 'glossary', 'document', 'decision')),
    name       TEXT NOT NULL,
    content    TEXT NOT NULL,
    category   TEXT,
    priority   TEXT NOT NULL DEFAULT 'medium'
               CHECK(priority IN ('critical', 'high', 'medium', 'low')),
    metadata   TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
    id             TEXT PRIMARY KEY,
    project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    title          TEXT NOT NULL,
    description    TEXT,
    status         TEXT NOT NULL DEFAULT 'pending'
                   CHECK(status IN ('pending', 'in_progress', 'completed', 'blocked')),
    priority       TEXT NOT NULL DEFAULT 'medium'
                   CHECK(priority IN ('critical', 'high', 'medium', 'low')),
    type           TEXT
                   CHECK(type IN ('setup', 'implementation', 'testing', 'documentation')),
    depends_on     TEXT,
    estimated_time TEXT,
    created_at     TEXT NOT NULL,
    updated_at     TEXT NOT NULL,
    completed_at   TEXT
);

CREATE TABLE IF NOT EXISTS session_memory (
    id         TEXT PRIMARY KEY,
    session_id TEXT NOT NULL DEFAULT 'default',
    key        TEXT NOT NULL,
    value      TEXT NOT NULL,
    created_at TEXT NOT NULL,
    expires_at TEXT,
    UNIQUE(session_id, key)
);

CREATE TABLE IF NOT EXISTS decision_log (
    id            TEXT PRIMARY KEY,
    project_id    TEXT REFERENCES projects(id) ON DELETE SET NULL,
    decision_type TEXT NOT NULL,
    input_context TEXT,
    decision      TEXT NOT NULL,
    confidence    REAL CHECK(confidence >= 0 AND confidence <= 1),
    reasoning     TEXT,
    was_correct   INTEGER,
    created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_context_project ON context_entries(project_id);
CREATE INDEX IF NOT EXISTS idx_context_type ON context_entries(type);
CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_memory_session ON session_memory(session_id);
`

// storeTables lists tables in foreign-key dependency order, used when
// loading rows from an existing store file into the memory database.
var storeTables = []string{
	"projects",
	"context_entries",
	"tasks",
	"session_memory",
	"decision_log",
}
