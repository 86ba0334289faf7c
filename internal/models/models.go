package models

// Project represents a tracked development project.
type Project struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	WorkspacePath *string `json:"workspace_path,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// ProjectDetail is a project together with its tasks (in creation order)
// and a count of the context entries scoped to it. Global context entries
// are not counted.
type ProjectDetail struct {
	Project      Project `json:"project"`
	Tasks        []Task  `json:"tasks"`
	ContextCount int     `json:"context_count"`
}

// ContextEntry is a stored piece of development knowledge, optionally
// scoped to a project. A nil ProjectID marks a global entry.
type ContextEntry struct {
	ID        string         `json:"id"`
	ProjectID *string        `json:"project_id,omitempty"`
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	Content   string         `json:"content"`
	Category  *string        `json:"category,omitempty"`
	Priority  string         `json:"priority"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// Task represents a unit of work belonging to a project. DependsOn holds
// ids of other tasks; the references are not validated by the store.
type Task struct {
	ID            string   `json:"id"`
	ProjectID     string   `json:"project_id"`
	Title         string   `json:"title"`
	Description   *string  `json:"description,omitempty"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	Type          *string  `json:"type,omitempty"`
	DependsOn     []string `json:"depends_on,omitempty"`
	EstimatedTime *string  `json:"estimated_time,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	CompletedAt   *string  `json:"completed_at,omitempty"`
}

// SessionMemory is a transient key/value pair scoped to a session id,
// with an optional expiry instant.
type SessionMemory struct {
	ID        string  `json:"id"`
	SessionID string  `json:"session_id"`
	Key       string  `json:"key"`
	Value     string  `json:"value"`
	CreatedAt string  `json:"created_at"`
	ExpiresAt *string `json:"expires_at,omitempty"`
}

// Decision is an append-only record of a choice made, its confidence,
// and its rationale. WasCorrect is tri-state: unset until reviewed.
type Decision struct {
	ID           string   `json:"id"`
	ProjectID    *string  `json:"project_id,omitempty"`
	DecisionType string   `json:"decision_type"`
	InputContext *string  `json:"input_context,omitempty"`
	Decision     string   `json:"decision"`
	Confidence   *float64 `json:"confidence,omitempty"`
	Reasoning    *string  `json:"reasoning,omitempty"`
	WasCorrect   *bool    `json:"was_correct,omitempty"`
	CreatedAt    string   `json:"created_at"`
}
