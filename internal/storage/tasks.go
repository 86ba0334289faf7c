package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pbarker/context-mcp/internal/models"
)

const taskColumns = `id, project_id, title, description, status, priority, type, depends_on, estimated_time, created_at, updated_at, completed_at`

// NewTask carries the inputs for task creation. ProjectID and Title are
// required. DependsOn holds ids of other tasks; the store does not verify
// that they exist.
type NewTask struct {
	ProjectID     string
	Title         string
	Description   *string
	Priority      string
	Type          *string
	DependsOn     []string
	EstimatedTime *string
}

// TaskUpdate carries the updatable task fields. Nil means the field is
// absent from the request and must not be touched.
type TaskUpdate struct {
	Status      *string
	Priority    *string
	Description *string
}

// CreateTask inserts a task for a project and returns the stored record.
func (s *Store) CreateTask(in NewTask) (*models.Task, error) {
	if in.ProjectID == "" || in.Title == "" {
		return nil, fmt.Errorf("task project_id and title are required")
	}
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}

	var dependsOn *string
	if len(in.DependsOn) > 0 {
		raw, err := json.Marshal(in.DependsOn)
		if err != nil {
			return nil, fmt.Errorf("encode depends_on: %w", err)
		}
		enc := string(raw)
		dependsOn = &enc
	}

	id := uuid.New().String()
	now := nowISO()
	_, err := s.execute(
		`INSERT INTO tasks (id, project_id, title, description, status, priority, type, depends_on, estimated_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 'pending', ?, ?, ?, ?, ?, ?)`,
		id, in.ProjectID, in.Title, in.Description, priority, in.Type, dependsOn, in.EstimatedTime, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.getTask(id)
}

// UpdateTask applies only the fields present in the update and refreshes
// updated_at. Setting status to "completed" stamps completed_at with the
// current instant; setting any other status leaves a previously stamped
// completed_at in place.
func (s *Store) UpdateTask(id string, upd TaskUpdate) (*models.Task, error) {
	var set []string
	var args []any
	appendSet := func(column string, v *string) {
		if v != nil {
			set = append(set, column+" = ?")
			args = append(args, *v)
		}
	}
	appendSet("status", upd.Status)
	appendSet("priority", upd.Priority)
	appendSet("description", upd.Description)

	if len(set) == 0 {
		return nil, fmt.Errorf("no updates provided")
	}

	now := nowISO()
	if upd.Status != nil && *upd.Status == "completed" {
		set = append(set, "completed_at = ?")
		args = append(args, now)
	}
	set = append(set, "updated_at = ?")
	args = append(args, now, id)

	res, err := s.execute(`UPDATE tasks SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return s.getTask(id)
}

// NextTasks returns the project's most urgent workable tasks: pending or
// in-progress only, ordered by priority rank (critical first) then oldest
// first. Completed and blocked tasks are never candidates. Limit defaults
// to 3.
func (s *Store) NextTasks(projectID string, limit int) ([]models.Task, error) {
	var q queryBuilder
	q.filter("project_id", "=", projectID)
	q.where(`status IN ('pending', 'in_progress')`)
	q.orderBy(priorityRank + ` ASC, created_at ASC`)
	if limit <= 0 {
		limit = 3
	}
	q.limitTo(limit)

	stmt, args := q.build(`SELECT ` + taskColumns + ` FROM tasks`)
	rows, err := s.query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query next tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *Store) getTask(id string) (*models.Task, error) {
	row, err := s.queryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func scanTask(row scanner) (*models.Task, error) {
	var t models.Task
	var desc, typ, dependsOn, estimated, completed sql.NullString
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &desc, &t.Status, &t.Priority, &typ, &dependsOn, &estimated, &t.CreatedAt, &t.UpdatedAt, &completed)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Description = nullable(desc)
	t.Type = nullable(typ)
	t.EstimatedTime = nullable(estimated)
	t.CompletedAt = nullable(completed)
	if dependsOn.Valid {
		if err := json.Unmarshal([]byte(dependsOn.String), &t.DependsOn); err != nil {
			return nil, fmt.Errorf("decode depends_on: %w", err)
		}
	}
	return &t, nil
}
