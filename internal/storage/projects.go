package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pbarker/context-mcp/internal/models"
)

const projectColumns = `id, name, description, type, status, workspace_path, created_at, updated_at`

// NewProject carries the inputs for project creation. Only Name is
// required; Type and Status fall back to the schema defaults.
type NewProject struct {
	Name          string
	Description   *string
	Type          string
	WorkspacePath *string
}

// ProjectUpdate carries the updatable project fields. Nil means the field
// is absent from the request and must not be touched.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Status      *string
	Type        *string
}

// CreateProject inserts a new project and returns the stored record, so
// the caller sees server-applied defaults rather than its own input.
func (s *Store) CreateProject(in NewProject) (*models.Project, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	typ := in.Type
	if typ == "" {
		typ = "feature"
	}

	id := uuid.New().String()
	now := nowISO()
	_, err := s.execute(
		`INSERT INTO projects (id, name, description, type, status, workspace_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 'active', ?, ?, ?)`,
		id, in.Name, in.Description, typ, in.WorkspacePath, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return s.getProject(id)
}

// ListProjects returns projects filtered by status (empty for all),
// most recently updated first. The result is not capped.
func (s *Store) ListProjects(status string) ([]models.Project, error) {
	var q queryBuilder
	if status != "" {
		q.filter("status", "=", status)
	}
	q.orderBy("updated_at DESC")

	stmt, args := q.build(`SELECT ` + projectColumns + ` FROM projects`)
	rows, err := s.query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// GetProject returns the project with its tasks in creation order and a
// count of the context entries scoped to it (global entries excluded).
func (s *Store) GetProject(id string) (*models.ProjectDetail, error) {
	proj, err := s.getProject(id)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY created_at`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	row, err := s.queryRow(`SELECT COUNT(*) FROM context_entries WHERE project_id = ?`, id)
	if err != nil {
		return nil, err
	}
	var count int
	if err := row.Scan(&count); err != nil {
		return nil, fmt.Errorf("count context entries: %w", err)
	}

	return &models.ProjectDetail{Project: *proj, Tasks: tasks, ContextCount: count}, nil
}

// UpdateProject applies only the fields present in the update and always
// refreshes updated_at. An update with no fields fails explicitly.
func (s *Store) UpdateProject(id string, upd ProjectUpdate) (*models.Project, error) {
	var set []string
	var args []any
	appendSet := func(column string, v *string) {
		if v != nil {
			set = append(set, column+" = ?")
			args = append(args, *v)
		}
	}
	appendSet("name", upd.Name)
	appendSet("description", upd.Description)
	appendSet("status", upd.Status)
	appendSet("type", upd.Type)

	if len(set) == 0 {
		return nil, fmt.Errorf("no updates provided")
	}
	set = append(set, "updated_at = ?")
	args = append(args, nowISO(), id)

	res, err := s.execute(`UPDATE projects SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return s.getProject(id)
}

// DeleteProject permanently removes a project. Its tasks and scoped
// context entries cascade away; decision-log rows keep their content with
// project_id nulled.
func (s *Store) DeleteProject(id string) error {
	res, err := s.execute(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) getProject(id string) (*models.Project, error) {
	row, err := s.queryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// scanner abstracts sql.Row and sql.Rows for the shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*models.Project, error) {
	var p models.Project
	var desc, workspace sql.NullString
	err := row.Scan(&p.ID, &p.Name, &desc, &p.Type, &p.Status, &workspace, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	p.Description = nullable(desc)
	p.WorkspacePath = nullable(workspace)
	return &p, nil
}

// nullable converts a NullString to an optional field value.
func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
