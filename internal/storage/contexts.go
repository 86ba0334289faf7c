package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/pbarker/context-mcp/internal/models"
)

const contextColumns = `id, project_id, type, name, content, category, priority, metadata, created_at, updated_at`

// NewContext carries the inputs for storing a context entry. Type, Name,
// and Content are required; a nil ProjectID makes the entry global.
type NewContext struct {
	Type      string
	Name      string
	Content   string
	ProjectID *string
	Category  *string
	Priority  string
	Metadata  map[string]any
}

// ContextQuery holds the optional filters for QueryContext. Every field
// may be omitted independently.
type ContextQuery struct {
	ProjectID string
	Type      string
	Category  string
	Search    string
	Limit     int
}

// StoreContext inserts a context entry and returns the stored record.
func (s *Store) StoreContext(in NewContext) (*models.ContextEntry, error) {
	if in.Type == "" || in.Name == "" || in.Content == "" {
		return nil, fmt.Errorf("context type, name, and content are required")
	}
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}

	var metadata *string
	if in.Metadata != nil {
		raw, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
		enc := string(raw)
		metadata = &enc
	}

	id := uuid.New().String()
	now := nowISO()
	_, err := s.execute(
		`INSERT INTO context_entries (id, project_id, type, name, content, category, priority, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.ProjectID, in.Type, in.Name, in.Content, in.Category, priority, metadata, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert context entry: %w", err)
	}
	return s.getContext(id)
}

// QueryContext returns context entries matching the given filters, most
// important first: priority rank (critical before high before medium
// before low), then most recently updated. A project filter also matches
// global entries — knowledge without an owning project is always visible.
// Search matches name or content as a substring. Limit defaults to 20.
func (s *Store) QueryContext(cq ContextQuery) ([]models.ContextEntry, error) {
	var q queryBuilder
	if cq.ProjectID != "" {
		q.where(`(project_id = ? OR project_id IS NULL)`, cq.ProjectID)
	}
	if cq.Type != "" {
		q.filter("type", "=", cq.Type)
	}
	if cq.Category != "" {
		q.filter("category", "=", cq.Category)
	}
	if cq.Search != "" {
		pattern := "%" + cq.Search + "%"
		q.where(`(name LIKE ? OR content LIKE ?)`, pattern, pattern)
	}
	q.orderBy(priorityRank + ` ASC, updated_at DESC`)
	limit := cq.Limit
	if limit <= 0 {
		limit = 20
	}
	q.limitTo(limit)

	stmt, args := q.build(`SELECT ` + contextColumns + ` FROM context_entries`)
	rows, err := s.query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var entries []models.ContextEntry
	for rows.Next() {
		e, err := scanContext(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteContext removes a context entry by id, failing with a not-found
// error rather than silently succeeding on a no-op delete.
func (s *Store) DeleteContext(id string) error {
	if _, err := s.getContext(id); err != nil {
		return err
	}
	if _, err := s.execute(`DELETE FROM context_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete context entry: %w", err)
	}
	return nil
}

func (s *Store) getContext(id string) (*models.ContextEntry, error) {
	row, err := s.queryRow(`SELECT `+contextColumns+` FROM context_entries WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	e, err := scanContext(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("context entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func scanContext(row scanner) (*models.ContextEntry, error) {
	var e models.ContextEntry
	var projectID, category, metadata sql.NullString
	err := row.Scan(&e.ID, &projectID, &e.Type, &e.Name, &e.Content, &category, &e.Priority, &metadata, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan context entry: %w", err)
	}
	e.ProjectID = nullable(projectID)
	e.Category = nullable(category)
	if metadata.Valid {
		if err := json.Unmarshal([]byte(metadata.String), &e.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &e, nil
}
