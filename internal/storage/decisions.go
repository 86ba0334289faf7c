package storage

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/pbarker/context-mcp/internal/models"
)

const decisionColumns = `id, project_id, decision_type, input_context, decision, confidence, reasoning, was_correct, created_at`

// NewDecision carries the inputs for logging a decision. DecisionType and
// Decision are required. The log is append-only: there is no update.
type NewDecision struct {
	DecisionType string
	Decision     string
	ProjectID    *string
	InputContext *string
	Confidence   *float64
	Reasoning    *string
}

// LogDecision appends a decision record and returns it as stored.
// was_correct starts unset and stays that way: no operation revises it.
func (s *Store) LogDecision(in NewDecision) (*models.Decision, error) {
	if in.DecisionType == "" || in.Decision == "" {
		return nil, fmt.Errorf("decision_type and decision are required")
	}

	id := uuid.New().String()
	_, err := s.execute(
		`INSERT INTO decision_log (id, project_id, decision_type, input_context, decision, confidence, reasoning, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.ProjectID, in.DecisionType, in.InputContext, in.Decision, in.Confidence, in.Reasoning, nowISO(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert decision: %w", err)
	}

	row, err := s.queryRow(`SELECT `+decisionColumns+` FROM decision_log WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return scanDecision(row)
}

// DecisionHistory returns logged decisions, newest first, optionally
// filtered to one project. Limit defaults to 10.
func (s *Store) DecisionHistory(projectID string, limit int) ([]models.Decision, error) {
	var q queryBuilder
	if projectID != "" {
		q.filter("project_id", "=", projectID)
	}
	q.orderBy("created_at DESC")
	if limit <= 0 {
		limit = 10
	}
	q.limitTo(limit)

	stmt, args := q.build(`SELECT ` + decisionColumns + ` FROM decision_log`)
	rows, err := s.query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query decision history: %w", err)
	}
	defer rows.Close()

	var decisions []models.Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, *d)
	}
	return decisions, rows.Err()
}

func scanDecision(row scanner) (*models.Decision, error) {
	var d models.Decision
	var projectID, inputContext, reasoning sql.NullString
	var confidence sql.NullFloat64
	var wasCorrect sql.NullBool
	err := row.Scan(&d.ID, &projectID, &d.DecisionType, &inputContext, &d.Decision, &confidence, &reasoning, &wasCorrect, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan decision: %w", err)
	}
	d.ProjectID = nullable(projectID)
	d.InputContext = nullable(inputContext)
	d.Reasoning = nullable(reasoning)
	if confidence.Valid {
		d.Confidence = &confidence.Float64
	}
	if wasCorrect.Valid {
		d.WasCorrect = &wasCorrect.Bool
	}
	return &d, nil
}
