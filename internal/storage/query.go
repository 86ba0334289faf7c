package storage

import "strings"

// priorityRank maps the priority enum to its ordering weight: critical
// ranks before high before medium before low.
const priorityRank = `CASE priority
    WHEN 'critical' THEN 1
    WHEN 'high' THEN 2
    WHEN 'medium' THEN 3
    WHEN 'low' THEN 4
    ELSE 5 END`

// queryBuilder composes a parameterized SELECT from optional filters, an
// ordering clause, and an optional row cap. Filters join by conjunction
// only; grouped disjunctions go through where as a single condition.
// It always yields valid SQL, with or without active filters, and the
// limit is bound as a parameter rather than spliced into the statement.
type queryBuilder struct {
	conds []string
	args  []any
	order string
	limit int
}

// filter adds a single "column op ?" predicate.
func (q *queryBuilder) filter(column, op string, value any) {
	q.conds = append(q.conds, column+" "+op+" ?")
	q.args = append(q.args, value)
}

// where adds a preassembled condition with its bound arguments. Used for
// the grouped OR cases (project-or-global visibility, name-or-content
// search) that filter cannot express.
func (q *queryBuilder) where(cond string, args ...any) {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, args...)
}

// orderBy sets the ordering clause appended after the filters.
func (q *queryBuilder) orderBy(clause string) {
	q.order = clause
}

// limitTo caps the result count. Zero or negative means no cap.
func (q *queryBuilder) limitTo(n int) {
	q.limit = n
}

// build compiles the query against a base SELECT and returns the statement
// with its bound arguments.
func (q *queryBuilder) build(base string) (string, []any) {
	var b strings.Builder
	b.WriteString(base)
	args := q.args

	if len(q.conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.conds, " AND "))
	}
	if q.order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.order)
	}
	if q.limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.limit)
	}
	return b.String(), args
}
