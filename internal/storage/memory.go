package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pbarker/context-mcp/internal/models"
)

const memoryColumns = `id, session_id, key, value, created_at, expires_at`

// DefaultSession is the session id used when a caller does not name one.
const DefaultSession = "default"

// Remember upserts a session memory entry keyed on (session_id, key): a
// second write to the same pair replaces value, created_at, and expires_at
// in place, leaving exactly one row. A ttl in minutes, when given, sets
// the expiry relative to the current instant.
func (s *Store) Remember(sessionID, key, value string, ttlMinutes *int) (*models.SessionMemory, error) {
	if key == "" {
		return nil, fmt.Errorf("memory key is required")
	}
	if sessionID == "" {
		sessionID = DefaultSession
	}

	now := time.Now().UTC()
	var expiresAt *string
	if ttlMinutes != nil {
		exp := now.Add(time.Duration(*ttlMinutes) * time.Minute).Format(timeLayout)
		expiresAt = &exp
	}

	_, err := s.execute(
		`INSERT INTO session_memory (id, session_id, key, value, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id, key) DO UPDATE SET
		     value      = excluded.value,
		     created_at = excluded.created_at,
		     expires_at = excluded.expires_at`,
		uuid.New().String(), sessionID, key, value, now.Format(timeLayout), expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("remember %q: %w", key, err)
	}

	row, err := s.queryRow(
		`SELECT `+memoryColumns+` FROM session_memory WHERE session_id = ? AND key = ?`,
		sessionID, key,
	)
	if err != nil {
		return nil, err
	}
	return scanMemory(row)
}

// Recall returns the value stored under (session_id, key) if it has not
// expired. A missing key and an expired one are indistinguishable to the
// caller: both report not found. Expiry compares against the clock at
// query time; expired rows stay on disk until overwritten or forgotten.
func (s *Store) Recall(sessionID, key string) (*models.SessionMemory, error) {
	if sessionID == "" {
		sessionID = DefaultSession
	}

	row, err := s.queryRow(
		`SELECT `+memoryColumns+` FROM session_memory
		 WHERE session_id = ? AND key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		sessionID, key, nowISO(),
	)
	if err != nil {
		return nil, err
	}
	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("memory %q: not found or expired", key)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Forget deletes the entry under (session_id, key). It is idempotent:
// forgetting a key that was never remembered succeeds, unlike context
// deletion which insists on existence.
func (s *Store) Forget(sessionID, key string) error {
	if sessionID == "" {
		sessionID = DefaultSession
	}
	if _, err := s.execute(
		`DELETE FROM session_memory WHERE session_id = ? AND key = ?`, sessionID, key,
	); err != nil {
		return fmt.Errorf("forget %q: %w", key, err)
	}
	return nil
}

func scanMemory(row *sql.Row) (*models.SessionMemory, error) {
	var m models.SessionMemory
	var expiresAt sql.NullString
	err := row.Scan(&m.ID, &m.SessionID, &m.Key, &m.Value, &m.CreatedAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan session memory: %w", err)
	}
	m.ExpiresAt = nullable(expiresAt)
	return &m, nil
}
