package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// StoreFile is the name of the single on-disk database file.
const StoreFile = "context.db"

var (
	// ErrNotInitialized is returned when an operation runs before Open completes.
	ErrNotInitialized = errors.New("store not initialized: call Open first")

	// ErrNotFound is returned when a lookup by id or key matches nothing and
	// the operation's contract requires existence.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned by Open on a handle that was already closed.
	// A closed store is terminal; make a new handle instead.
	ErrClosed = errors.New("store is closed")
)

// Store owns the in-memory SQLite database and its on-disk file. The
// database lives entirely in memory; every successful mutation is followed
// by a synchronous full-file serialization to disk before the call returns.
// A full rewrite per mutation is the dominant cost — callers must not issue
// mutations in a tight loop; no batching layer is provided.
//
// The store expects a single caller at a time. Open is the only guarded
// entry point: concurrent opens converge on one initialization.
type Store struct {
	path string

	once    sync.Once
	openErr error
	ready   atomic.Bool
	closed  atomic.Bool
	db      *sql.DB
}

// New returns an unopened store handle rooted at dataDir. No filesystem
// or database work happens until Open.
func New(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, StoreFile)}
}

// Open loads the store file into memory if present, otherwise starts empty,
// ensures the schema, and persists immediately. It is idempotent: concurrent
// callers against the same handle converge on a single initialization, with
// later callers waiting for and reusing the first result. Opening a handle
// that was closed fails with ErrClosed.
func (s *Store) Open() error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.once.Do(func() {
		s.openErr = s.open()
		if s.openErr == nil {
			s.ready.Store(true)
		}
	})
	return s.openErr
}

func (s *Store) open() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// One connection owns the memory database for the handle's lifetime.
	db, err := sql.Open("sqlite3", "file::memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return fmt.Errorf("open memory db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping memory db: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return fmt.Errorf("ensure schema: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := loadFrom(db, s.path); err != nil {
			db.Close()
			return fmt.Errorf("load store file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		db.Close()
		return fmt.Errorf("stat store file: %w", err)
	}

	s.db = db
	if err := s.persist(); err != nil {
		s.db = nil
		db.Close()
		return err
	}
	return nil
}

// loadFrom copies rows from an existing store file into the memory database.
// Tables missing from an older file are skipped: schema changes are
// additive-only by convention.
func loadFrom(db *sql.DB, path string) error {
	if _, err := db.Exec(`ATTACH DATABASE ? AS disk`, path); err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	defer db.Exec(`DETACH DATABASE disk`)

	present := make(map[string]bool)
	rows, err := db.Query(`SELECT name FROM disk.sqlite_master WHERE type = 'table'`)
	if err != nil {
		return fmt.Errorf("read disk tables: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		present[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, table := range storeTables {
		if !present[table] {
			continue
		}
		if _, err := db.Exec(fmt.Sprintf(`INSERT INTO main.%s SELECT * FROM disk.%s`, table, table)); err != nil {
			return fmt.Errorf("copy %s: %w", table, err)
		}
	}
	return nil
}

// Close releases the memory database and makes the handle terminal: a
// closed store cannot be reopened. The on-disk file already reflects
// every completed mutation, so nothing is flushed here.
func (s *Store) Close() error {
	s.closed.Store(true)
	if !s.ready.Load() {
		return nil
	}
	s.ready.Store(false)
	return s.db.Close()
}

// conn returns the live database handle, or ErrNotInitialized before Open.
func (s *Store) conn() (*sql.DB, error) {
	if !s.ready.Load() {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

// execute runs a single mutating statement, then serializes the entire
// memory database over the store file. The mutation is fully durable before
// execute returns; a failed statement never reaches the persist step.
func (s *Store) execute(query string, args ...any) (sql.Result, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	res, err := db.Exec(query, args...)
	if err != nil {
		return nil, err
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return res, nil
}

// persist writes the full memory database to a temp file and renames it
// over the store file, so readers of the path never see a partial write.
func (s *Store) persist() error {
	tmp := s.path + ".tmp"
	os.Remove(tmp)
	if _, err := s.db.Exec(`VACUUM INTO ?`, tmp); err != nil {
		return fmt.Errorf("serialize store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// query executes a read-only statement. Callers materialize every row
// before the next operation; nothing is read lazily across calls.
func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return db.Query(query, args...)
}

// queryRow executes a read-only statement expected to match at most one
// row. The returned row reports sql.ErrNoRows on the empty case; callers
// translate that to ErrNotFound where existence is required.
func (s *Store) queryRow(query string, args ...any) (*sql.Row, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return db.QueryRow(query, args...), nil
}

// timeLayout keeps millisecond precision with a fixed digit count so that
// lexicographic comparison of stored timestamps matches temporal order.
const timeLayout = "2006-01-02T15:04:05.000Z"

// nowISO returns the current instant as a store timestamp.
func nowISO() string {
	return time.Now().UTC().Format(timeLayout)
}
