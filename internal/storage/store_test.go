package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a fresh store in a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesStoreFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Open())
	defer s.Close()

	_, err := os.Stat(filepath.Join(dir, StoreFile))
	assert.NoError(t, err, "store file should exist after Open")
}

func TestOpenIsIdempotent(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Open())
	defer s.Close()
	require.NoError(t, s.Open(), "second Open must reuse the first result")
}

func TestConcurrentOpenConverges(t *testing.T) {
	s := New(t.TempDir())
	defer s.Close()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Open()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "opener %d", i)
	}

	// The converged handle must be usable.
	_, err := s.CreateProject(NewProject{Name: "converged"})
	require.NoError(t, err)
}

func TestOperationsBeforeOpenFail(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.ListProjects("")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = s.CreateProject(NewProject{Name: "early"})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = s.Recall("", "anything")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestMutationsSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	s := New(dir)
	require.NoError(t, s.Open())
	proj, err := s.CreateProject(NewProject{Name: "durable"})
	require.NoError(t, err)
	_, err = s.Remember("", "token", "abc123", nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// A fresh handle over the same directory must see the data.
	s2 := New(dir)
	require.NoError(t, s2.Open())
	defer s2.Close()

	got, err := s2.GetProject(proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "durable", got.Project.Name)

	mem, err := s2.Recall("", "token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", mem.Value)
}

func TestFailedMutationIsNotPersisted(t *testing.T) {
	dir := t.TempDir()

	s := New(dir)
	require.NoError(t, s.Open())
	proj, err := s.CreateProject(NewProject{Name: "intact"})
	require.NoError(t, err)

	// Violates the status CHECK constraint; the statement fails before
	// the persist step runs.
	bad := "obliterated"
	_, err = s.UpdateProject(proj.ID, ProjectUpdate{Status: &bad})
	require.Error(t, err)
	require.NoError(t, s.Close())

	s2 := New(dir)
	require.NoError(t, s2.Open())
	defer s2.Close()

	got, err := s2.GetProject(proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", got.Project.Status)
}

func TestOpenSkipsUnknownState(t *testing.T) {
	// Opening over a directory with no store file starts empty.
	s := newTestStore(t)
	projects, err := s.ListProjects("")
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestCloseBeforeOpen(t *testing.T) {
	s := New(t.TempDir())
	assert.NoError(t, s.Close())
}

func TestOpenAfterCloseFails(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Open())
	require.NoError(t, s.Close())

	// A closed handle is terminal: reopening must not report success
	// while leaving every operation failing with ErrNotInitialized.
	assert.ErrorIs(t, s.Open(), ErrClosed)

	// Closing before ever opening is just as terminal.
	s2 := New(t.TempDir())
	require.NoError(t, s2.Close())
	assert.ErrorIs(t, s2.Open(), ErrClosed)
}

func TestNotFoundIsDistinguishable(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetProject("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeleteContext("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeleteProject("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateTask("no-such-id", TaskUpdate{Status: ptr("pending")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func ptr[T any](v T) *T { return &v }

func TestErrNotFoundWrapsCleanly(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetProject("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "missing")
}
