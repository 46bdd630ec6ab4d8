package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newTestStore creates a new Store backed by a temp database file.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "facegames-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func testSession(id string) *Session {
	started := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return &Session{
		ID:           id,
		StartedAt:    started,
		CalibratedAt: started.Add(2 * time.Second),
		BaselineBAR:  0.08,
		BaselineFace: 0.5,
		BaselineEAR:  0.27,
		BaselineMAR:  0.2,
		Threshold:    0.0864,
		Samples:      30,
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess := testSession("session-1")
	if err := repo.Create(sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	if sess.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}

	retrieved, err := repo.GetByID("session-1")
	if err != nil {
		t.Fatalf("failed to get session by ID: %v", err)
	}

	if retrieved.BaselineBAR != sess.BaselineBAR {
		t.Errorf("BaselineBAR mismatch: got %f, want %f", retrieved.BaselineBAR, sess.BaselineBAR)
	}
	if retrieved.Threshold != sess.Threshold {
		t.Errorf("Threshold mismatch: got %f, want %f", retrieved.Threshold, sess.Threshold)
	}
	if retrieved.Samples != sess.Samples {
		t.Errorf("Samples mismatch: got %d, want %d", retrieved.Samples, sess.Samples)
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	for _, id := range []string{"session-1", "session-2", "session-3"} {
		if err := repo.Create(testSession(id)); err != nil {
			t.Fatalf("failed to create session %s: %v", id, err)
		}
	}

	sessions, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("List() returned %d sessions, want 3", len(sessions))
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	if err := repo.Create(testSession("session-1")); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	if err := repo.Delete("session-1"); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}

	if _, err := repo.GetByID("session-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete("session-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of missing session error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_DeleteCascadesEvents(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().Create(testSession("session-1")); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if err := s.Events().Create(&Event{SessionID: "session-1", Kind: EventKindRaise, Value: "raise"}); err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	if err := s.Sessions().Delete("session-1"); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}

	events, err := s.Events().GetBySessionID("session-1")
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected events to cascade on session delete, got %d", len(events))
	}
}
