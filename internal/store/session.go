package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents a completed calibration session stored in the database.
type Session struct {
	ID           string
	StartedAt    time.Time
	CalibratedAt time.Time
	BaselineBAR  float64
	BaselineFace float64
	BaselineEAR  float64
	BaselineMAR  float64
	Threshold    float64
	Samples      int
	CreatedAt    time.Time
}

// SessionRepository provides CRUD operations for calibration sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session into the database.
func (r *SessionRepository) Create(sess *Session) error {
	sess.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, calibrated_at, baseline_bar, baseline_face_x, baseline_ear, baseline_mar, threshold, samples, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.CalibratedAt, sess.BaselineBAR, sess.BaselineFace,
		sess.BaselineEAR, sess.BaselineMAR, sess.Threshold, sess.Samples, sess.CreatedAt,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}

	err := r.db.QueryRow(
		`SELECT id, started_at, calibrated_at, baseline_bar, baseline_face_x, baseline_ear, baseline_mar, threshold, samples, created_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.StartedAt, &sess.CalibratedAt, &sess.BaselineBAR, &sess.BaselineFace,
		&sess.BaselineEAR, &sess.BaselineMAR, &sess.Threshold, &sess.Samples, &sess.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sess, nil
}

// List retrieves all sessions from the database, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, calibrated_at, baseline_bar, baseline_face_x, baseline_ear, baseline_mar, threshold, samples, created_at
		 FROM sessions ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		err := rows.Scan(&sess.ID, &sess.StartedAt, &sess.CalibratedAt, &sess.BaselineBAR, &sess.BaselineFace,
			&sess.BaselineEAR, &sess.BaselineMAR, &sess.Threshold, &sess.Samples, &sess.CreatedAt)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session from the database by its ID.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
