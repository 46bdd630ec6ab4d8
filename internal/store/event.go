package store

import (
	"database/sql"
	"time"
)

// EventKind classifies a stored control event.
type EventKind string

const (
	// EventKindMovement records a head-position change.
	EventKindMovement EventKind = "movement"
	// EventKindRaise records a discrete eyebrow-raise action.
	EventKindRaise EventKind = "raise"
	// EventKindExpression records an expression change.
	EventKindExpression EventKind = "expression"
)

// Event represents a discrete control event emitted during a session.
type Event struct {
	ID        int64
	SessionID string
	Kind      EventKind
	Value     string
	CreatedAt time.Time
}

// EventRepository provides operations for control events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a new event into the database.
func (r *EventRepository) Create(e *Event) error {
	e.CreatedAt = time.Now()

	result, err := r.db.Exec(
		`INSERT INTO events (session_id, kind, value, created_at) VALUES (?, ?, ?, ?)`,
		e.SessionID, string(e.Kind), e.Value, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	e.ID, err = result.LastInsertId()
	return err
}

// GetBySessionID retrieves all events for a given session in insertion order.
func (r *EventRepository) GetBySessionID(sessionID string) ([]Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, value, created_at
		 FROM events
		 WHERE session_id = ?
		 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var kind string
		if err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.Value, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = EventKind(kind)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// DeleteBySessionID removes all events for a given session.
func (r *EventRepository) DeleteBySessionID(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM events WHERE session_id = ?`, sessionID)
	return err
}
