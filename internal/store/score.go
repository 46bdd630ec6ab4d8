package store

import (
	"database/sql"
	"errors"
	"time"
)

// Score represents a game result reported by a controller.
type Score struct {
	ID        string
	SessionID string
	Game      string
	Player    string
	Points    int
	CreatedAt time.Time
}

// ScoreRepository provides CRUD operations for scores.
type ScoreRepository struct {
	db *sql.DB
}

// Scores returns the score repository for this store.
func (s *Store) Scores() *ScoreRepository {
	return &ScoreRepository{db: s.db}
}

// Create inserts a new score into the database.
func (r *ScoreRepository) Create(sc *Score) error {
	sc.CreatedAt = time.Now()

	var sessionID interface{}
	if sc.SessionID != "" {
		sessionID = sc.SessionID
	}

	_, err := r.db.Exec(
		`INSERT INTO scores (id, session_id, game, player, points, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sc.ID, sessionID, sc.Game, sc.Player, sc.Points, sc.CreatedAt,
	)
	return err
}

// GetByID retrieves a score by its ID.
func (r *ScoreRepository) GetByID(id string) (*Score, error) {
	sc := &Score{}
	var sessionID sql.NullString

	err := r.db.QueryRow(
		`SELECT id, session_id, game, player, points, created_at
		 FROM scores WHERE id = ?`,
		id,
	).Scan(&sc.ID, &sessionID, &sc.Game, &sc.Player, &sc.Points, &sc.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sc.SessionID = sessionID.String
	return sc, nil
}

// ListByGame retrieves the top scores for a game, highest first.
func (r *ScoreRepository) ListByGame(game string, limit int) ([]*Score, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, game, player, points, created_at
		 FROM scores WHERE game = ?
		 ORDER BY points DESC, created_at ASC
		 LIMIT ?`,
		game, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScores(rows)
}

// List retrieves all scores from the database, newest first.
func (r *ScoreRepository) List() ([]*Score, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, game, player, points, created_at
		 FROM scores ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScores(rows)
}

// Delete removes a score from the database by its ID.
func (r *ScoreRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM scores WHERE id = ?`, id)
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

func scanScores(rows *sql.Rows) ([]*Score, error) {
	var scores []*Score
	for rows.Next() {
		sc := &Score{}
		var sessionID sql.NullString

		err := rows.Scan(&sc.ID, &sessionID, &sc.Game, &sc.Player, &sc.Points, &sc.CreatedAt)
		if err != nil {
			return nil, err
		}

		sc.SessionID = sessionID.String
		scores = append(scores, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scores, nil
}
