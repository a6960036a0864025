package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/example/vocabgym/internal/study"
	"github.com/example/vocabgym/pkg/models"
)

// SessionRepository handles database operations for study sessions
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// isUniqueViolation reports whether err is a uniqueness constraint failure
// from either backend.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// CreateSessionWithItems inserts a session and its items in one transaction.
// The partial unique index on (user_id) WHERE status = 'ACTIVE' turns a
// second concurrent start into a conflict here.
func (r *SessionRepository) CreateSessionWithItems(ctx context.Context, session *models.StudySession, items []*models.StudySessionItem) error {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if DB.DriverName() == "postgres" {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO study_sessions (user_id, word_set_id, source, status, session_size, total_words,
				words_completed, total_attempts, correct_attempts, incorrect_attempts, last_shown_word_id, started_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id
		`, session.UserID, session.WordSetID, session.Source, session.Status, session.SessionSize,
			session.TotalWords, session.WordsCompleted, session.TotalAttempts, session.CorrectAttempts,
			session.IncorrectAttempts, session.LastShownWordID, session.StartedAt,
		).Scan(&session.ID)
	} else {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `
			INSERT INTO study_sessions (user_id, word_set_id, source, status, session_size, total_words,
				words_completed, total_attempts, correct_attempts, incorrect_attempts, last_shown_word_id, started_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, session.UserID, session.WordSetID, session.Source, session.Status, session.SessionSize,
			session.TotalWords, session.WordsCompleted, session.TotalAttempts, session.CorrectAttempts,
			session.IncorrectAttempts, session.LastShownWordID, session.StartedAt)
		if err == nil {
			session.ID, err = res.LastInsertId()
		}
	}
	if err != nil {
		if isUniqueViolation(err) {
			return study.Conflictf("user %d already has an active session", session.UserID)
		}
		return fmt.Errorf("failed to create session: %v", err)
	}

	for _, item := range items {
		item.SessionID = session.ID
		if DB.DriverName() == "postgres" {
			err = tx.QueryRowContext(ctx, `
				INSERT INTO study_session_items (session_id, word_id, status, attempts_count, correct_count,
					incorrect_count, consecutive_correct, display_order, last_shown_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING id
			`, item.SessionID, item.WordID, item.Status, item.AttemptsCount, item.CorrectCount,
				item.IncorrectCount, item.ConsecutiveCorrect, item.DisplayOrder, item.LastShownAt,
			).Scan(&item.ID)
		} else {
			var res sql.Result
			res, err = tx.ExecContext(ctx, `
				INSERT INTO study_session_items (session_id, word_id, status, attempts_count, correct_count,
					incorrect_count, consecutive_correct, display_order, last_shown_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, item.SessionID, item.WordID, item.Status, item.AttemptsCount, item.CorrectCount,
				item.IncorrectCount, item.ConsecutiveCorrect, item.DisplayOrder, item.LastShownAt)
			if err == nil {
				item.ID, err = res.LastInsertId()
			}
		}
		if err != nil {
			return fmt.Errorf("failed to create session item: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return study.Conflictf("user %d already has an active session", session.UserID)
		}
		return fmt.Errorf("failed to commit session: %v", err)
	}
	return nil
}

// SessionByID returns a session by ID
func (r *SessionRepository) SessionByID(ctx context.Context, id int64) (*models.StudySession, error) {
	var session models.StudySession
	err := DB.GetContext(ctx, &session, "SELECT * FROM study_sessions WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, study.NotFoundf("session %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %v", err)
	}
	return &session, nil
}

// ActiveSessionByUser returns the user's active session, or nil when none exists
func (r *SessionRepository) ActiveSessionByUser(ctx context.Context, userID int64) (*models.StudySession, error) {
	var session models.StudySession
	err := DB.GetContext(ctx, &session,
		"SELECT * FROM study_sessions WHERE user_id = $1 AND status = 'ACTIVE'", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %v", err)
	}
	return &session, nil
}

// SessionsByUser returns the user's sessions, newest first
func (r *SessionRepository) SessionsByUser(ctx context.Context, userID int64, limit int) ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := DB.SelectContext(ctx, &sessions,
		"SELECT * FROM study_sessions WHERE user_id = $1 ORDER BY started_at DESC LIMIT $2", userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %v", err)
	}
	return sessions, nil
}

// UpdateSession persists the mutable session fields
func (r *SessionRepository) UpdateSession(ctx context.Context, session *models.StudySession) error {
	return updateSession(ctx, DB, session)
}

func updateSession(ctx context.Context, q sqlx.ExtContext, session *models.StudySession) error {
	_, err := q.ExecContext(ctx, `
		UPDATE study_sessions
		SET status = $1, words_completed = $2, total_attempts = $3, correct_attempts = $4,
			incorrect_attempts = $5, last_shown_word_id = $6, completed_at = $7
		WHERE id = $8
	`, session.Status, session.WordsCompleted, session.TotalAttempts, session.CorrectAttempts,
		session.IncorrectAttempts, session.LastShownWordID, session.CompletedAt, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update session: %v", err)
	}
	return nil
}

// ItemsBySession returns the session's items in display order
func (r *SessionRepository) ItemsBySession(ctx context.Context, sessionID int64) ([]*models.StudySessionItem, error) {
	var items []*models.StudySessionItem
	err := DB.SelectContext(ctx, &items,
		"SELECT * FROM study_session_items WHERE session_id = $1 ORDER BY display_order", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session items: %v", err)
	}
	return items, nil
}

// UpdateItem persists the mutable item fields
func (r *SessionRepository) UpdateItem(ctx context.Context, item *models.StudySessionItem) error {
	return updateItem(ctx, DB, item)
}

func updateItem(ctx context.Context, q sqlx.ExtContext, item *models.StudySessionItem) error {
	_, err := q.ExecContext(ctx, `
		UPDATE study_session_items
		SET status = $1, attempts_count = $2, correct_count = $3, incorrect_count = $4,
			consecutive_correct = $5, last_shown_at = $6
		WHERE id = $7
	`, item.Status, item.AttemptsCount, item.CorrectCount, item.IncorrectCount,
		item.ConsecutiveCorrect, item.LastShownAt, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update session item: %v", err)
	}
	return nil
}

// CreateAttempt appends an attempt to the session's answer log
func (r *SessionRepository) CreateAttempt(ctx context.Context, attempt *models.StudySessionAttempt) error {
	return insertAttempt(ctx, DB, attempt)
}

func insertAttempt(ctx context.Context, q sqlx.ExtContext, attempt *models.StudySessionAttempt) error {
	if q.DriverName() == "postgres" {
		return q.QueryRowxContext(ctx, `
			INSERT INTO study_session_attempts (session_item_id, was_correct, response_time_ms, attempted_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, attempt.SessionItemID, attempt.WasCorrect, attempt.ResponseTimeMs, attempt.AttemptedAt,
		).Scan(&attempt.ID)
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO study_session_attempts (session_item_id, was_correct, response_time_ms, attempted_at)
		VALUES ($1, $2, $3, $4)
	`, attempt.SessionItemID, attempt.WasCorrect, attempt.ResponseTimeMs, attempt.AttemptedAt)
	if err != nil {
		return fmt.Errorf("failed to create attempt: %v", err)
	}
	attempt.ID, err = res.LastInsertId()
	return err
}

// ApplyAnswer commits one answer as a single transaction: the attempt row,
// the item, the session counters and, when record is not nil, the mastered
// word's vocabulary record.
func (r *SessionRepository) ApplyAnswer(ctx context.Context, session *models.StudySession, item *models.StudySessionItem, attempt *models.StudySessionAttempt, record *models.VocabularyRecord) error {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if err := insertAttempt(ctx, tx, attempt); err != nil {
		return err
	}
	if err := updateItem(ctx, tx, item); err != nil {
		return err
	}
	if err := updateSession(ctx, tx, session); err != nil {
		return err
	}
	if record != nil {
		if err := saveVocabularyRecord(ctx, tx, record); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit answer: %v", err)
	}
	return nil
}

// SessionAverageResponseMs averages recorded response times across the
// session; ok is false when no attempt carried one.
func (r *SessionRepository) SessionAverageResponseMs(ctx context.Context, sessionID int64) (float64, bool, error) {
	var avg sql.NullFloat64
	err := DB.GetContext(ctx, &avg, `
		SELECT AVG(a.response_time_ms)
		FROM study_session_attempts a
		JOIN study_session_items i ON i.id = a.session_item_id
		WHERE i.session_id = $1 AND a.response_time_ms IS NOT NULL
	`, sessionID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to average response times: %v", err)
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}
