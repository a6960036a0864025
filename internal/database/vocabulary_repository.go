package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabgym/pkg/models"
)

// VocabularyRepository handles database operations for per-user vocabulary records
type VocabularyRepository struct{}

// NewVocabularyRepository creates a new repository instance
func NewVocabularyRepository() *VocabularyRepository {
	return &VocabularyRepository{}
}

// RecordByUserAndWord returns the record for (user, word), or nil when absent
func (r *VocabularyRepository) RecordByUserAndWord(ctx context.Context, userID, wordID int64) (*models.VocabularyRecord, error) {
	var record models.VocabularyRecord
	err := DB.GetContext(ctx, &record,
		"SELECT * FROM user_vocabulary WHERE user_id = $1 AND word_id = $2", userID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary record: %v", err)
	}
	return &record, nil
}

// SaveRecord inserts the record or updates it when (user, word) already exists
func (r *VocabularyRepository) SaveRecord(ctx context.Context, record *models.VocabularyRecord) error {
	return saveVocabularyRecord(ctx, DB, record)
}

// saveVocabularyRecord runs against either the shared connection or a
// transaction, so an answer that masters a word can persist its record in the
// same transaction as the answer itself.
func saveVocabularyRecord(ctx context.Context, q sqlx.ExtContext, record *models.VocabularyRecord) error {
	if record.AddedAt.IsZero() {
		record.AddedAt = time.Now().UTC()
	}
	record.UpdatedAt = time.Now().UTC()

	if record.ID == 0 {
		if q.DriverName() == "postgres" {
			return q.QueryRowxContext(ctx, `
				INSERT INTO user_vocabulary (user_id, word_id, consecutive_successes, current_interval_hours,
					ease_factor, next_review_at, last_reviewed_at, review_count, notes, added_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				ON CONFLICT (user_id, word_id) DO UPDATE SET
					consecutive_successes = EXCLUDED.consecutive_successes,
					current_interval_hours = EXCLUDED.current_interval_hours,
					ease_factor = EXCLUDED.ease_factor,
					next_review_at = EXCLUDED.next_review_at,
					last_reviewed_at = EXCLUDED.last_reviewed_at,
					review_count = EXCLUDED.review_count,
					notes = EXCLUDED.notes,
					updated_at = EXCLUDED.updated_at
				RETURNING id
			`, record.UserID, record.WordID, record.ConsecutiveSuccesses, record.CurrentIntervalHours,
				record.EaseFactor, record.NextReviewAt, record.LastReviewedAt, record.ReviewCount,
				record.Notes, record.AddedAt, record.UpdatedAt,
			).Scan(&record.ID)
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO user_vocabulary (user_id, word_id, consecutive_successes, current_interval_hours,
				ease_factor, next_review_at, last_reviewed_at, review_count, notes, added_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (user_id, word_id) DO UPDATE SET
				consecutive_successes = excluded.consecutive_successes,
				current_interval_hours = excluded.current_interval_hours,
				ease_factor = excluded.ease_factor,
				next_review_at = excluded.next_review_at,
				last_reviewed_at = excluded.last_reviewed_at,
				review_count = excluded.review_count,
				notes = excluded.notes,
				updated_at = excluded.updated_at
		`, record.UserID, record.WordID, record.ConsecutiveSuccesses, record.CurrentIntervalHours,
			record.EaseFactor, record.NextReviewAt, record.LastReviewedAt, record.ReviewCount,
			record.Notes, record.AddedAt, record.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to save vocabulary record: %v", err)
		}
		// LastInsertId is wrong when the upsert updated an existing row, so
		// read the id back the same way regardless of which branch ran.
		return sqlx.GetContext(ctx, q, &record.ID,
			"SELECT id FROM user_vocabulary WHERE user_id = $1 AND word_id = $2",
			record.UserID, record.WordID)
	}

	_, err := q.ExecContext(ctx, `
		UPDATE user_vocabulary
		SET consecutive_successes = $1, current_interval_hours = $2, ease_factor = $3,
			next_review_at = $4, last_reviewed_at = $5, review_count = $6, notes = $7, updated_at = $8
		WHERE id = $9
	`, record.ConsecutiveSuccesses, record.CurrentIntervalHours, record.EaseFactor,
		record.NextReviewAt, record.LastReviewedAt, record.ReviewCount, record.Notes,
		record.UpdatedAt, record.ID)
	if err != nil {
		return fmt.Errorf("failed to update vocabulary record: %v", err)
	}
	return nil
}

// RecordsByUser returns every vocabulary record for the user
func (r *VocabularyRepository) RecordsByUser(ctx context.Context, userID int64) ([]models.VocabularyRecord, error) {
	var records []models.VocabularyRecord
	err := DB.SelectContext(ctx, &records,
		"SELECT * FROM user_vocabulary WHERE user_id = $1 ORDER BY added_at", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary records: %v", err)
	}
	return records, nil
}

// UserIDs returns every user holding at least one vocabulary record
func (r *VocabularyRepository) UserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := DB.SelectContext(ctx, &ids,
		"SELECT DISTINCT user_id FROM user_vocabulary ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary users: %v", err)
	}
	return ids, nil
}

// DeleteRecord removes the record for (user, word); reports whether one existed
func (r *VocabularyRepository) DeleteRecord(ctx context.Context, userID, wordID int64) (bool, error) {
	res, err := DB.ExecContext(ctx,
		"DELETE FROM user_vocabulary WHERE user_id = $1 AND word_id = $2", userID, wordID)
	if err != nil {
		return false, fmt.Errorf("failed to delete vocabulary record: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %v", err)
	}
	return affected > 0, nil
}
