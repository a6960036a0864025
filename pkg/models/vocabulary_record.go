package models

import "time"

// SRS scheduling defaults for a word that has just entered a user's vocabulary.
const (
	DefaultIntervalHours = 20
	// DefaultEaseFactor is the no-op multiplier; ease only moves once a
	// review cycle fails.
	DefaultEaseFactor = 1.0
)

// VocabularyRecord tracks a user's long-term learning state for a single word.
// One record exists per user and word; it is created when the word first
// enters the user's study pool and updated each time the word is mastered in
// a study session.
type VocabularyRecord struct {
	ID                   int64      `json:"id" db:"id"`
	UserID               int64      `json:"user_id" db:"user_id"`
	WordID               int64      `json:"word_id" db:"word_id"`
	ConsecutiveSuccesses int        `json:"consecutive_successes" db:"consecutive_successes"` // Mastered review cycles in a row
	CurrentIntervalHours int        `json:"current_interval_hours" db:"current_interval_hours"`
	EaseFactor           float64    `json:"ease_factor" db:"ease_factor"`       // Per-word interval multiplier, kept within [1.3, 2.5]
	NextReviewAt         *time.Time `json:"next_review_at" db:"next_review_at"` // Nil means never reviewed, which always counts as due
	LastReviewedAt       *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	ReviewCount          int        `json:"review_count" db:"review_count"`
	Notes                string     `json:"notes" db:"notes"`
	AddedAt              time.Time  `json:"added_at" db:"added_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// NewVocabularyRecord returns a record with the scheduling defaults applied.
func NewVocabularyRecord(userID, wordID int64) *VocabularyRecord {
	return &VocabularyRecord{
		UserID:               userID,
		WordID:               wordID,
		CurrentIntervalHours: DefaultIntervalHours,
		EaseFactor:           DefaultEaseFactor,
	}
}
