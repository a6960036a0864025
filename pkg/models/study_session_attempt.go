package models

import "time"

// StudySessionAttempt is one answer submission for a session item. Attempts
// form an append-only log used for summary statistics; they are never mutated.
type StudySessionAttempt struct {
	ID             int64     `json:"id" db:"id"`
	SessionItemID  int64     `json:"session_item_id" db:"session_item_id"`
	WasCorrect     bool      `json:"was_correct" db:"was_correct"`
	ResponseTimeMs *int      `json:"response_time_ms" db:"response_time_ms"`
	AttemptedAt    time.Time `json:"attempted_at" db:"attempted_at"`
}
