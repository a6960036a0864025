package models

import "time"

// SessionStatus is the lifecycle state of a study session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "ACTIVE"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionAbandoned SessionStatus = "ABANDONED"
)

// SessionSource describes how the session's word pool was selected.
type SessionSource string

const (
	SourceWordSet    SessionSource = "WORD_SET"
	SourceVocabulary SessionSource = "VOCABULARY"
	SourceDueReview  SessionSource = "DUE_REVIEW"
)

// StudySession represents one study sitting for a user. A user holds at most
// one ACTIVE session at a time; COMPLETED and ABANDONED are terminal.
type StudySession struct {
	ID                int64         `json:"id" db:"id"`
	UserID            int64         `json:"user_id" db:"user_id"`
	WordSetID         *int64        `json:"word_set_id" db:"word_set_id"` // Set only when Source is WORD_SET
	Source            SessionSource `json:"source" db:"source"`
	Status            SessionStatus `json:"status" db:"status"`
	SessionSize       int           `json:"session_size" db:"session_size"` // Requested pool size; 0 means all eligible words
	TotalWords        int           `json:"total_words" db:"total_words"`
	WordsCompleted    int           `json:"words_completed" db:"words_completed"`
	TotalAttempts     int           `json:"total_attempts" db:"total_attempts"`
	CorrectAttempts   int           `json:"correct_attempts" db:"correct_attempts"`
	IncorrectAttempts int           `json:"incorrect_attempts" db:"incorrect_attempts"`
	LastShownWordID   *int64        `json:"last_shown_word_id" db:"last_shown_word_id"`
	StartedAt         time.Time     `json:"started_at" db:"started_at"`
	CompletedAt       *time.Time    `json:"completed_at" db:"completed_at"`
}

// RecordAnswer updates the session-level attempt counters.
func (s *StudySession) RecordAnswer(correct bool) {
	s.TotalAttempts++
	if correct {
		s.CorrectAttempts++
	} else {
		s.IncorrectAttempts++
	}
}

// Accuracy returns the percentage of correct attempts, 0 when nothing was
// attempted.
func (s *StudySession) Accuracy() float64 {
	if s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.CorrectAttempts) / float64(s.TotalAttempts) * 100
}
