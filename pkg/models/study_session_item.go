package models

import "time"

// ItemStatus is the per-word state within a session.
type ItemStatus string

const (
	ItemNew       ItemStatus = "NEW"
	ItemLearning  ItemStatus = "LEARNING"
	ItemCompleted ItemStatus = "COMPLETED"
)

// RequiredConsecutiveCorrect is the in-session streak that masters a word.
const RequiredConsecutiveCorrect = 2

// StudySessionItem is one word drawn into a study session. Items are created
// at session start and kept for the session summary; they are never deleted.
type StudySessionItem struct {
	ID                 int64      `json:"id" db:"id"`
	SessionID          int64      `json:"session_id" db:"session_id"`
	WordID             int64      `json:"word_id" db:"word_id"`
	Status             ItemStatus `json:"status" db:"status"`
	AttemptsCount      int        `json:"attempts_count" db:"attempts_count"`
	CorrectCount       int        `json:"correct_count" db:"correct_count"`
	IncorrectCount     int        `json:"incorrect_count" db:"incorrect_count"`
	ConsecutiveCorrect int        `json:"consecutive_correct" db:"consecutive_correct"` // Resets to 0 on any incorrect answer
	DisplayOrder       int        `json:"display_order" db:"display_order"`
	LastShownAt        *time.Time `json:"last_shown_at" db:"last_shown_at"`
}

// RecordAnswer applies one answer to the item's counters and status, and
// reports whether the item just reached COMPLETED. COMPLETED is terminal: a
// later answer never reverts it and never re-triggers completion.
func (it *StudySessionItem) RecordAnswer(correct bool) bool {
	it.AttemptsCount++

	if !correct {
		it.IncorrectCount++
		it.ConsecutiveCorrect = 0
		if it.Status == ItemNew {
			it.Status = ItemLearning
		}
		return false
	}

	it.CorrectCount++
	it.ConsecutiveCorrect++

	if it.Status == ItemCompleted {
		return false
	}
	if it.ConsecutiveCorrect >= RequiredConsecutiveCorrect {
		it.Status = ItemCompleted
		return true
	}
	if it.Status == ItemNew {
		it.Status = ItemLearning
	}
	return false
}

// IsCompleted reports whether the word has been mastered in this session.
func (it *StudySessionItem) IsCompleted() bool {
	return it.Status == ItemCompleted
}
