package study

import (
	"time"

	"github.com/example/vocabgym/internal/srs"
	"github.com/example/vocabgym/pkg/models"
)

// StartSessionRequest asks for a new study session.
type StartSessionRequest struct {
	Source models.SessionSource `json:"source"`
	// WordSetID is required when Source is WORD_SET.
	WordSetID *int64 `json:"word_set_id"`
	// SessionSize limits the pool; 0 means all eligible words.
	SessionSize int `json:"session_size"`
	// IncludeNewWords controls whether never-reviewed words join the pool.
	// Unset means true.
	IncludeNewWords *bool `json:"include_new_words"`
}

func (r StartSessionRequest) includeNewWords() bool {
	return r.IncludeNewWords == nil || *r.IncludeNewWords
}

func (r StartSessionRequest) validate() error {
	switch r.Source {
	case models.SourceWordSet:
		if r.WordSetID == nil {
			return Invalidf("word_set_id is required for WORD_SET source")
		}
	case models.SourceVocabulary, models.SourceDueReview:
	default:
		return Invalidf("unknown session source: %q", r.Source)
	}
	if r.SessionSize < 0 {
		return Invalidf("session_size must not be negative")
	}
	return nil
}

// SessionView is the session as presented to callers.
type SessionView struct {
	SessionID      int64                `json:"session_id"`
	Status         models.SessionStatus `json:"status"`
	Source         models.SessionSource `json:"source"`
	StartedAt      time.Time            `json:"started_at"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
	TotalWords     int                  `json:"total_words"`
	WordsCompleted int                  `json:"words_completed"`
	Progress       srs.SessionProgress  `json:"progress"`
	Stats          SessionStats         `json:"stats"`
}

// SessionStats carries the session-level attempt counters.
type SessionStats struct {
	TotalAttempts     int     `json:"total_attempts"`
	CorrectAttempts   int     `json:"correct_attempts"`
	IncorrectAttempts int     `json:"incorrect_attempts"`
	Accuracy          float64 `json:"accuracy"`
}

// NextCard is the next word to present, with display details and progress.
type NextCard struct {
	CardID   int64        `json:"card_id"`
	Word     *models.Word `json:"word"`
	Progress CardProgress `json:"progress"`
	SrsInfo  SrsInfo      `json:"srs_info"`
}

// CardProgress locates the card within the session.
type CardProgress struct {
	Position      int `json:"position"`
	Total         int `json:"total"`
	CurrentStreak int `json:"current_streak"`
	NeedsStreak   int `json:"needs_streak"`
}

// SrsInfo summarizes the word's long-term schedule for display.
type SrsInfo struct {
	ReviewCount     int        `json:"review_count"`
	CurrentInterval string     `json:"current_interval"`
	NextReview      *time.Time `json:"next_review,omitempty"`
}

// AnswerRequest submits one answer for a card.
type AnswerRequest struct {
	CardID         int64 `json:"card_id"`
	Correct        bool  `json:"correct"`
	ResponseTimeMs *int  `json:"response_time_ms"`
}

// AnswerResult reports the effect of an answer.
type AnswerResult struct {
	ItemCompleted      bool   `json:"item_completed"`
	SessionCompleted   bool   `json:"session_completed"`
	ConsecutiveCorrect int    `json:"consecutive_correct"`
	Message            string `json:"message"`
}

// SessionSummary is returned when a session completes.
type SessionSummary struct {
	SessionID   int64            `json:"session_id"`
	CompletedAt time.Time        `json:"completed_at"`
	Duration    string           `json:"duration"`
	Stats       SummaryStats     `json:"stats"`
	SrsUpdates  SrsUpdateSummary `json:"srs_updates"`
}

// SummaryStats aggregates the finished session.
type SummaryStats struct {
	TotalWords          int     `json:"total_words"`
	NewWords            int     `json:"new_words"`
	ReviewWords         int     `json:"review_words"`
	TotalAttempts       int     `json:"total_attempts"`
	CorrectAttempts     int     `json:"correct_attempts"`
	IncorrectAttempts   int     `json:"incorrect_attempts"`
	Accuracy            float64 `json:"accuracy"`
	AverageResponseTime string  `json:"average_response_time,omitempty"`
}

// SrsUpdateSummary breaks down scheduling changes made by the session.
type SrsUpdateSummary struct {
	WordsAdvanced int `json:"words_advanced"`
	WordsReset    int `json:"words_reset"`
	NextDueCount  int `json:"next_due_count"`
}

// SessionHistory lists a user's past sessions.
type SessionHistory struct {
	Sessions          []SessionHistoryItem `json:"sessions"`
	TotalSessions     int                  `json:"total_sessions"`
	TotalWordsStudied int                  `json:"total_words_studied"`
}

// SessionHistoryItem is one row of the history listing.
type SessionHistoryItem struct {
	SessionID      int64                `json:"session_id"`
	StartedAt      time.Time            `json:"started_at"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
	Status         models.SessionStatus `json:"status"`
	Source         models.SessionSource `json:"source"`
	TotalWords     int                  `json:"total_words"`
	WordsCompleted int                  `json:"words_completed"`
	Accuracy       float64              `json:"accuracy"`
}

// DueWord is one entry of the due-word list view.
type DueWord struct {
	WordID          int64      `json:"word_id"`
	Lemma           string     `json:"lemma"`
	PartOfSpeech    string     `json:"part_of_speech"`
	LanguageCode    string     `json:"language_code"`
	NextReviewAt    *time.Time `json:"next_review_at,omitempty"`
	DaysOverdue     int        `json:"days_overdue"`
	ReviewCount     int        `json:"review_count"`
	CurrentInterval string     `json:"current_interval"`
}

// DueWordList is the bounded due-word list view.
type DueWordList struct {
	Words      []DueWord `json:"words"`
	TotalCount int       `json:"total_count"`
}
