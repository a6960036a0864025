package models

import "time"

// WordSet is a named word list used to seed WORD_SET study sessions.
type WordSet struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	LanguageCode string    `json:"language_code" db:"language_code"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// WordSetItem is a word's membership in a word set.
type WordSetItem struct {
	ID        int64 `json:"id" db:"id"`
	WordSetID int64 `json:"word_set_id" db:"word_set_id"`
	WordID    int64 `json:"word_id" db:"word_id"`
	Position  int   `json:"position" db:"position"`
}
