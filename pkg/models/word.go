package models

import "time"

// Word is a dictionary entry resolved for card display. The study engine only
// schedules word IDs; these fields are presentational.
type Word struct {
	ID           int64     `json:"id" db:"id"`
	Lemma        string    `json:"lemma" db:"lemma"`
	PartOfSpeech string    `json:"part_of_speech" db:"part_of_speech"`
	LanguageCode string    `json:"language_code" db:"language_code"`
	Translation  string    `json:"translation" db:"translation"`
	Example      string    `json:"example" db:"example"` // Optional example sentence
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
