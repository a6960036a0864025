package study

import (
	"context"
	"time"

	"github.com/example/vocabgym/internal/srs"
	"github.com/example/vocabgym/pkg/models"
)

// VocabularyWord pairs a vocabulary record with its word for listing.
type VocabularyWord struct {
	Word            *models.Word `json:"word"`
	Notes           string       `json:"notes,omitempty"`
	ReviewCount     int          `json:"review_count"`
	CurrentInterval string       `json:"current_interval"`
	NextReviewAt    *time.Time   `json:"next_review_at,omitempty"`
	AddedAt         time.Time    `json:"added_at"`
}

// VocabularyService manages which words are in a user's study pool. Adding a
// word creates its VocabularyRecord with the scheduling defaults; the record
// is what the study engine advances on mastery.
type VocabularyService struct {
	vocab VocabularyStore
	words WordStore
}

// NewVocabularyService wires the vocabulary manager.
func NewVocabularyService(vocab VocabularyStore, words WordStore) *VocabularyService {
	return &VocabularyService{vocab: vocab, words: words}
}

// AddWord puts a word into the user's vocabulary, or updates the notes when
// it is already there.
func (v *VocabularyService) AddWord(ctx context.Context, userID, wordID int64, notes string) (*models.VocabularyRecord, error) {
	if _, err := v.words.WordByID(ctx, wordID); err != nil {
		return nil, err
	}

	record, err := v.vocab.RecordByUserAndWord(ctx, userID, wordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = models.NewVocabularyRecord(userID, wordID)
	}
	record.Notes = notes

	if err := v.vocab.SaveRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Words lists the user's vocabulary with word details.
func (v *VocabularyService) Words(ctx context.Context, userID int64) ([]VocabularyWord, error) {
	records, err := v.vocab.RecordsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]VocabularyWord, 0, len(records))
	for _, record := range records {
		word, err := v.words.WordByID(ctx, record.WordID)
		if err != nil {
			return nil, err
		}
		out = append(out, VocabularyWord{
			Word:            word,
			Notes:           record.Notes,
			ReviewCount:     record.ReviewCount,
			CurrentInterval: srs.FormatInterval(record.CurrentIntervalHours),
			NextReviewAt:    record.NextReviewAt,
			AddedAt:         record.AddedAt,
		})
	}
	return out, nil
}

// RemoveWord drops a word from the user's vocabulary.
func (v *VocabularyService) RemoveWord(ctx context.Context, userID, wordID int64) error {
	removed, err := v.vocab.DeleteRecord(ctx, userID, wordID)
	if err != nil {
		return err
	}
	if !removed {
		return NotFoundf("word %d is not in the vocabulary", wordID)
	}
	return nil
}
