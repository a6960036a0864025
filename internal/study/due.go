package study

import (
	"context"
	"time"

	"github.com/example/vocabgym/internal/srs"
)

// DueService answers the read-only due-word queries over a user's vocabulary
// records. It is independent of any session state.
type DueService struct {
	vocab VocabularyStore
	words WordStore
	now   func() time.Time
}

// NewDueService wires the due-word query.
func NewDueService(vocab VocabularyStore, words WordStore) *DueService {
	return &DueService{vocab: vocab, words: words, now: time.Now}
}

// Counts returns the due/overdue breakdown for a user.
func (d *DueService) Counts(ctx context.Context, userID int64) (srs.DueCounts, error) {
	records, err := d.vocab.RecordsByUser(ctx, userID)
	if err != nil {
		return srs.DueCounts{}, err
	}
	return srs.CountDue(records, d.now()), nil
}

// List returns up to limit due words, most overdue first, annotated for
// display. A limit of 0 or less falls back to the default of 50.
func (d *DueService) List(ctx context.Context, userID int64, limit int) (*DueWordList, error) {
	if limit <= 0 {
		limit = 50
	}

	records, err := d.vocab.RecordsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	due := srs.DueList(records, d.now(), limit)
	list := &DueWordList{Words: make([]DueWord, 0, len(due)), TotalCount: len(due)}
	for _, entry := range due {
		word, err := d.words.WordByID(ctx, entry.Record.WordID)
		if err != nil {
			return nil, err
		}
		list.Words = append(list.Words, DueWord{
			WordID:          word.ID,
			Lemma:           word.Lemma,
			PartOfSpeech:    word.PartOfSpeech,
			LanguageCode:    word.LanguageCode,
			NextReviewAt:    entry.Record.NextReviewAt,
			DaysOverdue:     entry.DaysOverdue,
			ReviewCount:     entry.Record.ReviewCount,
			CurrentInterval: srs.FormatInterval(entry.Record.CurrentIntervalHours),
		})
	}
	return list, nil
}
