package study

import (
	"context"
	"sort"
	"time"

	"github.com/example/vocabgym/internal/srs"
	"github.com/example/vocabgym/pkg/models"
)

// PoolBuilder selects the ordered list of word ids that seeds a session.
type PoolBuilder interface {
	BuildPool(ctx context.Context, userID int64, req StartSessionRequest) ([]int64, error)
}

// Pool builds session pools from the persisted word sets and vocabulary.
type Pool struct {
	vocab VocabularyStore
	words WordStore
	now   func() time.Time
}

// NewPool wires a pool builder over the stores.
func NewPool(vocab VocabularyStore, words WordStore) *Pool {
	return &Pool{vocab: vocab, words: words, now: time.Now}
}

// BuildPool resolves the request's source into word ids. A session size of 0
// means all eligible words.
func (p *Pool) BuildPool(ctx context.Context, userID int64, req StartSessionRequest) ([]int64, error) {
	var wordIDs []int64

	switch req.Source {
	case models.SourceWordSet:
		ids, err := p.words.WordIDsBySet(ctx, *req.WordSetID)
		if err != nil {
			return nil, err
		}
		wordIDs, err = p.orderByDue(ctx, userID, ids, req.includeNewWords())
		if err != nil {
			return nil, err
		}

	case models.SourceVocabulary:
		records, err := p.vocab.RecordsByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.WordID)
		}
		wordIDs, err = p.orderByDue(ctx, userID, ids, req.includeNewWords())
		if err != nil {
			return nil, err
		}

	case models.SourceDueReview:
		records, err := p.vocab.RecordsByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, due := range srs.DueList(records, p.now(), 0) {
			wordIDs = append(wordIDs, due.Record.WordID)
		}
	}

	if req.SessionSize > 0 && len(wordIDs) > req.SessionSize {
		wordIDs = wordIDs[:req.SessionSize]
	}
	return wordIDs, nil
}

// orderByDue sorts word ids most-urgent-first: never-reviewed words lead,
// then ascending next review time. Never-reviewed words drop out entirely
// when new words are excluded.
func (p *Pool) orderByDue(ctx context.Context, userID int64, wordIDs []int64, includeNew bool) ([]int64, error) {
	type entry struct {
		wordID int64
		next   *time.Time
	}

	entries := make([]entry, 0, len(wordIDs))
	for _, wordID := range wordIDs {
		record, err := p.vocab.RecordByUserAndWord(ctx, userID, wordID)
		if err != nil {
			return nil, err
		}
		if record == nil || record.ReviewCount == 0 {
			if includeNew {
				entries = append(entries, entry{wordID: wordID})
			}
			continue
		}
		entries = append(entries, entry{wordID: wordID, next: record.NextReviewAt})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].next, entries[j].next
		if a == nil {
			return b != nil
		}
		if b == nil {
			return false
		}
		return a.Before(*b)
	})

	ordered := make([]int64, len(entries))
	for i, e := range entries {
		ordered[i] = e.wordID
	}
	return ordered, nil
}
