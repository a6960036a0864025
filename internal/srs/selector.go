package srs

import (
	"math/rand"
	"sync"

	"github.com/example/vocabgym/pkg/models"
)

// Priority scoring weights. Lower score means higher priority.
const (
	// BaseScoreNew keeps untouched words behind words already in progress.
	BaseScoreNew = 50
	// BaseScoreLearning is the base for words with at least one attempt.
	BaseScoreLearning = 0
	// AttemptsWeight pulls struggling words forward with every attempt.
	AttemptsWeight = -10
	// StreakWeight pushes back words with a live correct streak so the
	// confirming repeat does not come immediately.
	StreakWeight = 20
	// SimilarityBand is the score tolerance within which candidates are
	// treated as equivalent and picked at random.
	SimilarityBand = 30
)

// Selector chooses the next card to present within a session. Selection is a
// graded random choice: candidates are scored deterministically, everything
// within the similarity band of the best score forms a pool, and one entry is
// drawn uniformly from the pool. The randomness breaks up alternating
// two-word patterns that a strict argmin would produce.
//
// One Selector is shared across all sessions; mu guards the random source,
// which is not safe for concurrent use on its own.
type Selector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSelector creates a selector drawing from the given random source.
func NewSelector(rnd *rand.Rand) *Selector {
	return &Selector{rnd: rnd}
}

// SelectNext returns the next item to show, or nil when every item is
// completed. The previously shown word is excluded from the candidate pool
// unless it is the only incomplete item left.
func (s *Selector) SelectNext(items []*models.StudySessionItem, lastShownWordID *int64) *models.StudySessionItem {
	var incomplete []*models.StudySessionItem
	for _, it := range items {
		if !it.IsCompleted() {
			incomplete = append(incomplete, it)
		}
	}

	if len(incomplete) == 0 {
		return nil
	}
	if len(incomplete) == 1 {
		// No alternative exists, even if this word was just shown.
		return incomplete[0]
	}

	best := priorityScore(incomplete[0])
	for _, it := range incomplete[1:] {
		if score := priorityScore(it); score < best {
			best = score
		}
	}

	var pool []*models.StudySessionItem
	for _, it := range incomplete {
		if priorityScore(it) <= best+SimilarityBand {
			pool = append(pool, it)
		}
	}

	if lastShownWordID != nil {
		var withoutLast []*models.StudySessionItem
		for _, it := range pool {
			if it.WordID != *lastShownWordID {
				withoutLast = append(withoutLast, it)
			}
		}
		if len(withoutLast) > 0 {
			pool = withoutLast
		}
	}

	s.mu.Lock()
	idx := s.rnd.Intn(len(pool))
	s.mu.Unlock()
	return pool[idx]
}

// priorityScore ranks an item for selection; lower is sooner.
func priorityScore(it *models.StudySessionItem) int {
	base := BaseScoreLearning
	if it.Status == models.ItemNew {
		base = BaseScoreNew
	}
	return base + it.AttemptsCount*AttemptsWeight + it.ConsecutiveCorrect*StreakWeight
}

// SessionProgress counts the session's items by status.
type SessionProgress struct {
	New       int `json:"new"`
	Learning  int `json:"learning"`
	Completed int `json:"completed"`
}

// Progress tallies items by status.
func Progress(items []*models.StudySessionItem) SessionProgress {
	var p SessionProgress
	for _, it := range items {
		switch it.Status {
		case models.ItemNew:
			p.New++
		case models.ItemLearning:
			p.Learning++
		case models.ItemCompleted:
			p.Completed++
		}
	}
	return p
}

// IsSessionComplete reports whether every item in the session is completed.
func IsSessionComplete(items []*models.StudySessionItem) bool {
	for _, it := range items {
		if !it.IsCompleted() {
			return false
		}
	}
	return true
}
