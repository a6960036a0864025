package study

import (
	"context"

	"github.com/example/vocabgym/pkg/models"
)

// SessionStore persists sessions, their items and the attempt log.
// Implementations return study errors (NotFoundf, Conflictf) for caller
// faults; in particular CreateSessionWithItems must fail with a conflict when
// the user already holds an active session, backed by a uniqueness guarantee
// so concurrent starts cannot both succeed.
type SessionStore interface {
	CreateSessionWithItems(ctx context.Context, session *models.StudySession, items []*models.StudySessionItem) error
	SessionByID(ctx context.Context, id int64) (*models.StudySession, error)
	ActiveSessionByUser(ctx context.Context, userID int64) (*models.StudySession, error)
	SessionsByUser(ctx context.Context, userID int64, limit int) ([]models.StudySession, error)
	UpdateSession(ctx context.Context, session *models.StudySession) error

	ItemsBySession(ctx context.Context, sessionID int64) ([]*models.StudySessionItem, error)

	// ApplyAnswer commits one answer as a unit: the attempt row, the updated
	// item, the updated session counters and, when the answer mastered the
	// word, its vocabulary record. Either all of them persist or none do.
	// record is nil when no mastery fired.
	ApplyAnswer(ctx context.Context, session *models.StudySession, item *models.StudySessionItem, attempt *models.StudySessionAttempt, record *models.VocabularyRecord) error

	// SessionAverageResponseMs averages response times over every attempt in
	// the session; ok is false when no attempt carried a response time.
	SessionAverageResponseMs(ctx context.Context, sessionID int64) (avg float64, ok bool, err error)
}

// VocabularyStore persists per-user per-word learning records.
type VocabularyStore interface {
	// RecordByUserAndWord returns nil without error when no record exists.
	RecordByUserAndWord(ctx context.Context, userID, wordID int64) (*models.VocabularyRecord, error)
	SaveRecord(ctx context.Context, record *models.VocabularyRecord) error
	RecordsByUser(ctx context.Context, userID int64) ([]models.VocabularyRecord, error)
	DeleteRecord(ctx context.Context, userID, wordID int64) (bool, error)
}

// WordStore resolves word details and word-set membership.
type WordStore interface {
	WordByID(ctx context.Context, id int64) (*models.Word, error)
	WordIDsBySet(ctx context.Context, wordSetID int64) ([]int64, error)
}
