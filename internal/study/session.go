package study

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/example/vocabgym/internal/srs"
	"github.com/example/vocabgym/pkg/models"
)

// Service drives the study session lifecycle: it owns the state machine
// around sessions and their items, delegates next-card choice to the selector
// and applies the interval model when a word is mastered.
type Service struct {
	sessions SessionStore
	vocab    VocabularyStore
	words    WordStore
	selector *srs.Selector
	pool     PoolBuilder

	now func() time.Time

	// mu guards locks; each session gets its own mutex so concurrent answer
	// submissions for the same session cannot race on item counters.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewService wires the session service.
func NewService(sessions SessionStore, vocab VocabularyStore, words WordStore, selector *srs.Selector, pool PoolBuilder) *Service {
	return &Service{
		sessions: sessions,
		vocab:    vocab,
		words:    words,
		selector: selector,
		pool:     pool,
		now:      time.Now,
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (s *Service) lockSession(id int64) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// releaseSession drops the session's mutex once the session reaches a
// terminal state, so the map does not grow with every session ever played.
// A caller still blocked on the old mutex re-reads the session and hits the
// not-active conflict.
func (s *Service) releaseSession(id int64) {
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
}

// Start opens a new session for the user. It fails with a conflict when the
// user already holds an active session; the store's uniqueness guarantee
// backs the check so two concurrent starts cannot both win.
func (s *Service) Start(ctx context.Context, userID int64, req StartSessionRequest) (*SessionView, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	existing, err := s.sessions.ActiveSessionByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "check active session")
	}
	if existing != nil {
		return nil, Conflictf("user %d already has an active session (id %d)", userID, existing.ID)
	}

	wordIDs, err := s.pool.BuildPool(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if len(wordIDs) == 0 {
		return nil, Invalidf("no words available for study from the selected source")
	}

	session := &models.StudySession{
		UserID:      userID,
		Source:      req.Source,
		Status:      models.SessionActive,
		SessionSize: req.SessionSize,
		TotalWords:  len(wordIDs),
		StartedAt:   s.now(),
	}
	if req.Source == models.SourceWordSet {
		session.WordSetID = req.WordSetID
	}

	items := make([]*models.StudySessionItem, len(wordIDs))
	for i, wordID := range wordIDs {
		items[i] = &models.StudySessionItem{
			WordID:       wordID,
			Status:       models.ItemNew,
			DisplayOrder: i,
		}
	}

	if err := s.sessions.CreateSessionWithItems(ctx, session, items); err != nil {
		return nil, err
	}
	return s.sessionView(session, items), nil
}

// ActiveSession returns the user's active session, or nil when there is none.
func (s *Service) ActiveSession(ctx context.Context, userID int64) (*SessionView, error) {
	session, err := s.sessions.ActiveSessionByUser(ctx, userID)
	if err != nil || session == nil {
		return nil, err
	}
	items, err := s.sessions.ItemsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return s.sessionView(session, items), nil
}

// Session returns a session by id, scoped to its owner.
func (s *Service) Session(ctx context.Context, sessionID, userID int64) (*SessionView, error) {
	session, err := s.sessionForUser(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.sessions.ItemsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return s.sessionView(session, items), nil
}

// NextCard picks the next word to present, or returns nil when every item is
// completed. The served word is remembered so the selector can avoid an
// immediate repeat on the next call.
func (s *Service) NextCard(ctx context.Context, sessionID, userID int64) (*NextCard, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.sessionForUser(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, Conflictf("session %d is not active", sessionID)
	}

	items, err := s.sessions.ItemsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	item := s.selector.SelectNext(items, session.LastShownWordID)
	if item == nil {
		return nil, nil
	}

	wordID := item.WordID
	session.LastShownWordID = &wordID
	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		return nil, errors.Wrap(err, "update last shown word")
	}

	word, err := s.words.WordByID(ctx, item.WordID)
	if err != nil {
		return nil, err
	}

	info := SrsInfo{CurrentInterval: srs.FormatInterval(models.DefaultIntervalHours)}
	record, err := s.vocab.RecordByUserAndWord(ctx, userID, item.WordID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		info = SrsInfo{
			ReviewCount:     record.ReviewCount,
			CurrentInterval: srs.FormatInterval(record.CurrentIntervalHours),
			NextReview:      record.NextReviewAt,
		}
	}

	return &NextCard{
		CardID: item.ID,
		Word:   word,
		Progress: CardProgress{
			Position:      session.WordsCompleted + 1,
			Total:         session.TotalWords,
			CurrentStreak: item.ConsecutiveCorrect,
			NeedsStreak:   models.RequiredConsecutiveCorrect,
		},
		SrsInfo: info,
	}, nil
}

// SubmitAnswer applies one answer: the attempt is logged, item and session
// counters move, and a word reaching its streak is mastered on the spot,
// which reschedules its long-term review.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, userID int64, req AnswerRequest) (*AnswerResult, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.sessionForUser(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, Conflictf("session %d is not active", sessionID)
	}

	items, err := s.sessions.ItemsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	var item *models.StudySessionItem
	for _, it := range items {
		if it.ID == req.CardID {
			item = it
			break
		}
	}
	if item == nil {
		return nil, NotFoundf("card %d not found in session %d", req.CardID, sessionID)
	}

	now := s.now()
	attempt := &models.StudySessionAttempt{
		SessionItemID:  item.ID,
		WasCorrect:     req.Correct,
		ResponseTimeMs: req.ResponseTimeMs,
		AttemptedAt:    now,
	}

	justCompleted := item.RecordAnswer(req.Correct)
	item.LastShownAt = &now
	session.RecordAnswer(req.Correct)
	if justCompleted {
		session.WordsCompleted++
	}

	var record *models.VocabularyRecord
	if justCompleted {
		// Mastery fires exactly once per item, the moment the streak lands.
		// Reaching the streak counts as a successful review cycle no matter
		// how many misses came before it in this session.
		record, err = s.masteryRecord(ctx, userID, item.WordID, now)
		if err != nil {
			return nil, err
		}
	}

	if err := s.sessions.ApplyAnswer(ctx, session, item, attempt, record); err != nil {
		return nil, errors.Wrap(err, "apply answer")
	}

	message := "Keep practicing!"
	switch {
	case justCompleted:
		message = "Great! You've mastered this word."
	case req.Correct:
		message = fmt.Sprintf("Correct! %d more to master it.",
			models.RequiredConsecutiveCorrect-item.ConsecutiveCorrect)
	}

	return &AnswerResult{
		ItemCompleted:      justCompleted,
		SessionCompleted:   srs.IsSessionComplete(items),
		ConsecutiveCorrect: item.ConsecutiveCorrect,
		Message:            message,
	}, nil
}

// masteryRecord computes the word's long-term record moved one successful
// review cycle forward. The interval is only ever computed here, with what
// the interval model returns; the caller persists the record atomically with
// the answer that earned it.
func (s *Service) masteryRecord(ctx context.Context, userID, wordID int64, now time.Time) (*models.VocabularyRecord, error) {
	record, err := s.vocab.RecordByUserAndWord(ctx, userID, wordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = models.NewVocabularyRecord(userID, wordID)
	}

	record.ConsecutiveSuccesses++
	record.CurrentIntervalHours = srs.NextInterval(
		record.ConsecutiveSuccesses, true, record.CurrentIntervalHours, record.EaseFactor)
	next := srs.NextReviewDate(record.CurrentIntervalHours, now)
	record.NextReviewAt = &next
	record.LastReviewedAt = &now
	record.ReviewCount++

	return record, nil
}

// Complete finishes an active session and returns its summary. Completing a
// session that is not active is a conflict, not a no-op.
func (s *Service) Complete(ctx context.Context, sessionID, userID int64) (*SessionSummary, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.sessionForUser(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, Conflictf("session %d is already %s", sessionID, session.Status)
	}

	now := s.now()
	session.Status = models.SessionCompleted
	session.CompletedAt = &now
	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		return nil, errors.Wrap(err, "complete session")
	}
	s.releaseSession(sessionID)

	return s.summarize(ctx, session)
}

// Abandon drops an active session without mastery side-effects, freeing the
// user to start a new one immediately.
func (s *Service) Abandon(ctx context.Context, sessionID, userID int64) error {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.sessionForUser(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if session.Status != models.SessionActive {
		return Conflictf("session %d is not active", sessionID)
	}

	now := s.now()
	session.Status = models.SessionAbandoned
	session.CompletedAt = &now
	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		return errors.Wrap(err, "abandon session")
	}
	s.releaseSession(sessionID)
	return nil
}

// History lists the user's sessions, newest first.
func (s *Service) History(ctx context.Context, userID int64, limit int) (*SessionHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	sessions, err := s.sessions.SessionsByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	history := &SessionHistory{Sessions: make([]SessionHistoryItem, 0, len(sessions))}
	for _, sess := range sessions {
		history.Sessions = append(history.Sessions, SessionHistoryItem{
			SessionID:      sess.ID,
			StartedAt:      sess.StartedAt,
			CompletedAt:    sess.CompletedAt,
			Status:         sess.Status,
			Source:         sess.Source,
			TotalWords:     sess.TotalWords,
			WordsCompleted: sess.WordsCompleted,
			Accuracy:       sess.Accuracy(),
		})
		if sess.Status == models.SessionCompleted {
			history.TotalWordsStudied += sess.WordsCompleted
		}
	}
	history.TotalSessions = len(history.Sessions)
	return history, nil
}

func (s *Service) sessionForUser(ctx context.Context, sessionID, userID int64) (*models.StudySession, error) {
	session, err := s.sessions.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, NotFoundf("session %d not found", sessionID)
	}
	return session, nil
}

func (s *Service) sessionView(session *models.StudySession, items []*models.StudySessionItem) *SessionView {
	return &SessionView{
		SessionID:      session.ID,
		Status:         session.Status,
		Source:         session.Source,
		StartedAt:      session.StartedAt,
		CompletedAt:    session.CompletedAt,
		TotalWords:     session.TotalWords,
		WordsCompleted: session.WordsCompleted,
		Progress:       srs.Progress(items),
		Stats: SessionStats{
			TotalAttempts:     session.TotalAttempts,
			CorrectAttempts:   session.CorrectAttempts,
			IncorrectAttempts: session.IncorrectAttempts,
			Accuracy:          session.Accuracy(),
		},
	}
}

func (s *Service) summarize(ctx context.Context, session *models.StudySession) (*SessionSummary, error) {
	items, err := s.sessions.ItemsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	var advanced, reset, newWords int
	for _, it := range items {
		if it.IsCompleted() {
			// A completed item always ended on the required streak, so it can
			// only count as advanced; the reset bucket exists for the summary
			// shape and stays empty under the current completion rule.
			if it.ConsecutiveCorrect >= models.RequiredConsecutiveCorrect {
				advanced++
			} else {
				reset++
			}
		}

		record, err := s.vocab.RecordByUserAndWord(ctx, session.UserID, it.WordID)
		if err != nil {
			return nil, err
		}
		if record == nil || record.ReviewCount <= 1 {
			newWords++
		}
	}

	avgMs, ok, err := s.sessions.SessionAverageResponseMs(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	avgResponse := ""
	if ok {
		avgResponse = fmt.Sprintf("%.1f seconds", avgMs/1000)
	}

	records, err := s.vocab.RecordsByUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	completedAt := now
	if session.CompletedAt != nil {
		completedAt = *session.CompletedAt
	}

	return &SessionSummary{
		SessionID:   session.ID,
		CompletedAt: completedAt,
		Duration:    fmt.Sprintf("%d minutes", int(completedAt.Sub(session.StartedAt).Minutes())),
		Stats: SummaryStats{
			TotalWords:          session.TotalWords,
			NewWords:            newWords,
			ReviewWords:         len(items) - newWords,
			TotalAttempts:       session.TotalAttempts,
			CorrectAttempts:     session.CorrectAttempts,
			IncorrectAttempts:   session.IncorrectAttempts,
			Accuracy:            session.Accuracy(),
			AverageResponseTime: avgResponse,
		},
		SrsUpdates: SrsUpdateSummary{
			WordsAdvanced: advanced,
			WordsReset:    reset,
			NextDueCount:  srs.CountDue(records, now).TotalDue,
		},
	}, nil
}
