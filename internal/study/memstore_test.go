package study

import (
	"context"
	"sort"
	"sync"

	"github.com/example/vocabgym/pkg/models"
)

// memStore is an in-memory implementation of the store interfaces, mirroring
// the database guarantees the service relies on (active-session uniqueness,
// nil for missing vocabulary records, reads that return copies so nothing
// changes until a write commits).
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	sessions map[int64]*models.StudySession
	items    map[int64]*models.StudySessionItem
	attempts []*models.StudySessionAttempt
	records  map[[2]int64]*models.VocabularyRecord
	words    map[int64]*models.Word
	sets     map[int64][]int64

	// applyErr, when set, makes ApplyAnswer fail without touching state.
	applyErr error
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[int64]*models.StudySession),
		items:    make(map[int64]*models.StudySessionItem),
		records:  make(map[[2]int64]*models.VocabularyRecord),
		words:    make(map[int64]*models.Word),
		sets:     make(map[int64][]int64),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addWord(id int64, lemma string) {
	m.words[id] = &models.Word{ID: id, Lemma: lemma, LanguageCode: "fr"}
}

func (m *memStore) addSet(setID int64, wordIDs ...int64) {
	m.sets[setID] = wordIDs
}

func (m *memStore) putRecord(r *models.VocabularyRecord) {
	if r.ID == 0 {
		r.ID = m.id()
	}
	m.records[[2]int64{r.UserID, r.WordID}] = r
}

func (m *memStore) CreateSessionWithItems(_ context.Context, session *models.StudySession, items []*models.StudySessionItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.UserID == session.UserID && s.Status == models.SessionActive {
			return Conflictf("user %d already has an active session", session.UserID)
		}
	}
	session.ID = m.id()
	s := *session
	m.sessions[s.ID] = &s
	for _, it := range items {
		it.ID = m.id()
		it.SessionID = session.ID
		c := *it
		m.items[c.ID] = &c
	}
	return nil
}

func (m *memStore) SessionByID(_ context.Context, id int64) (*models.StudySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (m *memStore) ActiveSessionByUser(_ context.Context, userID int64) (*models.StudySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.UserID == userID && s.Status == models.SessionActive {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memStore) SessionsByUser(_ context.Context, userID int64, limit int) ([]models.StudySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.StudySession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UpdateSession(_ context.Context, session *models.StudySession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *session
	m.sessions[s.ID] = &s
	return nil
}

func (m *memStore) ItemsBySession(_ context.Context, sessionID int64) ([]*models.StudySessionItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.StudySessionItem
	for _, it := range m.items {
		if it.SessionID == sessionID {
			c := *it
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memStore) ApplyAnswer(_ context.Context, session *models.StudySession, item *models.StudySessionItem, attempt *models.StudySessionAttempt, record *models.VocabularyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applyErr != nil {
		return m.applyErr
	}
	attempt.ID = m.id()
	a := *attempt
	m.attempts = append(m.attempts, &a)
	it := *item
	m.items[it.ID] = &it
	s := *session
	m.sessions[s.ID] = &s
	if record != nil {
		if record.ID == 0 {
			record.ID = m.id()
		}
		r := *record
		m.records[[2]int64{r.UserID, r.WordID}] = &r
	}
	return nil
}

func (m *memStore) SessionAverageResponseMs(_ context.Context, sessionID int64) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum, n int
	for _, a := range m.attempts {
		it, ok := m.items[a.SessionItemID]
		if !ok || it.SessionID != sessionID || a.ResponseTimeMs == nil {
			continue
		}
		sum += *a.ResponseTimeMs
		n++
	}
	if n == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(n), true, nil
}

func (m *memStore) RecordByUserAndWord(_ context.Context, userID, wordID int64) (*models.VocabularyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[[2]int64{userID, wordID}]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (m *memStore) SaveRecord(_ context.Context, record *models.VocabularyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.ID == 0 {
		record.ID = m.id()
	}
	c := *record
	m.records[[2]int64{c.UserID, c.WordID}] = &c
	return nil
}

func (m *memStore) RecordsByUser(_ context.Context, userID int64) ([]models.VocabularyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.VocabularyRecord
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) DeleteRecord(_ context.Context, userID, wordID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{userID, wordID}
	if _, ok := m.records[key]; !ok {
		return false, nil
	}
	delete(m.records, key)
	return true, nil
}

func (m *memStore) WordByID(_ context.Context, id int64) (*models.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.words[id]
	if !ok {
		return nil, NotFoundf("word %d not found", id)
	}
	return w, nil
}

func (m *memStore) WordIDsBySet(_ context.Context, wordSetID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets[wordSetID], nil
}
