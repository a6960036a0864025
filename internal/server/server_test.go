package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabgym/internal/database"
	"github.com/example/vocabgym/internal/excel"
	"github.com/example/vocabgym/internal/srs"
	"github.com/example/vocabgym/internal/study"
	"github.com/example/vocabgym/pkg/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DATA_DIR", t.TempDir())
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })

	sessionRepo := database.NewSessionRepository()
	vocabRepo := database.NewVocabularyRepository()
	wordRepo := database.NewWordRepository()

	selector := srs.NewSelector(rand.New(rand.NewSource(1)))
	pool := study.NewPool(vocabRepo, wordRepo)
	studySvc := study.NewService(sessionRepo, vocabRepo, wordRepo, selector, pool)
	dueSvc := study.NewDueService(vocabRepo, wordRepo)
	vocabSvc := study.NewVocabularyService(vocabRepo, wordRepo)

	return New(studySvc, dueSvc, vocabSvc, wordRepo, excel.NewImporter(wordRepo))
}

func (s *Server) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func seedWordSet(t *testing.T, srv *Server, lemmas ...string) int64 {
	t.Helper()
	rec := srv.do(t, http.MethodPost, "/api/word-sets", map[string]string{
		"name":          "Test Set",
		"language_code": "en",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var set models.WordSet
	decode(t, rec, &set)

	wordRepo := database.NewWordRepository()
	for i, lemma := range lemmas {
		word := &models.Word{Lemma: lemma, LanguageCode: "en", Translation: lemma + "-t"}
		require.NoError(t, wordRepo.UpsertWord(context.Background(), word))
		require.NoError(t, wordRepo.AddWordToSet(context.Background(), set.ID, word.ID, i))
	}
	return set.ID
}

func TestStudySessionFlow(t *testing.T) {
	srv := newTestServer(t)
	setID := seedWordSet(t, srv, "alpha", "beta")

	rec := srv.do(t, http.MethodPost, "/api/study/sessions?user_id=1", map[string]interface{}{
		"source":      "WORD_SET",
		"word_set_id": setID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view study.SessionView
	decode(t, rec, &view)
	assert.Equal(t, 2, view.TotalWords)
	assert.Equal(t, models.SessionActive, view.Status)

	// Second start while one is active must conflict
	rec = srv.do(t, http.MethodPost, "/api/study/sessions?user_id=1", map[string]interface{}{
		"source":      "WORD_SET",
		"word_set_id": setID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Drive the session to completion with correct answers
	sessionPath := fmt.Sprintf("/api/study/sessions/%d", view.SessionID)
	var done bool
	for i := 0; i < 20 && !done; i++ {
		rec = srv.do(t, http.MethodGet, sessionPath+"/next?user_id=1", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var card study.NextCard
		decode(t, rec, &card)
		require.NotNil(t, card.Word)

		rec = srv.do(t, http.MethodPost, sessionPath+"/answers?user_id=1", map[string]interface{}{
			"card_id": card.CardID,
			"correct": true,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var result study.AnswerResult
		decode(t, rec, &result)
		done = result.SessionCompleted
	}
	require.True(t, done)

	// No more cards once every word is mastered
	rec = srv.do(t, http.MethodGet, sessionPath+"/next?user_id=1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodPost, sessionPath+"/complete?user_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var summary study.SessionSummary
	decode(t, rec, &summary)
	assert.Equal(t, 2, summary.Stats.TotalWords)
	assert.Equal(t, 2, summary.SrsUpdates.WordsAdvanced)

	// Completing twice is a conflict
	rec = srv.do(t, http.MethodPost, sessionPath+"/complete?user_id=1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Both words now carry a future review date
	rec = srv.do(t, http.MethodGet, "/api/study/due?user_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var counts srs.DueCounts
	decode(t, rec, &counts)
	assert.Equal(t, 0, counts.TotalDue)

	rec = srv.do(t, http.MethodGet, "/api/study/sessions/history?user_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history study.SessionHistory
	decode(t, rec, &history)
	assert.Equal(t, 1, history.TotalSessions)
	assert.Equal(t, 2, history.TotalWordsStudied)
}

func TestSessionOwnershipAndValidation(t *testing.T) {
	srv := newTestServer(t)
	setID := seedWordSet(t, srv, "gamma")

	rec := srv.do(t, http.MethodPost, "/api/study/sessions?user_id=1", map[string]interface{}{
		"source":      "WORD_SET",
		"word_set_id": setID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var view study.SessionView
	decode(t, rec, &view)

	// Another user cannot see the session
	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/api/study/sessions/%d?user_id=2", view.SessionID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Missing user is a bad request
	rec = srv.do(t, http.MethodGet, "/api/study/sessions/active", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown source is a bad request
	rec = srv.do(t, http.MethodPost, "/api/study/sessions?user_id=2", map[string]interface{}{
		"source": "GUESSWORK",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Abandoning frees the user for a new session
	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/study/sessions/%d/abandon?user_id=1", view.SessionID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/study/sessions/active?user_id=1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestVocabularyEndpoints(t *testing.T) {
	srv := newTestServer(t)

	wordRepo := database.NewWordRepository()
	word := &models.Word{Lemma: "delta", LanguageCode: "en", Translation: "delta-t"}
	require.NoError(t, wordRepo.UpsertWord(context.Background(), word))

	rec := srv.do(t, http.MethodPost, "/api/vocabulary?user_id=5", map[string]interface{}{
		"word_id": word.ID,
		"notes":   "tricky one",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var record models.VocabularyRecord
	decode(t, rec, &record)
	assert.Equal(t, models.DefaultIntervalHours, record.CurrentIntervalHours)
	assert.Equal(t, "tricky one", record.Notes)

	// Unknown words cannot be added
	rec = srv.do(t, http.MethodPost, "/api/vocabulary?user_id=5", map[string]interface{}{
		"word_id": 9999,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/vocabulary?user_id=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var words []study.VocabularyWord
	decode(t, rec, &words)
	require.Len(t, words, 1)

	rec = srv.do(t, http.MethodDelete, fmt.Sprintf("/api/vocabulary/%d?user_id=5", word.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodDelete, fmt.Sprintf("/api/vocabulary/%d?user_id=5", word.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
