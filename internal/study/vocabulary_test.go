package study

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabgym/pkg/models"
)

func TestAddWordCreatesRecordWithDefaults(t *testing.T) {
	store := newMemStore()
	store.addWord(1, "bonjour")
	svc := NewVocabularyService(store, store)
	ctx := context.Background()

	record, err := svc.AddWord(ctx, 7, 1, "greeting")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultIntervalHours, record.CurrentIntervalHours)
	assert.Equal(t, models.DefaultEaseFactor, record.EaseFactor)
	assert.Nil(t, record.NextReviewAt, "a fresh word has never been reviewed")
	assert.Equal(t, "greeting", record.Notes)

	// Adding again only updates the notes.
	record.ReviewCount = 2
	require.NoError(t, store.SaveRecord(ctx, record))
	again, err := svc.AddWord(ctx, 7, 1, "salutation")
	require.NoError(t, err)
	assert.Equal(t, 2, again.ReviewCount)
	assert.Equal(t, "salutation", again.Notes)
}

func TestAddWordUnknownWord(t *testing.T) {
	store := newMemStore()
	svc := NewVocabularyService(store, store)

	_, err := svc.AddWord(context.Background(), 7, 99, "")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRemoveWord(t *testing.T) {
	store := newMemStore()
	store.addWord(1, "chat")
	svc := NewVocabularyService(store, store)
	ctx := context.Background()

	_, err := svc.AddWord(ctx, 7, 1, "")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveWord(ctx, 7, 1))
	err = svc.RemoveWord(ctx, 7, 1)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDueServiceCounts(t *testing.T) {
	store := newMemStore()
	store.addWord(1, "un")
	store.addWord(2, "deux")
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	store.putRecord(&models.VocabularyRecord{UserID: 7, WordID: 1, CurrentIntervalHours: 20, EaseFactor: 1.0}) // never reviewed
	store.putRecord(&models.VocabularyRecord{UserID: 7, WordID: 2, NextReviewAt: &past, ReviewCount: 1, CurrentIntervalHours: 40, EaseFactor: 1.0})

	svc := NewDueService(store, store)
	svc.now = func() time.Time { return now }

	counts, err := svc.Counts(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.TotalDue)
	assert.Equal(t, 1, counts.Overdue)
}

func TestDueServiceList(t *testing.T) {
	store := newMemStore()
	store.addWord(1, "un")
	store.addWord(2, "deux")
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	store.putRecord(&models.VocabularyRecord{UserID: 7, WordID: 1, NextReviewAt: &past, ReviewCount: 2, CurrentIntervalHours: 40, EaseFactor: 1.0})
	store.putRecord(&models.VocabularyRecord{UserID: 7, WordID: 2, CurrentIntervalHours: 20, EaseFactor: 1.0})

	svc := NewDueService(store, store)
	svc.now = func() time.Time { return now }

	list, err := svc.List(context.Background(), 7, 10)
	require.NoError(t, err)
	require.Equal(t, 2, list.TotalCount)
	assert.Equal(t, int64(2), list.Words[0].WordID, "never reviewed sorts first")
	assert.Equal(t, 2, list.Words[1].DaysOverdue)
	assert.Equal(t, "2 days", list.Words[1].CurrentInterval)
}
