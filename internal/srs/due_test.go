package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabgym/pkg/models"
)

func record(wordID int64, nextReviewAt *time.Time) models.VocabularyRecord {
	return models.VocabularyRecord{
		WordID:               wordID,
		CurrentIntervalHours: models.DefaultIntervalHours,
		EaseFactor:           models.DefaultEaseFactor,
		NextReviewAt:         nextReviewAt,
	}
}

func ts(t time.Time) *time.Time { return &t }

func TestCountDue(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []models.VocabularyRecord{
		record(1, nil),                        // never reviewed: due
		record(2, ts(now.Add(-24*time.Hour))), // overdue
		record(3, ts(now.Add(48*time.Hour))),  // due in two days
	}

	c := CountDue(records, now)
	assert.Equal(t, 2, c.TotalDue)
	assert.Equal(t, 1, c.Overdue)
	assert.Equal(t, 0, c.DueToday)
	assert.Equal(t, 1, c.DueSoon)
}

func TestCountDueWindowsOverlap(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []models.VocabularyRecord{
		record(1, ts(now.Add(6*time.Hour))),  // today and soon
		record(2, ts(now.Add(48*time.Hour))), // soon only
		record(3, ts(now.Add(96*time.Hour))), // neither
	}

	c := CountDue(records, now)
	assert.Equal(t, 0, c.TotalDue)
	assert.Equal(t, 1, c.DueToday)
	assert.Equal(t, 2, c.DueSoon, "due-soon includes the due-today window")
}

func TestDueListSortsMostOverdueFirst(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []models.VocabularyRecord{
		record(1, ts(now.Add(-2*time.Hour))),
		record(2, nil),
		record(3, ts(now.Add(-72*time.Hour))),
		record(4, ts(now.Add(time.Hour))), // not due, excluded
	}

	due := DueList(records, now, 0)
	require.Len(t, due, 3)
	assert.Equal(t, int64(2), due[0].Record.WordID, "never reviewed sorts as maximally overdue")
	assert.Equal(t, int64(3), due[1].Record.WordID)
	assert.Equal(t, int64(1), due[2].Record.WordID)
}

func TestDueListDaysOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []models.VocabularyRecord{
		record(1, ts(now.Add(-49*time.Hour))),
		record(2, nil),
	}

	due := DueList(records, now, 0)
	require.Len(t, due, 2)
	assert.Equal(t, 0, due[0].DaysOverdue, "never reviewed has no schedule to be late against")
	assert.Equal(t, 2, due[1].DaysOverdue)
}

func TestDueListRespectsLimit(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	var records []models.VocabularyRecord
	for i := int64(1); i <= 10; i++ {
		records = append(records, record(i, ts(now.Add(-time.Duration(i)*time.Hour))))
	}

	due := DueList(records, now, 3)
	require.Len(t, due, 3)
	// Most overdue means the earliest schedule.
	assert.Equal(t, int64(10), due[0].Record.WordID)
}
