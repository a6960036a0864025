package srs

import (
	"sort"
	"time"

	"github.com/example/vocabgym/pkg/models"
)

// DueCounts breaks a user's vocabulary down by review urgency. DueToday and
// DueSoon both start at now and overlap: due-soon includes due-today.
type DueCounts struct {
	TotalDue int `json:"total_due"` // Due now, including never-reviewed words
	Overdue  int `json:"overdue"`   // Scheduled review time already passed
	DueToday int `json:"due_today"` // Scheduled within the next 24 hours
	DueSoon  int `json:"due_soon"`  // Scheduled within the next 72 hours
}

// CountDue aggregates due statistics over a user's vocabulary records.
func CountDue(records []models.VocabularyRecord, now time.Time) DueCounts {
	var c DueCounts
	dayEnd := now.Add(24 * time.Hour)
	soonEnd := now.Add(72 * time.Hour)

	for _, r := range records {
		if IsDue(r.NextReviewAt, now) {
			c.TotalDue++
		}
		if r.NextReviewAt == nil {
			continue
		}
		at := *r.NextReviewAt
		if at.Before(now) {
			c.Overdue++
			continue
		}
		if at.Before(dayEnd) {
			c.DueToday++
		}
		if at.Before(soonEnd) {
			c.DueSoon++
		}
	}
	return c
}

// DueRecord is a vocabulary record annotated with how far past its scheduled
// review it is. DueList only emits due records, so DaysOverdue is never
// negative; a never-reviewed word carries 0.
type DueRecord struct {
	Record      models.VocabularyRecord
	DaysOverdue int
}

// DueList returns the user's due words sorted most-overdue-first. A nil
// NextReviewAt sorts as maximally overdue. A limit of 0 or less means no
// limit.
func DueList(records []models.VocabularyRecord, now time.Time, limit int) []DueRecord {
	var due []DueRecord
	for _, r := range records {
		if !IsDue(r.NextReviewAt, now) {
			continue
		}
		days := 0
		if r.NextReviewAt != nil {
			days = int(now.Sub(*r.NextReviewAt).Hours() / 24)
		}
		due = append(due, DueRecord{Record: r, DaysOverdue: days})
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].Record.NextReviewAt, due[j].Record.NextReviewAt
		if a == nil {
			return b != nil
		}
		if b == nil {
			return false
		}
		return a.Before(*b)
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}
