// Package srs implements the spaced-repetition core: the interval model that
// schedules reviews, the card selector that orders words within a session,
// and the due-word aggregation. Everything here is pure; time and randomness
// come in as parameters.
package srs

import (
	"fmt"
	"math"
	"time"
)

const (
	// InitialIntervalHours is the base review interval and the reset target
	// after a failed review cycle.
	InitialIntervalHours = 20
	// MaxIntervalHours caps the progression at 30 days.
	MaxIntervalHours = 720

	// MinEaseFactor and MaxEaseFactor bound the per-word interval multiplier.
	MinEaseFactor = 1.3
	MaxEaseFactor = 2.5

	// EasePenalty is subtracted from the ease factor after a failed cycle.
	// Successful cycles leave the ease factor unchanged.
	EasePenalty = 0.2
)

// NextInterval returns the review interval in hours after a review cycle.
//
// A failed cycle resets to the initial 20 hours regardless of history. A
// successful cycle follows the fixed progression 20, 40, 80, 160, 320, 640
// hours (20 * 2^n for n consecutive successes, counting the cycle just
// completed), capped at 720 hours. The ease factor scales the result and the
// cap applies again after scaling.
func NextInterval(consecutiveSuccesses int, wasCorrect bool, currentIntervalHours int, easeFactor float64) int {
	if !wasCorrect {
		return InitialIntervalHours
	}

	interval := MaxIntervalHours
	if consecutiveSuccesses < 6 {
		interval = InitialIntervalHours << uint(consecutiveSuccesses)
	}

	if easeFactor != 1.0 {
		interval = int(float64(interval) * easeFactor)
	}
	if interval > MaxIntervalHours {
		interval = MaxIntervalHours
	}
	return interval
}

// NextReviewDate returns the timestamp of the next review: plain additive
// arithmetic, no calendar rounding.
func NextReviewDate(intervalHours int, from time.Time) time.Time {
	return from.Add(time.Duration(intervalHours) * time.Hour)
}

// UpdateEase returns the ease factor after a review cycle: unchanged on
// success, reduced by the penalty on failure, clamped to
// [MinEaseFactor, MaxEaseFactor] in both directions.
func UpdateEase(currentEase float64, wasCorrect bool) float64 {
	ease := currentEase
	if !wasCorrect {
		ease -= EasePenalty
	}
	if ease < MinEaseFactor {
		return MinEaseFactor
	}
	if ease > MaxEaseFactor {
		return MaxEaseFactor
	}
	return ease
}

// IsDue reports whether a word is due for review at the given time. A nil
// nextReviewAt means the word was never reviewed, which always counts as due.
func IsDue(nextReviewAt *time.Time, now time.Time) bool {
	return nextReviewAt == nil || !nextReviewAt.After(now)
}

// FormatInterval renders an interval as a human-readable string: hours below
// a day, rounded days below a week, rounded weeks beyond that. Presentation
// only; scheduling always works in hours.
func FormatInterval(intervalHours int) string {
	switch {
	case intervalHours < 24:
		return fmt.Sprintf("%d hours", intervalHours)
	case intervalHours < 168:
		return fmt.Sprintf("%d days", int(math.Round(float64(intervalHours)/24)))
	default:
		return fmt.Sprintf("%d weeks", int(math.Round(float64(intervalHours)/168)))
	}
}
