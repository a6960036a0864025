package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabgym/internal/database"
	"github.com/example/vocabgym/internal/srs"
	"github.com/example/vocabgym/internal/study"
)

// Default quiet-hours boundaries for review reminders
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier delivers a due-review reminder to a user
type Notifier interface {
	SendDueReminder(userID int64, counts srs.DueCounts) error
}

// LogNotifier writes reminders to the application log. It stands in until a
// push channel (mail, mobile) is wired up.
type LogNotifier struct{}

// SendDueReminder logs the reminder
func (LogNotifier) SendDueReminder(userID int64, counts srs.DueCounts) error {
	log.Printf("Reminder for user %d: %d words due (%d overdue)", userID, counts.TotalDue, counts.Overdue)
	return nil
}

// Scheduler runs the hourly due-review reminder job
type Scheduler struct {
	scheduler *gocron.Scheduler
	vocab     *database.VocabularyRepository
	due       *study.DueService
	notifier  Notifier
}

// New creates a new scheduler instance
func New(vocab *database.VocabularyRepository, due *study.DueService, notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		vocab:     vocab,
		due:       due,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders notifies every user who has due words, skipping the
// configured quiet hours.
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()
	startHour := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	ctx := context.Background()
	userIDs, err := s.vocab.UserIDs(ctx)
	if err != nil {
		log.Printf("Error listing users for reminders: %v", err)
		return
	}

	for _, userID := range userIDs {
		counts, err := s.due.Counts(ctx, userID)
		if err != nil {
			log.Printf("Error counting due words for user %d: %v", userID, err)
			continue
		}
		if counts.TotalDue == 0 {
			continue
		}
		if err := s.notifier.SendDueReminder(userID, counts); err != nil {
			log.Printf("Error sending reminder to user %d: %v", userID, err)
		}
	}
}

// RunManualCheck forces a reminder check for a single user
func (s *Scheduler) RunManualCheck(userID int64) error {
	counts, err := s.due.Counts(context.Background(), userID)
	if err != nil {
		return err
	}
	if counts.TotalDue == 0 {
		return nil
	}
	return s.notifier.SendDueReminder(userID, counts)
}

func envHour(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
