// Package reminder runs the daily job that emails guests about their
// reservations for the next calendar day.
package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ematija/restaurant-reservation/internal/mailer"
	"github.com/ematija/restaurant-reservation/internal/queue"
	"github.com/ematija/restaurant-reservation/internal/repository"
	queue_publisher "github.com/ematija/restaurant-reservation/internal/service"
	"github.com/ematija/restaurant-reservation/internal/signing"
)

// Scheduler manages the background reminder task.  It assumes a
// single-instance deployment: there is no distributed lock, so running
// two processes would duplicate reminders.
type Scheduler struct {
	bookings *repository.BookingRepo
	baseURL  string
	hour     int // local hour at which the batch runs
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewScheduler creates a reminder scheduler.
func NewScheduler(bookings *repository.BookingRepo, baseURL string, hour int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		bookings: bookings,
		baseURL:  baseURL,
		hour:     hour,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the background task.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("starting reminder scheduler", zap.Int("hour", s.hour))
	go s.runReminderTask(ctx)
}

// Stop terminates the background task.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping reminder scheduler")
	close(s.stopChan)
}

// runReminderTask waits until the configured hour, then fires once
// every 24 hours.
func (s *Scheduler) runReminderTask(ctx context.Context) {
	timer := time.NewTimer(s.untilNextRun(time.Now()))
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			s.sendReminders(ctx)
			timer.Reset(s.untilNextRun(time.Now()))
		case <-s.stopChan:
			s.logger.Info("reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("reminder task cancelled")
			return
		}
	}
}

// untilNextRun computes the wait until the next occurrence of the
// configured hour, local time.
func (s *Scheduler) untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// sendReminders publishes one reminder event per eligible booking
// dated tomorrow.  Individual failures are logged and skipped so one
// bad booking never aborts the batch.
func (s *Scheduler) sendReminders(ctx context.Context) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	s.logger.Info("sending booking reminders", zap.String("date", tomorrow))

	rows, err := s.bookings.ListForReminder(ctx, tomorrow)
	if err != nil {
		s.logger.Error("failed to load reminder bookings", zap.Error(err))
		return
	}

	sent := 0
	for _, rb := range rows {
		ev := queue.BookingNotificationEvent{
			EventID:        uuid.NewString(),
			Kind:           mailer.KindReminder,
			BookingID:      rb.BookingID,
			RestaurantName: rb.RestaurantName,
			Date:           rb.Date,
			Time:           rb.Time,
			Guests:         rb.Guests,
			Children:       rb.Children,
			FirstName:      rb.FirstName,
			LastName:       rb.LastName,
			Email:          rb.Email,
			CancelURL:      signing.CancelURL(s.baseURL, rb.CancelToken),
			OccurredAt:     time.Now().UTC().Format(time.RFC3339),
		}
		if err := queue_publisher.PublishBookingNotification(ctx, ev); err != nil {
			s.logger.Error("failed to publish reminder",
				zap.Uint64("booking_id", rb.BookingID), zap.Error(err))
			continue
		}
		sent++
	}
	s.logger.Info("reminder batch complete", zap.Int("sent", sent), zap.Int("total", len(rows)))
}
