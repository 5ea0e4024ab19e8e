// Package alarm scans note reminders on a fixed interval and triggers a
// notification collaborator for every alarm due within the next tick.
package alarm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kasa/internal/core"
	"kasa/internal/metrics"
)

// DefaultInterval is the polling period; it is also the width of the
// dueness window.
const DefaultInterval = 60 * time.Second

// maxBodyRunes caps the notification body length.
const maxBodyRunes = 100

// NoteSource provides the notes that carry an alarm time. The scanner
// only reads.
type NoteSource interface {
	NotesWithAlarms() []core.Note
}

// Notifier delivers a user-facing notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Clock is the scanner's source of "now".
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type Scanner struct {
	notes    NoteSource
	notifier Notifier
	clock    Clock
	interval time.Duration
}

func NewScanner(notes NoteSource, notifier Notifier, clock Clock, interval time.Duration) *Scanner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scanner{notes: notes, notifier: notifier, clock: clock, interval: interval}
}

// Run polls until the context is cancelled. Delivery is at-least-once:
// the scanner keeps no dedup state, so an alarm still inside the window
// on the next tick fires again.
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Alarm scanner started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Alarm scanner stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan triggers every note whose alarm falls inside [now, now+interval].
func (s *Scanner) scan(ctx context.Context) {
	now := s.clock.Now()
	for _, note := range s.notes.NotesWithAlarms() {
		diff := note.AlarmTime.Sub(now)
		if diff < 0 || diff > s.interval {
			continue
		}
		title := fmt.Sprintf("🔔 Reminder: %s", note.Title)
		if err := s.notifier.Notify(ctx, title, truncateBody(note.Content)); err != nil {
			slog.ErrorContext(ctx, "Notification delivery failed",
				"note_id", note.ID, "title", note.Title, "error", err)
			continue
		}
		metrics.AlarmNotifications.Inc()
		slog.InfoContext(ctx, "Alarm triggered",
			"note_id", note.ID, "title", note.Title, "due_in", diff)
	}
}

func truncateBody(body string) string {
	runes := []rune(body)
	if len(runes) <= maxBodyRunes {
		return body
	}
	return string(runes[:maxBodyRunes]) + "..."
}

// LogNotifier writes notifications to the structured log. It is the
// default collaborator when no relay is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, title, body string) error {
	slog.InfoContext(ctx, "Notification", "title", title, "body", body)
	return nil
}
