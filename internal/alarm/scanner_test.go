package alarm

import (
	"context"
	"testing"
	"time"

	"kasa/internal/core"
)

type fakeNotes struct {
	notes []core.Note
}

func (f *fakeNotes) NotesWithAlarms() []core.Note { return f.notes }

type captureNotifier struct {
	calls []struct{ title, body string }
}

func (c *captureNotifier) Notify(_ context.Context, title, body string) error {
	c.calls = append(c.calls, struct{ title, body string }{title, body})
	return nil
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

func noteWithAlarm(id int64, title, content string, at time.Time) core.Note {
	return core.Note{ID: id, Title: title, Content: content, Importance: 2, AlarmTime: &at}
}

func TestScanWindow(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		alarm time.Time
		want  int
	}{
		{"due exactly now", now, 1},
		{"due in 30s", now.Add(30 * time.Second), 1},
		{"due exactly at window edge", now.Add(60 * time.Second), 1},
		{"just past the window", now.Add(61 * time.Second), 0},
		{"already elapsed", now.Add(-time.Second), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := &fakeNotes{notes: []core.Note{noteWithAlarm(1, "dentist", "9am", tt.alarm)}}
			sink := &captureNotifier{}
			s := NewScanner(notes, sink, &fixedClock{t: now}, DefaultInterval)

			s.scan(context.Background())
			if len(sink.calls) != tt.want {
				t.Errorf("notifications = %d, want %d", len(sink.calls), tt.want)
			}
		})
	}
}

func TestScanRefiresWhileInWindow(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	notes := &fakeNotes{notes: []core.Note{noteWithAlarm(1, "dentist", "9am", now.Add(30 * time.Second))}}
	sink := &captureNotifier{}
	s := NewScanner(notes, sink, &fixedClock{t: now}, DefaultInterval)

	// The scanner keeps no dedup state: at-least-once, not exactly-once.
	s.scan(context.Background())
	s.scan(context.Background())
	if len(sink.calls) != 2 {
		t.Errorf("notifications = %d, want 2 across two ticks", len(sink.calls))
	}
}

func TestScanFormatsTitleAndTruncatesBody(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	long := ""
	for i := 0; i < 150; i++ {
		long += "x"
	}
	notes := &fakeNotes{notes: []core.Note{noteWithAlarm(1, "dentist", long, now)}}
	sink := &captureNotifier{}
	s := NewScanner(notes, sink, &fixedClock{t: now}, DefaultInterval)

	s.scan(context.Background())
	if len(sink.calls) != 1 {
		t.Fatalf("notifications = %d, want 1", len(sink.calls))
	}
	if sink.calls[0].title != "🔔 Reminder: dentist" {
		t.Errorf("title = %q", sink.calls[0].title)
	}
	if got := len([]rune(sink.calls[0].body)); got != maxBodyRunes+3 {
		t.Errorf("body length = %d runes, want %d + ellipsis", got, maxBodyRunes)
	}
}

func TestScanSkipsNotesWithoutAlarm(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	notes := &fakeNotes{notes: nil}
	sink := &captureNotifier{}
	s := NewScanner(notes, sink, &fixedClock{t: now}, DefaultInterval)

	s.scan(context.Background())
	if len(sink.calls) != 0 {
		t.Errorf("notifications = %d, want 0", len(sink.calls))
	}
}
