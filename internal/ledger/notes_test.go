package ledger

import (
	"errors"
	"testing"
	"time"

	"kasa/internal/core"
)

func TestNotesOrderedByImportanceThenRecency(t *testing.T) {
	eng, _, clock := newTestEngine(t, Config{})

	low, err := eng.AddNote(core.Note{Title: "low", Importance: 1})
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	clock.advance(time.Minute)
	oldHigh, err := eng.AddNote(core.Note{Title: "old high", Importance: 4})
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	clock.advance(time.Minute)
	newHigh, err := eng.AddNote(core.Note{Title: "new high", Importance: 4})
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}

	got := eng.Notes()
	wantOrder := []int64{newHigh.ID, oldHigh.ID, low.ID}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("position %d = %q, want id %d (order %+v)", i, got[i].Title, want, got)
		}
	}

	// Updating bumps recency within the same importance rank.
	clock.advance(time.Minute)
	oldHigh.Content = "edited"
	if _, err := eng.UpdateNote(oldHigh); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	got = eng.Notes()
	if got[0].ID != oldHigh.ID {
		t.Errorf("expected updated note first, got %q", got[0].Title)
	}
}

func TestUpdateNoteUnknownID(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	if _, err := eng.UpdateNote(core.Note{ID: 424242, Title: "x", Importance: 2}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNoteValidation(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})

	tests := []struct {
		name string
		note core.Note
		want error
	}{
		{"empty title", core.Note{Importance: 2}, core.ErrEmptyTitle},
		{"importance too low", core.Note{Title: "x", Importance: 0}, core.ErrInvalidImportance},
		{"importance too high", core.Note{Title: "x", Importance: 5}, core.ErrInvalidImportance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := eng.AddNote(tt.note); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSetAndClearAlarm(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})

	note, err := eng.AddNote(core.Note{Title: "dentist", Importance: 3})
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}

	alarmAt := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	if err := eng.SetAlarm(note.ID, alarmAt); err != nil {
		t.Fatalf("SetAlarm: %v", err)
	}
	withAlarms := eng.NotesWithAlarms()
	if len(withAlarms) != 1 || !withAlarms[0].AlarmTime.Equal(alarmAt) {
		t.Fatalf("NotesWithAlarms = %+v", withAlarms)
	}

	if err := eng.ClearAlarm(note.ID); err != nil {
		t.Fatalf("ClearAlarm: %v", err)
	}
	if n := len(eng.NotesWithAlarms()); n != 0 {
		t.Errorf("expected no alarmed notes, got %d", n)
	}

	// Unknown ids are silent no-ops.
	if err := eng.SetAlarm(424242, alarmAt); err != nil {
		t.Errorf("SetAlarm unknown id: %v", err)
	}
	if err := eng.ClearAlarm(424242); err != nil {
		t.Errorf("ClearAlarm unknown id: %v", err)
	}
}

func TestDeleteNoteIsNoOpForUnknownID(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})

	note, err := eng.AddNote(core.Note{Title: "gone", Importance: 1})
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if err := eng.DeleteNote(note.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if err := eng.DeleteNote(note.ID); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
	if n := len(eng.Notes()); n != 0 {
		t.Errorf("expected 0 notes, got %d", n)
	}
}
