package ledger

import (
	"sort"
	"time"

	"kasa/internal/core"
)

// AddNote stores a note. Creation and update timestamps are set from the
// engine clock.
func (e *Engine) AddNote(n core.Note) (core.Note, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := n.Validate(); err != nil {
		return core.Note{}, err
	}

	id, err := e.nextID()
	if err != nil {
		return core.Note{}, err
	}
	n.ID = id
	now := e.clock.Now()
	n.CreatedAt = now
	n.UpdatedAt = now

	e.doc.Notes = append(e.doc.Notes, n)
	if err := e.save(); err != nil {
		return core.Note{}, err
	}
	return n, nil
}

// UpdateNote replaces a note's title, content, importance, and alarm
// time, refreshing the update timestamp.
func (e *Engine) UpdateNote(n core.Note) (core.Note, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := n.Validate(); err != nil {
		return core.Note{}, err
	}

	for i := range e.doc.Notes {
		if e.doc.Notes[i].ID != n.ID {
			continue
		}
		stored := &e.doc.Notes[i]
		stored.Title = n.Title
		stored.Content = n.Content
		stored.Importance = n.Importance
		stored.AlarmTime = n.AlarmTime
		stored.UpdatedAt = e.clock.Now()
		if err := e.save(); err != nil {
			return core.Note{}, err
		}
		return *stored, nil
	}
	return core.Note{}, core.ErrNotFound
}

// DeleteNote removes a note. Deleting an unknown id is a no-op.
func (e *Engine) DeleteNote(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.doc.Notes[:0]
	for _, n := range e.doc.Notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	e.doc.Notes = kept

	return e.save()
}

// SetAlarm attaches a reminder time to a note. Unknown ids are a silent
// no-op, matching the delete semantics.
func (e *Engine) SetAlarm(noteID int64, alarmTime time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.doc.Notes {
		if e.doc.Notes[i].ID == noteID {
			t := alarmTime
			e.doc.Notes[i].AlarmTime = &t
			break
		}
	}
	return e.save()
}

// ClearAlarm removes a note's reminder. Unknown ids are a silent no-op.
func (e *Engine) ClearAlarm(noteID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.doc.Notes {
		if e.doc.Notes[i].ID == noteID {
			e.doc.Notes[i].AlarmTime = nil
			break
		}
	}
	return e.save()
}

// Notes returns all notes ordered by importance descending, then by
// update recency descending.
func (e *Engine) Notes() []core.Note {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]core.Note, len(e.doc.Notes))
	copy(out, e.doc.Notes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Importance != out[j].Importance {
			return out[i].Importance > out[j].Importance
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// NotesWithAlarms returns the notes carrying a reminder time. The alarm
// scanner calls this every tick; it must stay read-only and cheap.
func (e *Engine) NotesWithAlarms() []core.Note {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []core.Note
	for _, n := range e.doc.Notes {
		if n.AlarmTime != nil {
			out = append(out, n)
		}
	}
	return out
}
