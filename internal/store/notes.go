package store

import "context"

// Note statuses. Anything other than open counts as soft-deleted.
const (
	NoteOpen    = 0
	NoteDeleted = 1
)

// Note is a user-authored reminder attached to a lesson, with an
// expiry timestamp and a soft-delete status. LessonID is a weak
// reference: the lesson may no longer exist.
type Note struct {
	ID       int64
	ChatID   int64
	LessonID int64
	Text     string
	TimeEnd  int64
	Status   int
}

// Active reports whether the note is open and not yet expired at the
// given moment.
func (n Note) Active(now int64) bool {
	return n.Status == NoteOpen && n.TimeEnd > now
}

func noteFromRecord(r Record) Note {
	var n Note
	n.ID, _ = r.Int64("id")
	n.ChatID, _ = r.Int64("chat_id")
	n.LessonID, _ = r.Int64("lesson_id")
	n.Text, _ = r.String("text")
	n.TimeEnd, _ = r.Int64("timeEnd")
	if v, ok := r.Int64("status"); ok {
		n.Status = int(v)
	}
	return n
}

// GetAllNotes returns notes matching pred regardless of status or expiry.
func (s *Store) GetAllNotes(ctx context.Context, pred Predicate) ([]Note, error) {
	records, err := s.SelectAll(ctx, TableNotes, pred)
	if err != nil {
		return nil, err
	}
	notes := make([]Note, 0, len(records))
	for _, r := range records {
		notes = append(notes, noteFromRecord(r))
	}
	return notes, nil
}

// GetActiveNotes returns notes matching pred that are open and not expired.
func (s *Store) GetActiveNotes(ctx context.Context, pred Predicate) ([]Note, error) {
	notes, err := s.GetAllNotes(ctx, pred)
	if err != nil {
		return nil, err
	}
	now := s.cal.Timestamp()
	var active []Note
	for _, n := range notes {
		if n.Active(now) {
			active = append(active, n)
		}
	}
	return active, nil
}

// GetExpiredNotes returns notes matching pred that are expired or
// soft-deleted (the complement of GetActiveNotes).
func (s *Store) GetExpiredNotes(ctx context.Context, pred Predicate) ([]Note, error) {
	notes, err := s.GetAllNotes(ctx, pred)
	if err != nil {
		return nil, err
	}
	now := s.cal.Timestamp()
	var expired []Note
	for _, n := range notes {
		if !n.Active(now) {
			expired = append(expired, n)
		}
	}
	return expired, nil
}

// GetNote returns the note with the given id; ok is false when it does
// not exist.
func (s *Store) GetNote(ctx context.Context, id int64) (Note, bool, error) {
	r, err := s.Select(ctx, TableNotes, Predicate{"id": id})
	if err != nil {
		return Note{}, false, err
	}
	if r.Empty() {
		return Note{}, false, nil
	}
	return noteFromRecord(r), true, nil
}

// AddNote inserts an open note and returns its generated id.
func (s *Store) AddNote(ctx context.Context, chatID, lessonID int64, text string, timeEnd int64) (int64, error) {
	return s.Insert(ctx, TableNotes, map[string]any{
		"chat_id":   chatID,
		"lesson_id": lessonID,
		"text":      text,
		"timeEnd":   timeEnd,
		"status":    NoteOpen,
	})
}

// RemoveNote hard-deletes a note.
func (s *Store) RemoveNote(ctx context.Context, id int64) error {
	return s.Delete(ctx, TableNotes, Predicate{"id": id})
}

// UpdateNote sets the given fields on one note (status transitions go
// through here).
func (s *Store) UpdateNote(ctx context.Context, id int64, fields map[string]any) error {
	return s.Update(ctx, TableNotes, fields, Predicate{"id": id})
}
