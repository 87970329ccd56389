package store

import (
	"context"
	"errors"
	"testing"

	"github.com/MeldyTheCoder/GeroinichBot/internal/academic"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:", academic.NewCalendar())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInsertSelectRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, TableLessons, map[string]any{
		"name":        "Математика",
		"weekday":     3,
		"time":        "10:00",
		"room_number": "202",
		"group_num":   5,
		"semester":    1,
		"grade":       2,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == 0 {
		t.Fatalf("want generated id, got 0")
	}

	rec, err := s.Select(ctx, TableLessons, Predicate{"id": id})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if name, ok := rec.String("name"); !ok || name != "Математика" {
		t.Fatalf("name: got %q (ok=%v)", name, ok)
	}
	if wd, ok := rec.Int64("weekday"); !ok || wd != 3 {
		t.Fatalf("weekday: got %d (ok=%v)", wd, ok)
	}
	if room, ok := rec.String("room_number"); !ok || room != "202" {
		t.Fatalf("room_number: got %q (ok=%v)", room, ok)
	}
}

func TestSelectNoMatchReturnsEmptyRecord(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Select(context.Background(), TableLessons, Predicate{"id": 12345})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if !rec.Empty() {
		t.Fatalf("want empty record, got %v", rec)
	}
	if _, ok := rec.Int64("id"); ok {
		t.Fatalf("absent field must report ok=false")
	}
}

func TestInsertEmptyFieldsRefused(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Insert(context.Background(), TableLessons, nil); !errors.Is(err, ErrNoFields) {
		t.Fatalf("want ErrNoFields, got %v", err)
	}
}

func TestUpdateEmptyFieldsLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, TableLessons, map[string]any{"name": "Физика", "weekday": 1})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.Update(ctx, TableLessons, nil, Predicate{"id": id}); !errors.Is(err, ErrNoFields) {
		t.Fatalf("want ErrNoFields, got %v", err)
	}

	rec, err := s.Select(ctx, TableLessons, Predicate{"id": id})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if name, _ := rec.String("name"); name != "Физика" {
		t.Fatalf("row changed after refused update: %q", name)
	}
}

func TestDeleteWithoutPredicateRefused(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Insert(ctx, TableLessons, map[string]any{"name": "Химия", "weekday": 2}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.Delete(ctx, TableLessons, nil); !errors.Is(err, ErrNoPredicate) {
		t.Fatalf("want ErrNoPredicate, got %v", err)
	}

	records, err := s.SelectAll(ctx, TableLessons, nil)
	if err != nil {
		t.Fatalf("select all: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 row after refused delete, got %d", len(records))
	}
}

func TestUnknownIdentifierRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Select(ctx, TableLessons, Predicate{"name OR 1=1": "x"}); err == nil {
		t.Fatalf("malicious column name must be rejected")
	}
	if _, err := s.Select(ctx, "lessons; DROP TABLE lessons", nil); err == nil {
		t.Fatalf("unknown table must be rejected")
	}
	if _, err := s.Insert(ctx, TableNotes, map[string]any{"nonexistent": 1}); err == nil {
		t.Fatalf("unknown insert column must be rejected")
	}
}

func TestGetLessonsWildcardGroup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	shared, err := s.AddLesson(ctx, Lesson{Name: "Math", Weekday: 1, GroupNum: 0})
	if err != nil {
		t.Fatalf("add shared lesson: %v", err)
	}
	own, err := s.AddLesson(ctx, Lesson{Name: "Physics", Weekday: 1, GroupNum: 5})
	if err != nil {
		t.Fatalf("add own lesson: %v", err)
	}
	if _, err := s.AddLesson(ctx, Lesson{Name: "Chemistry", Weekday: 1, GroupNum: 7}); err != nil {
		t.Fatalf("add foreign lesson: %v", err)
	}

	lessons, err := s.GetLessons(ctx, 5, nil)
	if err != nil {
		t.Fatalf("get lessons: %v", err)
	}
	if len(lessons) != 2 {
		t.Fatalf("want 2 lessons for group 5, got %d", len(lessons))
	}
	if lessons[0].ID != shared || lessons[1].ID != own {
		t.Fatalf("unexpected lessons: %+v", lessons)
	}
}

func TestNotesActiveExpiredPartition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := s.cal.Timestamp()

	activeID, err := s.AddNote(ctx, 42, 1, "Study", now+60)
	if err != nil {
		t.Fatalf("add active note: %v", err)
	}
	expiredID, err := s.AddNote(ctx, 42, 1, "Old", now-60)
	if err != nil {
		t.Fatalf("add expired note: %v", err)
	}

	active, err := s.GetActiveNotes(ctx, Predicate{"chat_id": 42})
	if err != nil {
		t.Fatalf("active notes: %v", err)
	}
	if len(active) != 1 || active[0].ID != activeID {
		t.Fatalf("want exactly the active note, got %+v", active)
	}

	expired, err := s.GetExpiredNotes(ctx, Predicate{"chat_id": 42})
	if err != nil {
		t.Fatalf("expired notes: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != expiredID {
		t.Fatalf("want exactly the expired note, got %+v", expired)
	}
}

func TestSoftDeletedNoteNeverActive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := s.cal.Timestamp()

	id, err := s.AddNote(ctx, 42, 1, "Study", now+3600)
	if err != nil {
		t.Fatalf("add note: %v", err)
	}
	if err := s.UpdateNote(ctx, id, map[string]any{"status": NoteDeleted}); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	active, err := s.GetActiveNotes(ctx, Predicate{"chat_id": 42})
	if err != nil {
		t.Fatalf("active notes: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("soft-deleted note must not be active: %+v", active)
	}

	expired, err := s.GetExpiredNotes(ctx, nil)
	if err != nil {
		t.Fatalf("expired notes: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != id {
		t.Fatalf("soft-deleted note must count as expired, got %+v", expired)
	}
}

func TestNoteLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddNote(ctx, 1, 2, "text", s.cal.Timestamp()+60)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	note, ok, err := s.GetNote(ctx, id)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if note.ChatID != 1 || note.LessonID != 2 || note.Text != "text" {
		t.Fatalf("unexpected note %+v", note)
	}

	if err := s.RemoveNote(ctx, id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, err := s.GetNote(ctx, id); err != nil || ok {
		t.Fatalf("note must be gone, ok=%v err=%v", ok, err)
	}
}

func TestUserRegistration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	registered, err := s.UserRegistered(ctx, 1001)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if registered {
		t.Fatalf("unknown user must not be registered")
	}

	if _, err := s.AddUser(ctx, 1001); err != nil {
		t.Fatalf("add user: %v", err)
	}

	registered, err = s.UserRegistered(ctx, 1001)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !registered {
		t.Fatalf("user must be registered after AddUser")
	}

	u, ok, err := s.GetUser(ctx, 1001)
	if err != nil || !ok {
		t.Fatalf("get user: ok=%v err=%v", ok, err)
	}
	if u.UserID != 1001 || u.RegisteredAt == 0 {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestLessonPlaceholderAfterDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddLesson(ctx, Lesson{Name: "История", Weekday: 4})
	if err != nil {
		t.Fatalf("add lesson: %v", err)
	}
	if err := s.DeleteLesson(ctx, id); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}
	if _, ok, err := s.GetLesson(ctx, id); err != nil || ok {
		t.Fatalf("lesson must be gone, ok=%v err=%v", ok, err)
	}
}
