package sweeper

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/MeldyTheCoder/GeroinichBot/internal/academic"
	"github.com/MeldyTheCoder/GeroinichBot/internal/store"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeMessenger struct {
	sent    []sentMessage
	failFor map[int64]error
}

func (f *fakeMessenger) SendMessage(chatID int64, text string) error {
	if err := f.failFor[chatID]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func newTestSweeper(t *testing.T) (*Sweeper, *store.Store, *fakeMessenger) {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:", academic.NewCalendar())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	messenger := &fakeMessenger{failFor: make(map[int64]error)}
	return New(st, zap.NewNop(), messenger, time.Hour), st, messenger
}

func futureEnd() int64 {
	return time.Now().Add(time.Hour).Unix()
}

func TestSweep_OneAggregatedMessagePerRecipient(t *testing.T) {
	s, st, messenger := newTestSweeper(t)
	ctx := context.Background()

	lessonA, err := st.AddLesson(ctx, store.Lesson{Name: "A", Weekday: 1})
	if err != nil {
		t.Fatalf("add lesson: %v", err)
	}
	lessonB, err := st.AddLesson(ctx, store.Lesson{Name: "B", Weekday: 2})
	if err != nil {
		t.Fatalf("add lesson: %v", err)
	}

	if _, err := st.AddNote(ctx, 42, lessonA, "первая", futureEnd()); err != nil {
		t.Fatalf("add note: %v", err)
	}
	if _, err := st.AddNote(ctx, 42, lessonB, "вторая", futureEnd()); err != nil {
		t.Fatalf("add note: %v", err)
	}
	if _, err := st.AddNote(ctx, 7, lessonA, "чужая", futureEnd()); err != nil {
		t.Fatalf("add note: %v", err)
	}

	s.Sweep(ctx)

	if len(messenger.sent) != 2 {
		t.Fatalf("want 2 messages, got %d: %+v", len(messenger.sent), messenger.sent)
	}
	// Recipients follow store order of their first note.
	if messenger.sent[0].chatID != 42 || messenger.sent[1].chatID != 7 {
		t.Fatalf("unexpected recipient order: %+v", messenger.sent)
	}

	text := messenger.sent[0].text
	first := strings.Index(text, "1. <b>A</b> - <code>первая</code>")
	second := strings.Index(text, "2. <b>B</b> - <code>вторая</code>")
	if first == -1 || second == -1 || second < first {
		t.Fatalf("numbered list wrong or out of order:\n%s", text)
	}
}

func TestSweep_PlaceholderForMissingLesson(t *testing.T) {
	s, st, messenger := newTestSweeper(t)
	ctx := context.Background()

	if _, err := st.AddNote(ctx, 42, 999, "без пары", futureEnd()); err != nil {
		t.Fatalf("add note: %v", err)
	}

	s.Sweep(ctx)

	if len(messenger.sent) != 1 {
		t.Fatalf("want 1 message, got %d", len(messenger.sent))
	}
	if !strings.Contains(messenger.sent[0].text, "1. <b>??</b> - <code>без пары</code>") {
		t.Fatalf("missing lesson placeholder:\n%s", messenger.sent[0].text)
	}
}

func TestSweep_DropsZeroRecipientButNotifiesRest(t *testing.T) {
	s, st, messenger := newTestSweeper(t)
	ctx := context.Background()

	if _, err := st.AddNote(ctx, 0, 1, "потерянная", futureEnd()); err != nil {
		t.Fatalf("add note: %v", err)
	}
	if _, err := st.AddNote(ctx, 42, 1, "нормальная", futureEnd()); err != nil {
		t.Fatalf("add note: %v", err)
	}

	s.Sweep(ctx)

	if len(messenger.sent) != 1 || messenger.sent[0].chatID != 42 {
		t.Fatalf("want only chat 42 notified, got %+v", messenger.sent)
	}
}

func TestSweep_DispatchFailureDoesNotAbortPass(t *testing.T) {
	s, st, messenger := newTestSweeper(t)
	ctx := context.Background()

	messenger.failFor[42] = errors.New("blocked by user")

	if _, err := st.AddNote(ctx, 42, 1, "первому", futureEnd()); err != nil {
		t.Fatalf("add note: %v", err)
	}
	if _, err := st.AddNote(ctx, 43, 1, "второму", futureEnd()); err != nil {
		t.Fatalf("add note: %v", err)
	}

	s.Sweep(ctx)

	if len(messenger.sent) != 1 || messenger.sent[0].chatID != 43 {
		t.Fatalf("second recipient must still be notified, got %+v", messenger.sent)
	}
}

func TestSweep_IgnoresExpiredAndDeletedNotes(t *testing.T) {
	s, st, messenger := newTestSweeper(t)
	ctx := context.Background()

	if _, err := st.AddNote(ctx, 42, 1, "просрочена", time.Now().Add(-time.Hour).Unix()); err != nil {
		t.Fatalf("add note: %v", err)
	}
	id, err := st.AddNote(ctx, 42, 1, "удалена", futureEnd())
	if err != nil {
		t.Fatalf("add note: %v", err)
	}
	if err := st.UpdateNote(ctx, id, map[string]any{"status": store.NoteDeleted}); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	s.Sweep(ctx)

	if len(messenger.sent) != 0 {
		t.Fatalf("nothing should be dispatched, got %+v", messenger.sent)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s, _, _ := newTestSweeper(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sweeper did not stop on cancel")
	}
}
