package sweeper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MeldyTheCoder/GeroinichBot/internal/store"
)

const header = "💬 <b>Не забывайте про Ваши заметки:</b>\n\n"

// Placeholder lesson name for notes whose lesson no longer exists.
const unknownLesson = "??"

// Messenger is the minimal interface the sweeper needs to deliver a
// notification. telegram.Router implements it.
type Messenger interface {
	SendMessage(chatID int64, text string) error
}

// Sweeper periodically polls the store for active notes and sends one
// aggregated message per recipient.
type Sweeper struct {
	store     *store.Store
	log       *zap.Logger
	messenger Messenger
	cooldown  time.Duration
}

func New(st *store.Store, log *zap.Logger, messenger Messenger, cooldown time.Duration) *Sweeper {
	return &Sweeper{
		store:     st,
		log:       log,
		messenger: messenger,
		cooldown:  cooldown,
	}
}

// Run executes one sweep per cooldown interval until ctx is canceled.
// A failed sweep never stops the loop; it is logged and retried on the
// next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cooldown)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopping")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one pass: fetch active notes, group them by recipient
// in store order, and dispatch one message per recipient. A dispatch
// failure is logged and does not abort the remaining recipients.
func (s *Sweeper) Sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("sweep panic", zap.Any("panic", r))
		}
	}()

	notes, err := s.store.GetActiveNotes(ctx, nil)
	if err != nil {
		s.log.Error("fetch active notes failed", zap.Error(err))
		return
	}

	order := make([]int64, 0, len(notes))
	byChat := make(map[int64][]store.Note)
	for _, n := range notes {
		if n.ChatID == 0 {
			s.log.Warn("note without recipient skipped", zap.Int64("note_id", n.ID))
			continue
		}
		if _, seen := byChat[n.ChatID]; !seen {
			order = append(order, n.ChatID)
		}
		byChat[n.ChatID] = append(byChat[n.ChatID], n)
	}

	for _, chatID := range order {
		text := s.compose(ctx, byChat[chatID])
		if err := s.messenger.SendMessage(chatID, text); err != nil {
			s.log.Error("note dispatch failed",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
			continue
		}
	}
}

// compose renders a recipient's notes as a 1-based numbered list,
// resolving each note's lesson name.
func (s *Sweeper) compose(ctx context.Context, notes []store.Note) string {
	lines := make([]string, 0, len(notes))
	for i, n := range notes {
		name := unknownLesson
		if lesson, ok, err := s.store.GetLesson(ctx, n.LessonID); err == nil && ok {
			name = lesson.Name
		}
		lines = append(lines, fmt.Sprintf("%d. <b>%s</b> - <code>%s</code>", i+1, name, n.Text))
	}
	return header + strings.Join(lines, "\n")
}
