package telegram

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/MeldyTheCoder/GeroinichBot/internal/store"
)

// --- Generic helpers ---

func (r *Router) reply(chatID int64, text string) {
	if err := r.SendMessage(chatID, text); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (r *Router) replyWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (r *Router) edit(chatID int64, messageID int, text string) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("edit failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (r *Router) editWithKeyboard(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("edit failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

// formatLessons renders lessons as a 1-based numbered list.
func formatLessons(lessons []store.Lesson) string {
	lines := make([]string, 0, len(lessons))
	for i, l := range lessons {
		lines = append(lines, fmt.Sprintf("%d. %s - <code>%s каб.</code> (%s)", i+1, l.Name, l.RoomNumber, l.Time))
	}
	return strings.Join(lines, "\n")
}

// --- Commands ---

func (r *Router) handleStart(ctx context.Context, chatID int64) {
	registered, err := r.store.UserRegistered(ctx, chatID)
	if err != nil {
		r.log.Error("registration check failed", zap.Error(err))
		r.reply(chatID, oopsText)
		return
	}
	if registered {
		r.reply(chatID, alreadyRegisteredText)
		return
	}
	if _, err := r.store.AddUser(ctx, chatID); err != nil {
		r.log.Error("register chat failed", zap.Error(err))
		r.reply(chatID, oopsText)
		return
	}
	r.reply(chatID, registeredText)
}

func (r *Router) handleHelp(chatID int64) {
	r.reply(chatID, helpText)
}

func (r *Router) handleRandom(chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		r.reply(chatID, badRandomText)
		return
	}
	a, errA := strconv.Atoi(fields[0])
	b, errB := strconv.Atoi(fields[1])
	if errA != nil || errB != nil {
		r.reply(chatID, badRandomText)
		return
	}
	if a > b {
		a, b = b, a
	}
	n := a + rand.Intn(b-a+1)
	r.reply(chatID, fmt.Sprintf("♿️ <b>Случайное число</b>: <code>%d</code>", n))
}

func (r *Router) handlePeer(chatID int64) {
	r.reply(chatID, fmt.Sprintf("♿️ <b>ID Чата:</b> <code>%d</code>", chatID))
}

func (r *Router) handleDaily(ctx context.Context, chatID int64) {
	lessons, err := r.store.GetLessonsToday(ctx, r.group)
	if err != nil {
		r.log.Error("lessons today failed", zap.Error(err))
		r.reply(chatID, oopsText)
		return
	}
	if len(lessons) == 0 {
		r.reply(chatID, noLessonsTodayText)
		return
	}
	weekday := r.cal.WeekdayName(r.cal.Weekday(r.cal.Now()))
	r.reply(chatID, fmt.Sprintf("♿️ <b>Пары в %s</b>:\n\n%s", weekday, formatLessons(lessons)))
}

func (r *Router) handleWeek(ctx context.Context, chatID int64) {
	lessons, err := r.store.GetLessons(ctx, r.group, nil)
	if err != nil {
		r.log.Error("lessons failed", zap.Error(err))
		r.reply(chatID, oopsText)
		return
	}
	if len(lessons) == 0 {
		r.reply(chatID, noLessonsTodayText)
		return
	}

	byWeekday := make(map[int][]store.Lesson)
	minDay, maxDay := 7, 1
	for _, l := range lessons {
		byWeekday[l.Weekday] = append(byWeekday[l.Weekday], l)
		if l.Weekday < minDay {
			minDay = l.Weekday
		}
		if l.Weekday > maxDay {
			maxDay = l.Weekday
		}
	}

	var b strings.Builder
	b.WriteString("♿️ <b>Все пары на этой неделе</b>:\n\n")
	for day := minDay; day <= maxDay; day++ {
		fmt.Fprintf(&b, "🔎 <b>%s</b>:\n", r.cal.WeekdayName(day))
		if len(byWeekday[day]) == 0 {
			b.WriteString("💤 <i>Пар нет...</i>")
		} else {
			b.WriteString(formatLessons(byWeekday[day]))
		}
		b.WriteString("\n\n")
	}
	r.reply(chatID, strings.TrimRight(b.String(), "\n"))
}

func (r *Router) handleVote(ctx context.Context, chatID int64) {
	lessons, err := r.store.GetLessonsToday(ctx, r.group)
	if err != nil {
		r.log.Error("lessons today failed", zap.Error(err))
		r.reply(chatID, oopsText)
		return
	}
	if len(lessons) == 0 {
		r.reply(chatID, noLessonsTodayText)
		return
	}
	options := make([]string, 0, len(lessons)+2)
	for _, l := range lessons {
		options = append(options, fmt.Sprintf("Только на %q", l.Name))
	}
	options = append(options, voteAllOption, voteNoneOption)

	poll := tgbotapi.NewPoll(chatID, votePollQuestion, options...)
	poll.IsAnonymous = false
	if _, err := r.bot.Send(poll); err != nil {
		r.log.Warn("send poll failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

// --- Notes ---

func (r *Router) handleNotes(ctx context.Context, chatID int64) {
	notes, err := r.store.GetActiveNotes(ctx, store.Predicate{"chat_id": chatID})
	if err != nil {
		r.log.Error("active notes failed", zap.Error(err))
		r.reply(chatID, oopsText)
		return
	}
	if len(notes) == 0 {
		r.reply(chatID, noNotesText)
		return
	}
	r.replyWithKeyboard(chatID, notesMenuText, r.notesMenuKeyboard(ctx, notes, 0))
}

func (r *Router) handleViewNotes(ctx context.Context, chatID int64, messageID, page int) {
	notes, err := r.store.GetActiveNotes(ctx, store.Predicate{"chat_id": chatID})
	if err != nil {
		r.log.Error("active notes failed", zap.Error(err))
		r.edit(chatID, messageID, oopsText)
		return
	}
	if len(notes) == 0 {
		r.edit(chatID, messageID, noNotesText)
		return
	}
	r.editWithKeyboard(chatID, messageID, notesMenuText, r.notesMenuKeyboard(ctx, notes, page))
}

func (r *Router) handleViewNote(ctx context.Context, chatID int64, messageID int, noteID int64) {
	note, ok, err := r.store.GetNote(ctx, noteID)
	if err != nil {
		r.log.Error("get note failed", zap.Error(err))
		r.edit(chatID, messageID, oopsText)
		return
	}
	if !ok {
		r.edit(chatID, messageID, noteNotFoundText)
		return
	}

	lessonName := "??"
	if lesson, found, err := r.store.GetLesson(ctx, note.LessonID); err == nil && found {
		lessonName = lesson.Name
	}

	divider := strings.Repeat("➖", 20)
	text := fmt.Sprintf(
		"🔈 <b>Заметка</b> <code>№%d</code>:\n%s\n<i>%s</i>\n%s\n"+
			"♿️ <b>Пара</b>: <code>%s</code>\n"+
			"🕕 <b>Действительна до</b>: <code>%s</code>",
		note.ID, divider, note.Text, divider,
		lessonName, r.cal.FormatTimestamp(note.TimeEnd),
	)
	r.editWithKeyboard(chatID, messageID, text, noteMenuKeyboard(note.ID))
}

func (r *Router) handleDeleteNote(ctx context.Context, chatID int64, messageID int, noteID int64) {
	_, ok, err := r.store.GetNote(ctx, noteID)
	if err != nil {
		r.log.Error("get note failed", zap.Error(err))
		r.edit(chatID, messageID, oopsText)
		return
	}
	if !ok {
		r.edit(chatID, messageID, noteNotFoundText)
		return
	}
	if err := r.store.UpdateNote(ctx, noteID, map[string]any{"status": store.NoteDeleted}); err != nil {
		r.log.Error("delete note failed", zap.Error(err))
		r.edit(chatID, messageID, oopsText)
		return
	}
	r.edit(chatID, messageID, fmt.Sprintf("✅ <b>Заметка</b> <code>№%d</code> <b>успешно удалена!</b>", noteID))
}

// --- Add-note conversation ---

func (r *Router) handleAddNote(chatID int64) {
	r.setDraft(chatID, &noteDraft{stage: draftText})
	r.replyWithKeyboard(chatID, askNoteTextText, cancelNoteKeyboard())
}

func (r *Router) handleCancelNote(chatID int64, messageID int) {
	r.clearDraft(chatID)
	r.edit(chatID, messageID, noteCanceledText)
}

func (r *Router) handleChooseLesson(ctx context.Context, chatID int64, messageID int, lessonID int64) {
	draft := r.getDraft(chatID)
	if draft == nil || draft.stage != draftLesson {
		return
	}
	_, ok, err := r.store.GetLesson(ctx, lessonID)
	if err != nil {
		r.log.Error("get lesson failed", zap.Error(err))
		r.edit(chatID, messageID, oopsText)
		return
	}
	if !ok {
		lessons, err := r.store.GetLessons(ctx, r.group, nil)
		if err != nil {
			r.log.Error("lessons failed", zap.Error(err))
			r.edit(chatID, messageID, oopsText)
			return
		}
		r.editWithKeyboard(chatID, messageID, noSuchLessonText, noteLessonsKeyboard(lessons))
		return
	}
	draft.lessonID = lessonID
	draft.stage = draftDate
	r.editWithKeyboard(chatID, messageID, askNoteDateText, cancelNoteKeyboard())
}

// handleFreeForm advances the add-note conversation with plain text.
// Chats without a pending draft are ignored.
func (r *Router) handleFreeForm(ctx context.Context, chatID int64, text string) {
	draft := r.getDraft(chatID)
	if draft == nil {
		return
	}

	switch draft.stage {
	case draftText:
		draft.text = strings.TrimSpace(text)
		if draft.text == "" {
			r.replyWithKeyboard(chatID, askNoteTextText, cancelNoteKeyboard())
			return
		}
		draft.stage = draftLesson
		lessons, err := r.store.GetLessons(ctx, r.group, nil)
		if err != nil {
			r.log.Error("lessons failed", zap.Error(err))
			r.clearDraft(chatID)
			r.reply(chatID, oopsText)
			return
		}
		r.replyWithKeyboard(chatID, askNoteLessonText, noteLessonsKeyboard(lessons))

	case draftDate:
		date, err := r.cal.ParseDate(strings.TrimSpace(text))
		if err != nil {
			// Keep the draft so the date can be retyped.
			r.replyWithKeyboard(chatID, badNoteDateText, cancelNoteKeyboard())
			return
		}
		id, err := r.store.AddNote(ctx, chatID, draft.lessonID, draft.text, date.Unix())
		r.clearDraft(chatID)
		if err != nil {
			r.log.Error("add note failed", zap.Error(err))
			r.reply(chatID, oopsText)
			return
		}
		r.reply(chatID, fmt.Sprintf("✅ <b>Заметка №%d успешно добавлена!</b>", id))
	}
}
