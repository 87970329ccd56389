package telegram

import (
	"context"
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/MeldyTheCoder/GeroinichBot/internal/store"
)

// notesPerPage is the page size of the notes menu.
const notesPerPage = 10

func mustCallback(d callbackData) string {
	b, err := json.Marshal(d)
	if err != nil {
		panic(err) // static payloads only
	}
	return string(b)
}

func cancelNoteKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↪️ Отмена", mustCallback(callbackData{Action: "cancel_note"})),
		),
	)
}

// noteLessonsKeyboard lists lessons to attach the new note to, one per row.
func noteLessonsKeyboard(lessons []store.Lesson) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(lessons)+1)
	for _, l := range lessons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔹 "+l.Name, mustCallback(callbackData{Action: "lesson_note", ID: l.ID})),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("↪️ Отмена", mustCallback(callbackData{Action: "cancel_note"})),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// noteMenuKeyboard offers actions on a single note.
func noteMenuKeyboard(noteID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", mustCallback(callbackData{Action: "delete_note", ID: noteID})),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↪️ Назад", mustCallback(callbackData{Action: "view_notes"})),
		),
	)
}

// notesMenuKeyboard renders one page of the chat's notes with
// navigation buttons. Button captions resolve each note's lesson name.
func (r *Router) notesMenuKeyboard(ctx context.Context, notes []store.Note, page int) tgbotapi.InlineKeyboardMarkup {
	from := page * notesPerPage
	if from > len(notes) {
		from = len(notes)
	}
	to := from + notesPerPage
	if to > len(notes) {
		to = len(notes)
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, to-from+1)
	for _, n := range notes[from:to] {
		name := "??"
		if lesson, ok, err := r.store.GetLesson(ctx, n.LessonID); err == nil && ok {
			name = lesson.Name
		}
		caption := fmt.Sprintf("%s до %s", name, r.cal.FormatTimestamp(n.TimeEnd))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(caption, mustCallback(callbackData{Action: "view_note", ID: n.ID})),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("⬅️ %d", page),
			mustCallback(callbackData{Action: "view_notes", Page: page - 1}),
		))
	}
	if to < len(notes) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("➡️ %d", page+2),
			mustCallback(callbackData{Action: "view_notes", Page: page + 1}),
		))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
