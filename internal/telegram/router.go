package telegram

import (
	"context"
	"encoding/json"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/MeldyTheCoder/GeroinichBot/internal/academic"
	"github.com/MeldyTheCoder/GeroinichBot/internal/store"
)

// Stages of the add-note conversation.
type draftStage int

const (
	draftText draftStage = iota + 1
	draftLesson
	draftDate
)

// noteDraft holds the in-progress note of one chat.
type noteDraft struct {
	stage    draftStage
	text     string
	lessonID int64
}

// callbackData is the JSON payload carried by inline keyboard buttons.
type callbackData struct {
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// Router wires Telegram updates to handlers and holds the in-memory
// add-note drafts.
type Router struct {
	bot    *tgbotapi.BotAPI
	log    *zap.Logger
	store  *store.Store
	cal    *academic.Calendar
	group  int
	drafts map[int64]*noteDraft
	mu     sync.Mutex
}

// NewRouter creates a new Telegram router. group is the default
// lesson-group filter for schedule commands.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, st *store.Store, cal *academic.Calendar, group int) *Router {
	return &Router{
		bot:    bot,
		log:    log,
		store:  st,
		cal:    cal,
		group:  group,
		drafts: make(map[int64]*noteDraft),
	}
}

func (r *Router) setDraft(chatID int64, d *noteDraft) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[chatID] = d
}

func (r *Router) getDraft(chatID int64) *noteDraft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drafts[chatID]
}

func (r *Router) clearDraft(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
// The bot only serves group chats, as before.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		if msg.Chat == nil || msg.Chat.IsPrivate() {
			return
		}
		chatID := msg.Chat.ID

		switch msg.Command() {
		case "start":
			r.handleStart(ctx, chatID)
		case "help":
			r.handleHelp(chatID)
		case "random":
			r.handleRandom(chatID, msg.CommandArguments())
		case "notes":
			r.handleNotes(ctx, chatID)
		case "add_note":
			r.handleAddNote(chatID)
		case "daily":
			r.handleDaily(ctx, chatID)
		case "week":
			r.handleWeek(ctx, chatID)
		case "vote":
			r.handleVote(ctx, chatID)
		case "peer":
			r.handlePeer(chatID)
		default:
			r.handleFreeForm(ctx, chatID, msg.Text)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil || cb.Message.Chat == nil || cb.Message.Chat.IsPrivate() {
			return
		}
		var data callbackData
		if err := json.Unmarshal([]byte(cb.Data), &data); err != nil {
			r.log.Warn("bad callback payload", zap.String("data", cb.Data))
			return
		}
		_, _ = r.bot.Request(tgbotapi.NewCallback(cb.ID, ""))

		chatID := cb.Message.Chat.ID
		messageID := cb.Message.MessageID

		switch data.Action {
		case "view_notes":
			r.handleViewNotes(ctx, chatID, messageID, data.Page)
		case "view_note":
			r.handleViewNote(ctx, chatID, messageID, data.ID)
		case "delete_note":
			r.handleDeleteNote(ctx, chatID, messageID, data.ID)
		case "lesson_note":
			r.handleChooseLesson(ctx, chatID, messageID, data.ID)
		case "cancel_note":
			r.handleCancelNote(chatID, messageID)
		default:
			// Unknown callback — ignore silently.
		}
	}
}

// SendMessage sends an HTML-formatted message to the given chat.
// This makes Router satisfy sweeper.Messenger.
func (r *Router) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := r.bot.Send(msg)
	return err
}
