package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xodimov/relaybot/internal/store"
	"github.com/xodimov/relaybot/internal/textutil"
)

// historyLimit caps how many recent messages the history callback shows.
const historyLimit = 10

// NewCallbackHandler returns the handler for the inline keyboard actions
// attached to forwarded messages: reply_<id>, user_<id>, block_<id>, and
// unblock_<id>.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.Handle
}

type callbackHandler struct {
	deps HandlerDeps
}

func (h callbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "callback")

	q := update.CallbackQuery
	if q == nil {
		return
	}

	if q.From.ID != h.deps.Config.Telegram.AdminID {
		log.WarnContext(ctx, "Callback from non-admin user", "user_id", q.From.ID, "data", q.Data)
		h.answer(ctx, b, log, q.ID, h.deps.Config.Messages.NotAuthorized)
		return
	}

	idx := strings.LastIndex(q.Data, "_")
	if idx < 0 {
		h.answer(ctx, b, log, q.ID, "")
		return
	}
	action := q.Data[:idx]
	userID, err := strconv.ParseInt(q.Data[idx+1:], 10, 64)
	if err != nil {
		log.WarnContext(ctx, "Malformed callback data", "data", q.Data)
		h.answer(ctx, b, log, q.ID, "")
		return
	}

	adminChat := q.From.ID

	switch action {
	case "reply":
		h.deps.Targets.Set(q.From.ID, userID)
		log.InfoContext(ctx, "Armed reply mode via callback", "target_user_id", userID)
		h.answer(ctx, b, log, q.ID, "Reply mode armed")
		h.sendText(ctx, b, log, adminChat, h.deps.Config.Messages.AdminReplyHint)

	case "user":
		h.answer(ctx, b, log, q.ID, "")
		h.showHistory(ctx, b, log, adminChat, userID)

	case "block":
		if err := h.deps.Store.SetBlocked(userID, true); err != nil {
			log.ErrorContext(ctx, "Failed to block user via callback", "error", err, "target_user_id", userID)
			h.answer(ctx, b, log, q.ID, h.deps.Config.Messages.UserNotFound)
			return
		}
		log.InfoContext(ctx, "Blocked user via callback", "target_user_id", userID)
		h.answer(ctx, b, log, q.ID, "User blocked")
		h.sendText(ctx, b, log, adminChat, fmt.Sprintf("🚫 User %d blocked.", userID))

	case "unblock":
		if err := h.deps.Store.SetBlocked(userID, false); err != nil {
			log.ErrorContext(ctx, "Failed to unblock user via callback", "error", err, "target_user_id", userID)
			h.answer(ctx, b, log, q.ID, h.deps.Config.Messages.UserNotFound)
			return
		}
		log.InfoContext(ctx, "Unblocked user via callback", "target_user_id", userID)
		h.answer(ctx, b, log, q.ID, "User unblocked")
		h.sendText(ctx, b, log, adminChat, fmt.Sprintf("✅ User %d unblocked.", userID))

	default:
		log.WarnContext(ctx, "Unknown callback action", "data", q.Data)
		h.answer(ctx, b, log, q.ID, "")
	}
}

// showHistory sends the last few messages of a conversation to the admin.
func (h callbackHandler) showHistory(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID, userID int64) {
	rec, ok := h.deps.Store.User(userID)
	if !ok {
		h.sendText(ctx, b, log, chatID, h.deps.Config.Messages.UserNotFound)
		return
	}

	messages := rec.Messages
	if len(messages) > historyLimit {
		messages = messages[len(messages)-historyLimit:]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📜 <b>%s</b> (<code>%d</code>)", textutil.EscapeHTML(rec.Info.DisplayName()), userID))
	if rec.Info.IsBlocked {
		sb.WriteString(" — " + h.deps.Config.Messages.UserBlocked)
	}
	sb.WriteString(fmt.Sprintf("\nShowing last %d of %d messages\n\n", len(messages), rec.Stats.TotalMessages))

	for _, msg := range messages {
		arrow := "👤"
		if msg.Direction == store.DirectionAdmin {
			arrow = "👨‍💼"
		}
		sb.WriteString(fmt.Sprintf("%s [%s]\n%s\n\n", arrow, msg.Timestamp, textutil.EscapeHTML(msg.Text)))
	}

	sendLongMessage(ctx, b, log, chatID, sb.String())
}

func (h callbackHandler) answer(ctx context.Context, b *bot.Bot, log *slog.Logger, queryID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to answer callback query", "error", err)
	}
}

func (h callbackHandler) sendText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send callback response", "error", err, "chat_id", chatID)
	}
}
