package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewReplyHandler returns a handler for the /reply command.
//
// "/reply <user_id> <text>" sends text to the user immediately.
// "/reply <user_id>" arms reply mode: the admin's next free-form message
// (text or media) is relayed to that user.
func NewReplyHandler(deps HandlerDeps) bot.HandlerFunc {
	return replyHandler{deps}.Handle
}

type replyHandler struct {
	deps HandlerDeps
}

func (h replyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reply")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	msgs := h.deps.Config.Messages

	parts := strings.SplitN(strings.TrimSpace(update.Message.Text), " ", 3)
	if len(parts) < 2 {
		h.send(ctx, b, chatID, msgs.ReplyUsage)
		return
	}

	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.send(ctx, b, chatID, msgs.ReplyUsage)
		return
	}

	rec, ok := h.deps.Store.User(userID)
	if !ok {
		h.send(ctx, b, chatID, msgs.UserNotFound)
		return
	}

	if len(parts) == 2 {
		h.deps.Targets.Set(update.Message.From.ID, userID)
		log.InfoContext(ctx, "Armed reply mode", "target_user_id", userID)
		h.send(ctx, b, chatID, msgs.AdminReplyHint)
		return
	}

	text := strings.TrimSpace(parts[2])
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: userID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to deliver reply", "error", err, "target_user_id", userID)
		h.send(ctx, b, chatID, msgs.ReplyFailed)
		return
	}

	if err := h.deps.Store.AppendAdminReply(userID, text); err != nil {
		log.ErrorContext(ctx, "Failed to record reply", "error", err, "target_user_id", userID)
	}

	log.InfoContext(ctx, "Reply delivered", "target_user_id", userID, "user", rec.Info.DisplayName())
	h.send(ctx, b, chatID, msgs.ReplySent)
}

func (h replyHandler) send(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send reply-command response", "error", err, "chat_id", chatID)
	}
}
