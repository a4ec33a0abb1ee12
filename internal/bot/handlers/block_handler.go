package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xodimov/relaybot/internal/store"
)

// NewBlockHandler returns a handler for /block (block=true) or /unblock
// (block=false).
func NewBlockHandler(deps HandlerDeps, block bool) bot.HandlerFunc {
	return blockHandler{deps, block}.Handle
}

type blockHandler struct {
	deps  HandlerDeps
	block bool
}

func (h blockHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	command := "unblock"
	if h.block {
		command = "block"
	}
	log := h.deps.Logger.With("handler", command)

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.send(ctx, b, log, chatID, fmt.Sprintf("Usage: /%s <user_id>", command))
		return
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.send(ctx, b, log, chatID, fmt.Sprintf("Usage: /%s <user_id>", command))
		return
	}

	if err := h.deps.Store.SetBlocked(userID, h.block); err != nil {
		if errors.Is(err, store.ErrUnknownUser) {
			h.send(ctx, b, log, chatID, h.deps.Config.Messages.UserNotFound)
			return
		}
		log.ErrorContext(ctx, "Failed to update block flag", "error", err, "target_user_id", userID)
		h.send(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Updated block flag", "target_user_id", userID, "blocked", h.block)
	if h.block {
		h.send(ctx, b, log, chatID, fmt.Sprintf("🚫 User %d blocked.", userID))
	} else {
		h.send(ctx, b, log, chatID, fmt.Sprintf("✅ User %d unblocked.", userID))
	}
}

func (h blockHandler) send(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send block-command response", "error", err, "chat_id", chatID)
	}
}
