package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xodimov/relaybot/internal/textutil"
)

// sendLongMessage sends text to chatID, splitting it into multiple messages
// when it exceeds Telegram's length limit. Chunks are sent in order; the
// first send error aborts the rest.
func sendLongMessage(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	for _, chunk := range textutil.SplitMessage(text, textutil.MaxMessageLength) {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      chunk,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send message chunk", "error", err, "chat_id", chatID)
			return
		}
	}
}
