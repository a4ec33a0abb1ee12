package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xodimov/relaybot/internal/textutil"
)

// NewStatsHandler returns a handler for the /stats command.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	stats := h.deps.Reports.Stats()

	var sb strings.Builder
	sb.WriteString("📊 <b>Statistics</b>\n\n")
	sb.WriteString(fmt.Sprintf("👥 Users: %d\n", stats.TotalUsers))
	sb.WriteString(fmt.Sprintf("✉️ Messages: %d\n", stats.TotalMessages))
	sb.WriteString(fmt.Sprintf("🔴 Unread conversations: %d\n", stats.Unread))
	sb.WriteString(fmt.Sprintf("🟢 Active in last 24h: %d\n", stats.ActiveUsers))

	if len(stats.TopUsers) > 0 {
		sb.WriteString("\n🏆 <b>Most active</b>\n")
		for i, top := range stats.TopUsers {
			sb.WriteString(fmt.Sprintf("%d. %s — %d messages\n",
				i+1, textutil.EscapeHTML(top.Name), top.Messages))
		}
	}

	log.InfoContext(ctx, "Sending statistics", "users", stats.TotalUsers, "messages", stats.TotalMessages)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      sb.String(),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send statistics", "error", err, "chat_id", chatID)
	}
}
