package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xodimov/relaybot/internal/textutil"
)

// searchLimit caps how many matches a single /search reports.
const searchLimit = 20

// NewSearchHandler returns a handler for the /search command.
func NewSearchHandler(deps HandlerDeps) bot.HandlerFunc {
	return searchHandler{deps}.Handle
}

type searchHandler struct {
	deps HandlerDeps
}

func (h searchHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "search")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.SplitN(strings.TrimSpace(update.Message.Text), " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "Usage: /search <query>"})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send search usage", "error", err)
		}
		return
	}
	query := strings.TrimSpace(parts[1])

	results := h.deps.Reports.Search(query, searchLimit)
	if len(results) == 0 {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.NoSearchResults})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send no-results message", "error", err)
		}
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 <b>Results for</b> %q (%d)\n\n", textutil.EscapeHTML(query), len(results)))
	for _, res := range results {
		who := textutil.EscapeHTML(res.Name)
		if res.Username != "" {
			who += " @" + textutil.EscapeHTML(res.Username)
		}
		sb.WriteString(fmt.Sprintf("<b>%s</b> (<code>%s</code>) at %s:\n%s\n\n",
			who, res.UserID, res.Message.Timestamp, textutil.EscapeHTML(res.Message.Text)))
	}

	log.InfoContext(ctx, "Search served", "query", query, "matches", len(results))
	sendLongMessage(ctx, b, log, chatID, sb.String())
}
