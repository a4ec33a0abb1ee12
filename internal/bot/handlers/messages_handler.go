package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xodimov/relaybot/internal/store"
	"github.com/xodimov/relaybot/internal/textutil"
)

// NewMessagesHandler returns a handler for the /messages command. It lists
// every conversation with an unread marker, sorted by most recent activity.
func NewMessagesHandler(deps HandlerDeps) bot.HandlerFunc {
	return messagesHandler{deps}.Handle
}

type messagesHandler struct {
	deps HandlerDeps
}

func (h messagesHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "messages")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	snapshot := h.deps.Store.Snapshot()
	if len(snapshot) == 0 {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.NoMessages})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send empty-store message", "error", err)
		}
		return
	}

	type conv struct {
		key string
		rec *store.UserRecord
	}
	convs := make([]conv, 0, len(snapshot))
	for key, rec := range snapshot {
		convs = append(convs, conv{key, rec})
	}
	// The timestamp layout sorts lexically, newest first after reversing.
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].rec.Stats.LastActivity > convs[j].rec.Stats.LastActivity
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💬 <b>Conversations</b> (%d)\n\n", len(convs)))
	for _, c := range convs {
		marker := "⚪️"
		if n := len(c.rec.Messages); n > 0 && c.rec.Messages[n-1].Direction == store.DirectionUser {
			marker = "🔴"
		}
		sb.WriteString(fmt.Sprintf("%s <b>%s</b>", marker, textutil.EscapeHTML(c.rec.Info.DisplayName())))
		if c.rec.Info.Username != "" {
			sb.WriteString(" @" + textutil.EscapeHTML(c.rec.Info.Username))
		}
		sb.WriteString(fmt.Sprintf("\n    ID: <code>%s</code> • %d messages • last %s\n",
			c.key, c.rec.Stats.TotalMessages, c.rec.Stats.LastActivity))
	}

	log.InfoContext(ctx, "Listing conversations", "count", len(convs))
	sendLongMessage(ctx, b, log, chatID, sb.String())
}
