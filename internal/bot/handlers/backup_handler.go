package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewBackupHandler returns a handler for the /backup command. It writes a
// timestamped copy of the data file into the configured backup directory.
func NewBackupHandler(deps HandlerDeps) bot.HandlerFunc {
	return backupHandler{deps}.Handle
}

type backupHandler struct {
	deps HandlerDeps
}

func (h backupHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "backup")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	path, err := h.deps.Store.Backup("")
	if err != nil {
		log.ErrorContext(ctx, "Manual backup failed", "error", err)
		_, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.BackupFailed})
		if sendErr != nil {
			log.ErrorContext(ctx, "Failed to send backup failure message", "error", sendErr)
		}
		return
	}

	log.InfoContext(ctx, "Manual backup created", "path", path)
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   h.deps.Config.Messages.BackupCreated + "\n" + path,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send backup confirmation", "error", err)
	}
}
