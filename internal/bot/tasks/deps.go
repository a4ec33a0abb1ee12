// Package tasks contains the scheduled background tasks run by the bot.
package tasks

import (
	"log/slog"

	"github.com/xodimov/relaybot/internal/config"
	"github.com/xodimov/relaybot/internal/store"
)

// TaskDeps provides dependencies for scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  store.Store
}
