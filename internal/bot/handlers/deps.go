package handlers

import (
	"log/slog"

	"github.com/xodimov/relaybot/internal/config"
	"github.com/xodimov/relaybot/internal/report"
	"github.com/xodimov/relaybot/internal/session"
	"github.com/xodimov/relaybot/internal/store"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Store   store.Store
	Reports *report.Engine
	Targets *session.Targets
}
