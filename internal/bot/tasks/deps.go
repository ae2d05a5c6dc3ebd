// Package tasks implements scheduled tasks for the CyberBot Telegram bot.
// It includes task definitions, dependencies, and registration mechanisms.
package tasks

import (
	"log/slog"

	"github.com/sybersc/cyberbot/internal/chat"
	"github.com/sybersc/cyberbot/internal/config"
	"github.com/sybersc/cyberbot/internal/store"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Store    store.Store
	ReplyLog *chat.ReplyLog
	Config   *config.Config
}
