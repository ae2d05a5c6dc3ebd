package handlers

import (
	"log/slog"

	"github.com/sybersc/cyberbot/internal/chat"
	"github.com/sybersc/cyberbot/internal/config"
	"github.com/sybersc/cyberbot/internal/gemini"
	"github.com/sybersc/cyberbot/internal/store"
)

// HandlerDeps provides dependencies for Telegram command and message handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        store.Store
	GeminiClient gemini.Client
	Router       *chat.Router
	ReplyLog     *chat.ReplyLog
	Membership   chat.Membership
}
