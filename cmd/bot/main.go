// Package main contains the entrypoint for the Telegram bot application.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sybersc/cyberbot/internal/bot"
	"github.com/sybersc/cyberbot/internal/bot/handlers"
	"github.com/sybersc/cyberbot/internal/bot/tasks"
	"github.com/sybersc/cyberbot/internal/chat"
	"github.com/sybersc/cyberbot/internal/config"
	"github.com/sybersc/cyberbot/internal/gemini"
	"github.com/sybersc/cyberbot/internal/logger"
	"github.com/sybersc/cyberbot/internal/store"
	"github.com/sybersc/cyberbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger,
// store, AI client, bot, scheduler), handles graceful shutdown, and
// returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	st, err := store.New(cfg.Store.Path, log)
	if err != nil {
		log.Error("Failed to open state store", "path", cfg.Store.Path, "error", err)
		return 1
	}

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	sessions := chat.NewSessions()
	replyLog := chat.NewReplyLog()

	hDeps := handlers.HandlerDeps{
		Logger:       log,
		Config:       cfg,
		Store:        st,
		GeminiClient: gemClient,
		ReplyLog:     replyLog,
	}

	// The router needs the membership checker, which needs the bot
	// instance, so the default handler resolves its dependencies at
	// call time rather than at registration time.
	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log), handlers.Recover(hDeps)),
		tgbot.WithDefaultHandler(func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			handlers.NewMessageHandler(hDeps)(ctx, b, update)
		}),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	membership := telegram.NewChannelMembership(tg, cfg.Telegram.ChannelHandle, log)
	hDeps.Membership = membership
	hDeps.Router = chat.NewRouter(
		st,
		gemClient,
		membership,
		sessions,
		routerTexts(cfg),
		time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second,
		log,
	)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger:   log,
		Store:    st,
		ReplyLog: replyLog,
		Config:   cfg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, cfg, st, gemClient, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}

// routerTexts maps configured messages onto the pipeline's text set.
func routerTexts(cfg *config.Config) chat.Texts {
	msgs := cfg.Telegram.Messages
	return chat.Texts{
		JoinPrompt:         msgs.JoinPrompt,
		Banned:             msgs.Banned,
		HistoryReset:       msgs.HistoryReset,
		ResetButton:        msgs.ResetButton,
		QuotaExceeded:      msgs.QuotaExceeded,
		NetworkError:       msgs.NetworkError,
		GeneralError:       msgs.GeneralError,
		DefaultImagePrompt: msgs.DefaultImagePrompt,
		ImagePromptSuffix:  msgs.ImagePromptSuffix,
		Signature:          msgs.Signature,
	}
}
