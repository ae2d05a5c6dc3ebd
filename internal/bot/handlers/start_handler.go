package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler processes the /start command using injected dependencies.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", from.ID)

	if from.ID == h.deps.Config.Telegram.AdminID {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("Your numeric ID is: %d", from.ID),
		})
	}

	created, err := h.deps.Store.AddUser(from.ID, from.Username, from.FirstName)
	if err != nil {
		log.ErrorContext(ctx, "Failed to register user", "error", err, "user_id", from.ID)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Telegram.Messages.GeneralError,
		})
		return
	}
	if created {
		h.notifyAdmin(ctx, b, from)
	}

	if h.deps.Store.IsBanned(from.ID) {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Config.Telegram.Messages.Banned,
		})
		return
	}

	h.deps.Router.ResetWindow(from.ID)

	msgs := h.deps.Config.Telegram.Messages
	welcome := fmt.Sprintf(msgs.Welcome, from.FirstName) + msgs.Signature
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        welcome,
		ReplyMarkup: baseKeyboard(h.deps),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send welcome message", "error", err, "chat_id", chatID)
	}
}

// notifyAdmin tells the admin a new user joined. Delivery failures are
// logged and otherwise ignored.
func (h startHandler) notifyAdmin(ctx context.Context, b *bot.Bot, from *models.User) {
	username := "لا يوجد"
	if from.Username != "" {
		username = from.Username
	}
	text := fmt.Sprintf("🔔 مستخدم جديد انضم للبوت:\nالاسم: %s\nالمعرف: @%s\nالآيدي: %d",
		from.FirstName, username, from.ID)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: h.deps.Config.Telegram.AdminID,
		Text:   text,
	})
	if err != nil {
		h.deps.Logger.WarnContext(ctx, "Failed to send new user notification", "error", err, "user_id", from.ID)
	}
}
