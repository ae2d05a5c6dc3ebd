package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sybersc/cyberbot/internal/chat"
)

// NewMessageHandler returns the default handler for updates that match no
// registered command. It dispatches private text and photo messages
// through the conversation pipeline and group messages through the group
// handler.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	h := messageHandler{deps: deps, group: groupHandler{deps}}
	return h.Handle
}

type messageHandler struct {
	deps  HandlerDeps
	group groupHandler
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message

	switch msg.Chat.Type {
	case models.ChatTypeGroup, models.ChatTypeSupergroup:
		h.group.Handle(ctx, b, msg)
		return
	case models.ChatTypePrivate:
	default:
		return
	}

	user := chat.User{
		ID:        msg.From.ID,
		Username:  msg.From.Username,
		FirstName: msg.From.FirstName,
	}

	if len(msg.Photo) > 0 {
		h.handlePhoto(ctx, b, msg, user)
		return
	}
	if msg.Text == "" {
		return
	}

	res := h.deps.Router.HandleText(ctx, user, msg.Text)
	h.deliver(ctx, b, msg.Chat.ID, user.ID, res)
}

func (h messageHandler) handlePhoto(ctx context.Context, b *bot.Bot, msg *models.Message, user chat.User) {
	log := h.deps.Logger.With("handler", "photo")
	msgs := h.deps.Config.Telegram.Messages

	processing, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   msgs.ProcessingImage,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send processing message", "error", err, "chat_id", msg.Chat.ID)
	}

	// Telegram orders photo sizes ascending, take the largest.
	fileID := msg.Photo[len(msg.Photo)-1].FileID
	data, mimeType, err := DownloadPhoto(ctx, b, h.deps.Config.Telegram.Token, fileID)

	var res chat.Result
	if err != nil {
		log.ErrorContext(ctx, "Failed to download photo", "error", err, "chat_id", msg.Chat.ID)
		res = chat.Result{Outcome: chat.OutcomeError, Text: msgs.NetworkError + msgs.Signature}
	} else {
		res = h.deps.Router.HandlePhoto(ctx, user, msg.Caption, mimeType, data)
	}

	if processing != nil {
		_, _ = b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: msg.Chat.ID, MessageID: processing.ID})
	}
	h.deliver(ctx, b, msg.Chat.ID, user.ID, res)
}

// deliver sends the pipeline result with the markup its outcome calls
// for, and commits the assistant turn once an AI reply is actually on
// the wire.
func (h messageHandler) deliver(ctx context.Context, b *bot.Bot, chatID, userID int64, res chat.Result) {
	log := h.deps.Logger.With("handler", "message")

	params := &bot.SendMessageParams{ChatID: chatID, Text: res.Text}

	switch res.Outcome {
	case chat.OutcomeReply:
		params.ParseMode = models.ParseModeHTML
		params.ReplyMarkup = baseKeyboard(h.deps)
	case chat.OutcomeJoinPrompt:
		params.ReplyMarkup = joinKeyboard(h.deps)
	case chat.OutcomeQuotaExceeded:
		params.ReplyMarkup = quotaKeyboard(h.deps)
	case chat.OutcomeReset:
		params.ReplyMarkup = baseKeyboard(h.deps)
	}

	sent, err := b.SendMessage(ctx, params)
	if err != nil && res.Outcome == chat.OutcomeReply {
		// HTML from model output can be rejected, retry as plain text.
		log.WarnContext(ctx, "HTML reply rejected, retrying as plain text", "error", err, "chat_id", chatID)
		params.ParseMode = ""
		sent, err = b.SendMessage(ctx, params)
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
		return
	}

	if res.Outcome == chat.OutcomeReply {
		h.deps.Router.CommitAssistant(userID, res.Answer)
		log.DebugContext(ctx, "Reply delivered", "chat_id", chatID, "message_id", sent.ID)
	}
}
