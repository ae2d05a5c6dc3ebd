package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sybersc/cyberbot/internal/chat"
	"github.com/sybersc/cyberbot/internal/markup"
	"github.com/sybersc/cyberbot/internal/store"
)

const (
	groupThinkingText  = "🤔 جاري التفكير..."
	groupAnalyzingText = "🔍 جاري تحليل الصورة..."
	groupEmptyQuery    = "👋 مرحباً! يرجى كتابة سؤالك بعد كلمة %s"
	groupTextError     = "⚠️ عذراً، حدث خطأ أثناء معالجة طلبك. الرجاء المحاولة مرة أخرى."
	groupImageError    = "⚠️ عذراً، حدث خطأ في معالجة الصورة. الرجاء المحاولة مرة أخرى."
)

// groupHandler processes messages in group chats. The bot answers when a
// message starts with the configured trigger word, when a photo caption
// carries it, or when someone replies to one of the bot's own messages.
type groupHandler struct {
	deps HandlerDeps
}

func (h groupHandler) Handle(ctx context.Context, b *bot.Bot, msg *models.Message) {
	log := h.deps.Logger.With("handler", "group", "chat_id", msg.Chat.ID)

	if err := h.deps.Store.RegisterGroup(msg.Chat.ID, msg.Chat.Title); err != nil {
		log.ErrorContext(ctx, "Failed to register group", "error", err)
	}

	if len(msg.Photo) > 0 {
		h.handlePhoto(ctx, b, msg)
		return
	}
	if msg.Text == "" {
		return
	}

	trigger := strings.ToLower(h.deps.Config.Telegram.GroupTrigger)
	lowered := strings.ToLower(strings.TrimSpace(msg.Text))

	if strings.HasPrefix(lowered, trigger) {
		query := strings.TrimSpace(msg.Text[strings.Index(strings.ToLower(msg.Text), trigger)+len(trigger):])
		h.handleQuery(ctx, b, msg, query, query)
		return
	}

	if h.isReplyToBot(msg) {
		prompt := msg.Text
		if entry, ok := h.deps.ReplyLog.Lookup(msg.Chat.ID, msg.ReplyToMessage.ID); ok {
			prompt = chat.GroupPrompt(entry, msg.Text)
		}
		h.handleQuery(ctx, b, msg, prompt, msg.Text)
	}
}

func (h groupHandler) isReplyToBot(msg *models.Message) bool {
	botInfo := h.deps.Config.Telegram.BotInfo
	return msg.ReplyToMessage != nil &&
		msg.ReplyToMessage.From != nil &&
		botInfo != nil &&
		msg.ReplyToMessage.From.ID == botInfo.ID
}

// handleQuery answers a triggered group message. prompt is what goes to
// the AI, question is what the reply log records for follow-ups.
func (h groupHandler) handleQuery(ctx context.Context, b *bot.Bot, msg *models.Message, prompt, question string) {
	log := h.deps.Logger.With("handler", "group", "chat_id", msg.Chat.ID)

	if prompt == "" {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          msg.Chat.ID,
			Text:            fmt.Sprintf(groupEmptyQuery, h.deps.Config.Telegram.GroupTrigger),
			ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
		})
		return
	}

	if !h.recordContact(ctx, msg, store.ActivityText) {
		return
	}

	processing, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            groupThinkingText,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send thinking message", "error", err)
		return
	}

	aiCtx, cancel := context.WithTimeout(ctx, h.aiTimeout())
	defer cancel()
	answer, err := h.deps.GeminiClient.GenerateReply(aiCtx, []chat.Turn{{Role: chat.RoleUser, Text: prompt}})
	if err != nil {
		log.ErrorContext(ctx, "Group AI reply failed", "error", err)
		h.editText(ctx, b, msg.Chat.ID, processing.ID, groupTextError, "")
		return
	}

	final := markup.Render(answer) + h.deps.Config.Telegram.Messages.Signature
	h.editText(ctx, b, msg.Chat.ID, processing.ID, final, models.ParseModeHTML)

	h.deps.ReplyLog.Record(msg.Chat.ID, processing.ID, question, final)
	if err := h.deps.Store.TouchGroupActivity(msg.Chat.ID); err != nil {
		log.ErrorContext(ctx, "Failed to update group activity", "error", err)
	}
}

func (h groupHandler) handlePhoto(ctx context.Context, b *bot.Bot, msg *models.Message) {
	log := h.deps.Logger.With("handler", "group_photo", "chat_id", msg.Chat.ID)

	trigger := strings.ToLower(h.deps.Config.Telegram.GroupTrigger)
	caption := strings.TrimSpace(msg.Caption)
	if !strings.Contains(strings.ToLower(caption), trigger) {
		return
	}
	idx := strings.Index(strings.ToLower(caption), trigger)
	prompt := strings.TrimSpace(caption[:idx] + caption[idx+len(trigger):])
	if prompt == "" {
		prompt = h.deps.Config.Telegram.Messages.DefaultImagePrompt
	}
	prompt += h.deps.Config.Telegram.Messages.ImagePromptSuffix

	if h.deps.Store.IsBanned(msg.From.ID) {
		log.InfoContext(ctx, "Ignoring photo from banned user", "user_id", msg.From.ID)
		return
	}
	if _, err := h.deps.Store.AddUser(msg.From.ID, msg.From.Username, msg.From.FirstName); err != nil {
		log.ErrorContext(ctx, "Failed to register group user", "error", err, "user_id", msg.From.ID)
		return
	}

	if !h.deps.Store.CanSendImage(msg.From.ID) {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          msg.Chat.ID,
			Text:            h.deps.Config.Telegram.Messages.QuotaExceeded,
			ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
			ReplyMarkup:     quotaKeyboard(h.deps),
		})
		return
	}

	if err := h.deps.Store.RecordActivity(msg.From.ID, store.ActivityImage); err != nil {
		log.ErrorContext(ctx, "Failed to record group activity", "error", err, "user_id", msg.From.ID)
		return
	}

	processing, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            groupAnalyzingText,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send analyzing message", "error", err)
		return
	}

	fileID := msg.Photo[len(msg.Photo)-1].FileID
	data, mimeType, err := DownloadPhoto(ctx, b, h.deps.Config.Telegram.Token, fileID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to download group photo", "error", err)
		h.editText(ctx, b, msg.Chat.ID, processing.ID, groupImageError, "")
		return
	}

	aiCtx, cancel := context.WithTimeout(ctx, h.aiTimeout())
	defer cancel()
	answer, err := h.deps.GeminiClient.AnalyzeImage(aiCtx, prompt, mimeType, data)
	if err != nil {
		log.ErrorContext(ctx, "Group image analysis failed", "error", err)
		h.editText(ctx, b, msg.Chat.ID, processing.ID, groupImageError, "")
		return
	}

	final := markup.Render(answer) + h.deps.Config.Telegram.Messages.Signature
	h.editText(ctx, b, msg.Chat.ID, processing.ID, final, models.ParseModeHTML)

	h.deps.ReplyLog.Record(msg.Chat.ID, processing.ID, "[صورة] "+prompt, final)
	if err := h.deps.Store.TouchGroupActivity(msg.Chat.ID); err != nil {
		log.ErrorContext(ctx, "Failed to update group activity", "error", err)
	}
}

// recordContact registers the sender and records the activity, refusing
// banned users. Group chat stays quiet on refusal.
func (h groupHandler) recordContact(ctx context.Context, msg *models.Message, kind store.ActivityKind) bool {
	log := h.deps.Logger.With("handler", "group", "chat_id", msg.Chat.ID)

	if h.deps.Store.IsBanned(msg.From.ID) {
		log.InfoContext(ctx, "Ignoring message from banned user", "user_id", msg.From.ID)
		return false
	}
	if _, err := h.deps.Store.AddUser(msg.From.ID, msg.From.Username, msg.From.FirstName); err != nil {
		log.ErrorContext(ctx, "Failed to register group user", "error", err, "user_id", msg.From.ID)
		return false
	}
	if err := h.deps.Store.RecordActivity(msg.From.ID, kind); err != nil {
		log.ErrorContext(ctx, "Failed to record group activity", "error", err, "user_id", msg.From.ID)
		return false
	}
	return true
}

func (h groupHandler) aiTimeout() time.Duration {
	return time.Duration(h.deps.Config.Gemini.TimeoutSeconds) * time.Second
}

// editText swaps the placeholder message for the final text, falling back
// to plain text when Telegram rejects the HTML.
func (h groupHandler) editText(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, parseMode models.ParseMode) {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: parseMode,
	}
	_, err := b.EditMessageText(ctx, params)
	if err != nil && parseMode != "" {
		params.ParseMode = ""
		_, err = b.EditMessageText(ctx, params)
	}
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to edit group reply", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}
