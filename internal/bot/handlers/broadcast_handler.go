package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewBroadcastHandler returns a handler for /broadcast. The rest of the
// message is delivered to every registered user and group.
func NewBroadcastHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		log := deps.Logger.With("handler", "broadcast")
		chatID := update.Message.Chat.ID

		parts := strings.SplitN(update.Message.Text, " ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "الاستخدام: /broadcast <نص الرسالة>",
			})
			return
		}
		text := strings.TrimSpace(parts[1])

		sent, failed := 0, 0
		for _, target := range deps.Store.ListUserIDs() {
			if ctx.Err() != nil {
				log.WarnContext(ctx, "Broadcast interrupted", "sent", sent, "failed", failed)
				return
			}
			_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: target, Text: text})
			if err != nil {
				failed++
				log.DebugContext(ctx, "Broadcast delivery failed", "error", err, "target", target)
				continue
			}
			sent++
		}

		// A group that rejects the delivery (bot kicked, chat deleted) is
		// dropped from the registry.
		for _, g := range deps.Store.ListGroups() {
			if ctx.Err() != nil {
				log.WarnContext(ctx, "Broadcast interrupted", "sent", sent, "failed", failed)
				return
			}
			_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: g.ChatID, Text: text})
			if err != nil {
				failed++
				log.InfoContext(ctx, "Broadcast to group failed, removing group", "error", err, "chat_id", g.ChatID, "title", g.Title)
				if _, rmErr := deps.Store.RemoveGroup(g.ChatID); rmErr != nil {
					log.ErrorContext(ctx, "Failed to remove unreachable group", "error", rmErr, "chat_id", g.ChatID)
				}
				continue
			}
			sent++
		}

		report := fmt.Sprintf("📣 اكتمل البث\n\n✅ تم الإرسال: %d\n❌ فشل: %d", sent, failed)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: report})
		log.InfoContext(ctx, "Broadcast completed", "sent", sent, "failed", failed)
	}
}
