package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewAdminHandler returns a handler for the /admin command. It prints a
// summary of the bot's bookkeeping state.
func NewAdminHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		log := deps.Logger.With("handler", "admin")

		stats := deps.Store.Stats()
		text := fmt.Sprintf(
			"📊 لوحة التحكم\n\n"+
				"👥 المستخدمون: %d\n"+
				"🚫 المحظورون: %d\n"+
				"⭐️ المميزون: %d\n"+
				"👥 المجموعات: %d\n\n"+
				"💬 إجمالي الرسائل: %d\n"+
				"🖼 إجمالي الصور: %d",
			deps.Store.TotalUsers(),
			len(deps.Store.BannedUserIDs()),
			premiumCount(deps),
			len(deps.Store.ListGroups()),
			stats.TotalMessages,
			stats.TotalImages,
		)

		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   text,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send admin summary", "error", err)
		}
	}
}

func premiumCount(deps HandlerDeps) int {
	n := 0
	for _, id := range deps.Store.ListUserIDs() {
		if deps.Store.IsPremium(id) {
			n++
		}
	}
	return n
}
