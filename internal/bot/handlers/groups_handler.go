package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sybersc/cyberbot/internal/store"
)

// NewGroupsHandler returns a handler for /groups. It lists every group
// the bot is registered in.
func NewGroupsHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		sendGroupList(ctx, b, deps, update.Message.Chat.ID, "👥 المجموعات المسجلة", deps.Store.ListGroups())
	}
}

// NewFindGroupHandler returns a handler for /findgroup. It searches
// groups by title or chat id substring.
func NewFindGroupHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		chatID := update.Message.Chat.ID

		parts := strings.SplitN(update.Message.Text, " ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "الاستخدام: /findgroup <اسم المجموعة أو معرفها>",
			})
			return
		}

		query := strings.TrimSpace(parts[1])
		results := deps.Store.SearchGroups(query)
		sendGroupList(ctx, b, deps, chatID, fmt.Sprintf("🔍 نتائج البحث عن %q", query), results)
	}
}

// NewPruneGroupsHandler returns a handler for /prunegroups. It removes
// every group that never produced a handled message.
func NewPruneGroupsHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		log := deps.Logger.With("handler", "prune_groups")
		chatID := update.Message.Chat.ID

		removed, err := deps.Store.PruneInactiveGroups()
		if err != nil {
			log.ErrorContext(ctx, "Failed to prune groups", "error", err)
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Telegram.Messages.GeneralError})
			return
		}

		if len(removed) == 0 {
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "✨ لا توجد مجموعات غير نشطة للحذف!"})
			return
		}
		sendGroupList(ctx, b, deps, chatID, fmt.Sprintf("🗑 تم حذف %d مجموعة غير نشطة", len(removed)), removed)
	}
}

func sendGroupList(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, header string, groups []store.GroupInfo) {
	log := deps.Logger.With("handler", "groups")

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")

	if len(groups) == 0 {
		sb.WriteString("لا توجد مجموعات.")
	}
	for i, g := range groups {
		title := g.Title
		if title == "" {
			title = "مجموعة غير معروفة"
		}
		days := int(time.Since(g.JoinDate).Hours() / 24)
		fmt.Fprintf(&sb, "%d. %s\n   📱 المعرف: %d\n   💬 الرسائل: %d\n   ⏰ مضى على الانضمام: %d يوم\n\n",
			i+1, title, g.ChatID, g.MessageCount, days)
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: sb.String()})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send group list", "error", err)
	}
}
