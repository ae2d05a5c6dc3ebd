package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewBanHandler returns a handler for /ban (ban=true) or /unban
// (ban=false). The command takes one numeric user id argument.
func NewBanHandler(deps HandlerDeps, ban bool) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		log := deps.Logger.With("handler", "ban")
		chatID := update.Message.Chat.ID

		userID, ok := commandIDArg(update.Message.Text)
		if !ok {
			usage := "الاستخدام: /ban <آيدي المستخدم>"
			if !ban {
				usage = "الاستخدام: /unban <آيدي المستخدم>"
			}
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: usage})
			return
		}

		var changed bool
		var err error
		if ban {
			changed, err = deps.Store.BanUser(userID)
		} else {
			changed, err = deps.Store.UnbanUser(userID)
		}
		if err != nil {
			log.ErrorContext(ctx, "Failed to update ban state", "error", err, "target_id", userID, "ban", ban)
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Telegram.Messages.GeneralError})
			return
		}

		var text string
		switch {
		case ban && changed:
			text = fmt.Sprintf("🚫 تم حظر المستخدم %d", userID)
		case ban && !changed:
			text = fmt.Sprintf("المستخدم %d محظور بالفعل", userID)
		case !ban && changed:
			text = fmt.Sprintf("✅ تم إلغاء حظر المستخدم %d", userID)
		default:
			text = fmt.Sprintf("المستخدم %d غير محظور", userID)
		}
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
		log.InfoContext(ctx, "Ban state updated", "target_id", userID, "ban", ban, "changed", changed)
	}
}

// commandIDArg extracts a single int64 argument from a command message.
func commandIDArg(text string) (int64, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
