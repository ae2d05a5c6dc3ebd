package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewPremiumHandler returns a handler for /premium (grant=true) or
// /unpremium (grant=false). The command takes one numeric user id
// argument. Premium users bypass the daily image quota.
func NewPremiumHandler(deps HandlerDeps, grant bool) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		log := deps.Logger.With("handler", "premium")
		chatID := update.Message.Chat.ID

		userID, ok := commandIDArg(update.Message.Text)
		if !ok {
			usage := "الاستخدام: /premium <آيدي المستخدم>"
			if !grant {
				usage = "الاستخدام: /unpremium <آيدي المستخدم>"
			}
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: usage})
			return
		}

		var changed bool
		var err error
		if grant {
			changed, err = deps.Store.AddPremium(userID)
		} else {
			changed, err = deps.Store.RemovePremium(userID)
		}
		if err != nil {
			log.ErrorContext(ctx, "Failed to update premium state", "error", err, "target_id", userID, "grant", grant)
			_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Telegram.Messages.GeneralError})
			return
		}

		var text string
		switch {
		case grant && changed:
			text = fmt.Sprintf("⭐️ تمت ترقية المستخدم %d للعضوية المميزة", userID)
		case grant && !changed:
			text = fmt.Sprintf("المستخدم %d مميز بالفعل", userID)
		case !grant && changed:
			text = fmt.Sprintf("تم إلغاء العضوية المميزة للمستخدم %d", userID)
		default:
			text = fmt.Sprintf("المستخدم %d ليس عضواً مميزاً", userID)
		}
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
		log.InfoContext(ctx, "Premium state updated", "target_id", userID, "grant", grant, "changed", changed)
	}
}
