package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	subscriptionOKAnswer   = "✅ شكراً لك! يمكنك الآن استخدام البوت"
	subscriptionOKText     = "تم التحقق من اشتراكك بنجاح! يمكنك الآن استخدام البوت ✅"
	subscriptionFailAnswer = "❌ عذراً، يجب عليك الاشتراك في القناة أولاً!"
)

// NewSubscriptionCallbackHandler returns the handler for the verification
// button under the join prompt.
func NewSubscriptionCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "subscription_callback")

		cq := update.CallbackQuery
		if cq == nil {
			return
		}
		userID := cq.From.ID

		member, err := deps.Membership.IsChannelMember(ctx, userID)
		if err != nil {
			log.WarnContext(ctx, "Subscription check failed", "error", err, "user_id", userID)
			member = false
		}

		if !member {
			_, _ = b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
				CallbackQueryID: cq.ID,
				Text:            subscriptionFailAnswer,
				ShowAlert:       true,
			})
			return
		}

		_, _ = b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: cq.ID,
			Text:            subscriptionOKAnswer,
		})

		if cq.Message.Message != nil {
			msg := cq.Message.Message
			_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
				ChatID:    msg.Chat.ID,
				MessageID: msg.ID,
				Text:      subscriptionOKText,
			})
			if err != nil {
				log.WarnContext(ctx, "Failed to edit join prompt", "error", err, "user_id", userID)
			}
		}
	}
}
