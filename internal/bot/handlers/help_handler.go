package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = `🤖 مرحباً بك في بوت Cyber!

الأوامر المتاحة:
• اكتب '%s' متبوعاً برسالتك للتحدث مع الذكاء الاصطناعي في المجموعات
• أرسل سؤالاً نصياً أو صورة في الخاص وسأقوم بمساعدتك
• /cyber - للتعرف على البوت
• /help - لعرض هذه التعليمات

مثال:
%s ما هو علم الأمن السيبراني؟`

const aboutText = `🤖 مرحباً! أنا بوت Cyber المتخصص في الذكاء الاصطناعي.

يمكنني:
• الإجابة على أسئلتك المتعلقة بالأمن السيبراني
• مساعدتك في فهم المفاهيم التقنية
• التفاعل مع ردودك ومناقشاتك

للبدء، فقط اكتب '%s' متبوعاً بسؤالك! 🚀`

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		trigger := deps.Config.Telegram.GroupTrigger
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   fmt.Sprintf(helpText, trigger, trigger),
		})
		if err != nil {
			deps.Logger.ErrorContext(ctx, "Failed to send help message", "error", err, "chat_id", update.Message.Chat.ID)
		}
	}
}

// NewAboutHandler returns a handler for the /cyber command.
func NewAboutHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   fmt.Sprintf(aboutText, deps.Config.Telegram.GroupTrigger),
		})
		if err != nil {
			deps.Logger.ErrorContext(ctx, "Failed to send about message", "error", err, "chat_id", update.Message.Chat.ID)
		}
	}
}
