package handlers

import (
	"github.com/go-telegram/bot/models"
)

// baseKeyboard is the persistent reply keyboard shown in private chats.
// Its single button starts a fresh conversation.
func baseKeyboard(deps HandlerDeps) *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: deps.Config.Telegram.Messages.ResetButton}},
		},
		ResizeKeyboard: true,
	}
}

// joinKeyboard links to the required channel and carries the verification
// callback button.
func joinKeyboard(deps HandlerDeps) *models.InlineKeyboardMarkup {
	msgs := deps.Config.Telegram.Messages
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: msgs.JoinButton, URL: deps.Config.Telegram.ChannelURL}},
			{{Text: msgs.VerifyButton, CallbackData: "check_subscription"}},
		},
	}
}

// quotaKeyboard links to the premium upgrade and admin contact.
func quotaKeyboard(deps HandlerDeps) *models.InlineKeyboardMarkup {
	msgs := deps.Config.Telegram.Messages
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: msgs.PremiumButton, URL: deps.Config.Telegram.PremiumURL}},
			{{Text: msgs.ContactAdminButton, URL: deps.Config.Telegram.PremiumURL}},
		},
	}
}
