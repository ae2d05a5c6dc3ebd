package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ChannelMembership checks whether users are subscribed to the required
// channel. It satisfies the pipeline's membership gate.
type ChannelMembership struct {
	bot     *bot.Bot
	channel string
	log     *slog.Logger
}

// NewChannelMembership creates a membership checker for the given channel
// handle (e.g. "@SyberSc71").
func NewChannelMembership(b *bot.Bot, channel string, logger *slog.Logger) *ChannelMembership {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChannelMembership{
		bot:     b,
		channel: channel,
		log:     logger.With("component", "channel_membership"),
	}
}

// IsChannelMember reports whether the user is a member, administrator, or
// creator of the channel.
func (m *ChannelMembership) IsChannelMember(ctx context.Context, userID int64) (bool, error) {
	member, err := m.bot.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: m.channel,
		UserID: userID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to get chat member: %w", err)
	}

	switch member.Type {
	case models.ChatMemberTypeMember, models.ChatMemberTypeAdministrator, models.ChatMemberTypeOwner:
		return true, nil
	default:
		return false, nil
	}
}
