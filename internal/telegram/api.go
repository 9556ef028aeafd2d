package telegram

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// API is the subset of the Bot API used by gatebot. *bot.Bot implements it;
// tests substitute a fake.
type API interface {
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

var _ API = (*bot.Bot)(nil)

const notModifiedDescription = "message is not modified"

// IsMessageNotModified reports whether err is Telegram's refusal to edit a
// message whose text and markup are unchanged.
func IsMessageNotModified(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), notModifiedDescription)
}
