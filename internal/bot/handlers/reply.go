package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/gatebot/internal/render"
	"github.com/edgard/gatebot/internal/telegram"
)

// target identifies where a callback's reply goes. MessageID is zero when the
// originating message is unknown and the reply can only be sent.
type target struct {
	ChatID    int64
	MessageID int
}

func callbackTarget(q *models.CallbackQuery) target {
	switch {
	case q.Message.Message != nil:
		return target{ChatID: q.Message.Message.Chat.ID, MessageID: q.Message.Message.ID}
	case q.Message.InaccessibleMessage != nil:
		return target{ChatID: q.Message.InaccessibleMessage.Chat.ID, MessageID: q.Message.InaccessibleMessage.MessageID}
	default:
		return target{ChatID: q.From.ID}
	}
}

// answer acknowledges a callback query. Failures are logged and dropped.
func answer(ctx context.Context, deps HandlerDeps, callbackID, text string) {
	_, err := deps.API.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		deps.Logger.DebugContext(ctx, "Failed to answer callback query", "error", err, "callback_id", callbackID)
	}
}

// send posts a new HTML message.
func send(ctx context.Context, deps HandlerDeps, chatID int64, text string, markup *models.InlineKeyboardMarkup) error {
	params := &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	_, err := deps.API.SendMessage(ctx, params)
	return err
}

// sendOrEdit rewrites the interactive message in place. An unchanged message
// only earns a short acknowledgement; any other edit failure falls back to
// sending a fresh message.
func sendOrEdit(ctx context.Context, deps HandlerDeps, callbackID string, to target, text string, markup *models.InlineKeyboardMarkup) error {
	log := deps.Logger.With("chat_id", to.ChatID, "message_id", to.MessageID)

	if to.MessageID != 0 {
		_, err := deps.API.EditMessageText(ctx, &tgbot.EditMessageTextParams{
			ChatID:      to.ChatID,
			MessageID:   to.MessageID,
			Text:        text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: markup,
		})
		if err == nil {
			return nil
		}
		if telegram.IsMessageNotModified(err) {
			// Best effort: Telegram shows only the first answer to a query,
			// and the check flow has already answered it.
			answer(ctx, deps, callbackID, render.AckUnchanged)
			return nil
		}
		log.WarnContext(ctx, "Edit failed, sending a new message instead", "error", err)
	}

	return send(ctx, deps, to.ChatID, text, markup)
}
