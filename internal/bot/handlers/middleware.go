// Package handlers contains Telegram bot command and callback handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"
	"fmt"
	"runtime/debug"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/gatebot/internal/render"
)

const unauthorizedText = "Bu buyruq faqat administrator uchun."

// AdminOnly creates a middleware that checks if the message sender is the configured admin user.
// With no admin configured every sender is refused.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				return
			}

			userID := update.Message.From.ID
			adminID := deps.Config.Telegram.AdminUserID

			if adminID == 0 || userID != adminID {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "AdminOnly")
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)

				_, err := deps.API.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   unauthorizedText,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, bot, update)
		}
	}
}

// Recover stops a panicking handler from taking the process down. The panic
// is logged and, for callback queries, the user gets a generic retry notice.
func Recover(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				log := deps.Logger.With("middleware", "Recover")
				log.ErrorContext(ctx, "Handler panicked",
					"panic", fmt.Sprint(r),
					"update_id", update.ID,
					"stack", string(debug.Stack()))

				// Best effort: ignored by Telegram if the handler already answered.
				if update.CallbackQuery != nil {
					answer(ctx, deps, update.CallbackQuery.ID, render.AckError)
				}
			}()
			next(ctx, bot, update)
		}
	}
}
