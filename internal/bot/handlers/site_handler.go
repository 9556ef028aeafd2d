package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/gatebot/internal/metrics"
	"github.com/edgard/gatebot/internal/render"
)

// NewSiteHandler returns a handler for the /site command.
func NewSiteHandler(deps HandlerDeps) bot.HandlerFunc {
	return siteHandler{deps}.Handle
}

// siteHandler sends the website card. It does not check membership.
type siteHandler struct {
	deps HandlerDeps
}

func (h siteHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "site")

	if update.Message == nil {
		log.WarnContext(ctx, "Site handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	metrics.IncCommand("site")
	log.InfoContext(ctx, "Handling /site command", "chat_id", chatID)

	keyboard := render.SuccessKeyboard(h.deps.Config.Gate.WebsiteURL)
	if err := send(ctx, h.deps, chatID, render.SiteCardText(), keyboard); err != nil {
		log.ErrorContext(ctx, "Failed to send site card", "error", err, "chat_id", chatID)
	}
}
