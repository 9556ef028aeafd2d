package handlers

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/gatebot/internal/metrics"
	"github.com/edgard/gatebot/internal/render"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler greets the user and shows the channel list with nothing checked yet.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil {
		log.WarnContext(ctx, "Start handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	if h.deps.StartGuard != nil && h.deps.StartGuard.ShouldSuppress(ctx, strconv.FormatInt(chatID, 10), h.deps.now()) {
		metrics.IncDebounceSuppressed("start")
		log.DebugContext(ctx, "Suppressed repeated /start", "chat_id", chatID)
		return
	}

	metrics.IncCommand("start")
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID)

	keyboard := render.ChannelKeyboard(h.deps.Verifier.Channels(), nil)
	if err := send(ctx, h.deps, chatID, render.StartText(), keyboard); err != nil {
		log.ErrorContext(ctx, "Failed to send welcome message", "error", err, "chat_id", chatID)
	}
}
