package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/gatebot/internal/config"
	"github.com/edgard/gatebot/internal/database"
	"github.com/edgard/gatebot/internal/metrics"
	"github.com/edgard/gatebot/internal/render"
	"github.com/edgard/gatebot/internal/verifier"
)

// NewCheckHandler returns a handler for the re-check callback button.
func NewCheckHandler(deps HandlerDeps) bot.HandlerFunc {
	return checkHandler{deps}.Handle
}

// checkHandler verifies the caller against every required channel and
// rewrites the interactive message with the outcome.
type checkHandler struct {
	deps HandlerDeps
}

func (h checkHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "check")

	q := update.CallbackQuery
	if q == nil {
		log.WarnContext(ctx, "Check handler received update without callback query", "update_id", update.ID)
		return
	}

	userID := q.From.ID
	if h.deps.CheckGuard != nil && h.deps.CheckGuard.ShouldSuppress(ctx, strconv.FormatInt(userID, 10), h.deps.now()) {
		metrics.IncDebounceSuppressed("check")
		log.DebugContext(ctx, "Suppressed repeated check", "user_id", userID)
		answer(ctx, h.deps, q.ID, render.AckSlowDown)
		return
	}

	metrics.IncCommand("check")
	answer(ctx, h.deps, q.ID, render.AckChecking)

	channels := h.deps.Verifier.Channels()
	results := h.deps.Verifier.CheckAll(ctx, userID)
	to := callbackTarget(q)
	notJoined := verifier.NotJoined(channels, results)

	h.record(ctx, userID, to.ChatID, results, notJoined)
	log.InfoContext(ctx, "Membership checked",
		"user_id", userID, "joined", results.JoinedCount(), "total", len(channels), "all_joined", results.AllJoined())

	keyboard := render.ChannelKeyboard(channels, results)

	if !results.AllJoined() {
		if err := sendOrEdit(ctx, h.deps, q.ID, to, render.FailText(notJoined), keyboard); err != nil {
			log.ErrorContext(ctx, "Failed to deliver fail message", "error", err, "chat_id", to.ChatID)
		}
		return
	}

	if err := sendOrEdit(ctx, h.deps, q.ID, to, render.JoinedText(), keyboard); err != nil {
		log.ErrorContext(ctx, "Failed to deliver joined message", "error", err, "chat_id", to.ChatID)
	}
	success := render.SuccessKeyboard(h.deps.Config.Gate.WebsiteURL)
	if err := send(ctx, h.deps, to.ChatID, render.SuccessText(), success); err != nil {
		log.ErrorContext(ctx, "Failed to send success message", "error", err, "chat_id", to.ChatID)
	}
}

// record appends the check to the verification log. Failures never reach the user.
func (h checkHandler) record(ctx context.Context, userID, chatID int64, results verifier.Result, notJoined []config.Channel) {
	if h.deps.Store == nil {
		return
	}

	missing := make([]string, 0, len(notJoined))
	for _, ch := range notJoined {
		missing = append(missing, ch.ID)
	}

	v := &database.Verification{
		UserID:          userID,
		ChatID:          chatID,
		Joined:          results.JoinedCount(),
		Total:           len(h.deps.Verifier.Channels()),
		AllJoined:       results.AllJoined(),
		MissingChannels: strings.Join(missing, ","),
		CheckedAt:       h.deps.now(),
	}
	if err := h.deps.Store.RecordVerification(ctx, v); err != nil {
		metrics.IncVerificationLogError()
		h.deps.Logger.WarnContext(ctx, "Failed to record verification", "error", err, "user_id", userID)
	}
}
