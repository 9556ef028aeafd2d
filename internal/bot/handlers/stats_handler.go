package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/gatebot/internal/database"
	"github.com/edgard/gatebot/internal/metrics"
)

const statsErrorText = "Statistikani olishda xatolik yuz berdi."

// NewStatsHandler returns a handler for the admin /stats command.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

// statsHandler reports verification log totals to the admin.
type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	if update.Message == nil {
		log.WarnContext(ctx, "Stats handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	metrics.IncCommand("stats")
	log.InfoContext(ctx, "Admin requested verification stats", "chat_id", chatID)

	text := statsErrorText
	if h.deps.Store != nil {
		stats, err := h.deps.Store.GetStats(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to get verification stats", "error", err)
		} else {
			text = formatStats(stats)
		}
	}

	if err := send(ctx, h.deps, chatID, text, nil); err != nil {
		log.ErrorContext(ctx, "Failed to send stats message", "error", err, "chat_id", chatID)
	}
}

func formatStats(s *database.Stats) string {
	var b strings.Builder
	b.WriteString("<b>📊 Statistika</b>\n\n")
	fmt.Fprintf(&b, "Tekshiruvlar: %d\n", s.TotalChecks)
	fmt.Fprintf(&b, "Muvaffaqiyatli: %d\n", s.PassedChecks)
	fmt.Fprintf(&b, "Foydalanuvchilar: %d\n", s.UniqueUsers)
	fmt.Fprintf(&b, "Barcha kanallarga a'zo: %d\n", s.PassedUsers)
	if s.LastCheckAt.Valid {
		fmt.Fprintf(&b, "Oxirgi tekshiruv: %s\n", s.LastCheckAt.Time.UTC().Format(time.DateTime))
	}
	return b.String()
}
