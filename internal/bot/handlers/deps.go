package handlers

import (
	"log/slog"
	"time"

	"github.com/edgard/gatebot/internal/config"
	"github.com/edgard/gatebot/internal/database"
	"github.com/edgard/gatebot/internal/debounce"
	"github.com/edgard/gatebot/internal/telegram"
	"github.com/edgard/gatebot/internal/verifier"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	API        telegram.API
	Verifier   *verifier.Verifier
	StartGuard *debounce.Guard
	CheckGuard *debounce.Guard
	Store      database.Store
	Now        func() time.Time
}

func (d HandlerDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
