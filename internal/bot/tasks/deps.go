// Package tasks implements the bot's scheduled housekeeping jobs.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/gatebot/internal/config"
	"github.com/edgard/gatebot/internal/database"
)

// Evictor drops debounce entries recorded before a cutoff. Only the in-memory
// debounce store needs it; valkey expires keys by itself.
type Evictor interface {
	Evict(ctx context.Context, cutoff time.Time) (int, error)
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Store   database.Store
	Evictor Evictor // nil when the debounce backend expires keys itself
	Config  *config.Config
	Now     func() time.Time
}

func (d TaskDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
