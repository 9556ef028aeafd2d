// Package debounce suppresses repeated triggers that arrive within a short
// window of each other. Last-seen timestamps live in an injected Store so the
// state can be kept in process memory or shared through valkey.
package debounce

import (
	"context"
	"hash/fnv"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Store persists the last-seen timestamp per key.
type Store interface {
	// Get returns the timestamp recorded for key and whether one exists.
	Get(ctx context.Context, key string) (time.Time, bool, error)
	// Set records at as the timestamp for key.
	Set(ctx context.Context, key string, at time.Time) error
}

const lockStripes = 64

// Guard decides whether a trigger for a key is a duplicate of a recent one.
type Guard struct {
	name      string
	store     Store
	threshold time.Duration
	logger    *slog.Logger

	locks [lockStripes]sync.Mutex
}

// NewGuard creates a guard whose keys are namespaced by name.
func NewGuard(name string, store Store, threshold time.Duration, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Guard{
		name:      name,
		store:     store,
		threshold: threshold,
		logger:    logger.With("component", "debounce", "guard", name),
	}
}

// Name returns the guard's namespace.
func (g *Guard) Name() string { return g.name }

// Threshold returns the suppression window.
func (g *Guard) Threshold() time.Duration { return g.threshold }

// ShouldSuppress reports whether a trigger for key at now falls within the
// threshold of the previous trigger. now is recorded either way, so a burst
// of rapid triggers keeps extending the window.
//
// Store failures never suppress.
func (g *Guard) ShouldSuppress(ctx context.Context, key string, now time.Time) bool {
	fullKey := g.name + ":" + key

	mu := g.lockFor(fullKey)
	mu.Lock()
	defer mu.Unlock()

	last, found, err := g.store.Get(ctx, fullKey)
	if err != nil {
		g.logger.WarnContext(ctx, "Failed to read debounce state", "key", fullKey, "error", err)
		found = false
	}

	suppress := found && now.Sub(last) < g.threshold

	record := now
	if found && last.After(now) {
		record = last
	}
	if err := g.store.Set(ctx, fullKey, record); err != nil {
		g.logger.WarnContext(ctx, "Failed to record debounce state", "key", fullKey, "error", err)
	}

	return suppress
}

func (g *Guard) lockFor(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &g.locks[h.Sum32()%lockStripes]
}
