package tasks

import (
	"context"
	"fmt"
)

// newDebounceEvictionTask drops in-memory debounce timestamps older than the
// configured retention so the map does not grow with every user ever seen.
func newDebounceEvictionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", DebounceEviction)

	return func(ctx context.Context) error {
		cutoff := deps.now().Add(-deps.Config.Debounce.Retention)

		removed, err := deps.Evictor.Evict(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("evict debounce entries: %w", err)
		}

		if removed > 0 {
			log.DebugContext(ctx, "Evicted debounce entries", "removed", removed)
		}
		return nil
	}
}
