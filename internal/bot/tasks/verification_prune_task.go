package tasks

import (
	"context"
	"fmt"
)

// newVerificationPruneTask deletes verification log rows older than the
// configured retention.
func newVerificationPruneTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", VerificationPrune)

	return func(ctx context.Context) error {
		cutoff := deps.now().Add(-deps.Config.Database.Retention)

		deleted, err := deps.Store.PruneVerifications(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("prune verifications: %w", err)
		}

		log.InfoContext(ctx, "Verification log pruned", "cutoff", cutoff, "deleted", deleted)
		return nil
	}
}
