package tasks

import (
	"context"
)

// ScheduledTaskFunc defines the standard signature for all scheduled tasks.
// The context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// Task names, matching the keys of the scheduler.tasks config section.
const (
	DebounceEviction  = "debounce_eviction"
	VerificationPrune = "verification_prune"
	SQLMaintenance    = "sql_maintenance"
)

// RegisterAllTasks initializes and returns a map of all registered scheduled tasks.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	if deps.Evictor != nil {
		tasks[DebounceEviction] = newDebounceEvictionTask(deps)
	}
	tasks[VerificationPrune] = newVerificationPruneTask(deps)
	tasks[SQLMaintenance] = newSQLMaintenanceTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
