package tasks

import (
	"context"
	"fmt"
)

// newCounterRetentionTask creates the scheduled task that trims per-day
// image counters older than the configured retention window.
func newCounterRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "counter_retention")

	return func(ctx context.Context) error {
		removed, err := deps.Store.PruneDailyCounters(deps.Config.Store.RetentionDays)
		if err != nil {
			log.ErrorContext(ctx, "Counter retention task failed", "error", err)
			return fmt.Errorf("counter retention failed: %w", err)
		}

		log.InfoContext(ctx, "Counter retention completed", "removed", removed, "retention_days", deps.Config.Store.RetentionDays)
		return nil
	}
}
