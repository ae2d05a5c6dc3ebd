package tasks

import (
	"context"
	"fmt"
)

// newGroupCleanupTask creates the scheduled task that drops groups the
// bot was added to but never used in.
func newGroupCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "group_cleanup")

	return func(ctx context.Context) error {
		removed, err := deps.Store.PruneInactiveGroups()
		if err != nil {
			log.ErrorContext(ctx, "Group cleanup task failed", "error", err)
			return fmt.Errorf("group cleanup failed: %w", err)
		}

		for _, g := range removed {
			log.InfoContext(ctx, "Removed inactive group", "chat_id", g.ChatID, "title", g.Title)
		}
		log.InfoContext(ctx, "Group cleanup completed", "removed", len(removed))
		return nil
	}
}
