package tasks

import (
	"context"

	"github.com/sybersc/cyberbot/internal/chat"
)

// newReplySweepTask creates the scheduled task that evicts stale entries
// from the group reply correlation log.
func newReplySweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "reply_sweep")

	return func(ctx context.Context) error {
		removed := deps.ReplyLog.Sweep(chat.ReplyMaxAge)
		log.InfoContext(ctx, "Reply log sweep completed", "removed", removed, "remaining", deps.ReplyLog.Len())
		return nil
	}
}
