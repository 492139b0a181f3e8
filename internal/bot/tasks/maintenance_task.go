package tasks

import (
	"context"
	"fmt"
	"time"
)

// newMaintenanceTask creates the scheduled task that runs database
// maintenance. The schedule database is tiny, but weekly flag rewrites
// still benefit from an occasional VACUUM.
func newMaintenanceTask(deps TaskDeps) TaskFunc {
	log := deps.Logger.With("task", TaskSQLMaintenance)

	return func(ctx context.Context) error {
		start := time.Now()

		if err := deps.Store.RunMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "Maintenance task failed", "error", err, "duration", time.Since(start))
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Maintenance task completed", "duration", time.Since(start))
		return nil
	}
}
