package tasks

import "context"

// TaskFunc is the signature shared by all scheduled tasks. The returned
// error is reported by the scheduler; tasks do not retry internally.
type TaskFunc func(ctx context.Context) error

// Task names, used as registry and configuration keys.
const (
	TaskGarbageReminder = "garbage_reminder"
	TaskSQLMaintenance  = "sql_maintenance"
)

// RegisterAllTasks returns the map of all scheduled tasks keyed by the
// names used in the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]TaskFunc {
	t := map[string]TaskFunc{
		TaskGarbageReminder: NewGarbageReminderTask(deps),
		TaskSQLMaintenance:  newMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(t))
	return t
}
