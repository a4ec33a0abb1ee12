package tasks

import (
	"context"
	"fmt"
)

// newAutoBackupTask returns the scheduled task that writes a timestamped
// copy of the data file into the configured backup directory.
func newAutoBackupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "auto_backup")

	return func(ctx context.Context) error {
		path, err := deps.Store.Backup("")
		if err != nil {
			log.ErrorContext(ctx, "Automatic backup failed", "error", err)
			return fmt.Errorf("automatic backup failed: %w", err)
		}

		log.InfoContext(ctx, "Automatic backup created", "path", path)
		return nil
	}
}
