package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// PruneRunLogs removes run log files in dir whose modification time is more
// than retentionDays old, never touching keep (the current run's log).
// A retentionDays value of 0 disables pruning. It returns the number of
// files removed.
func PruneRunLogs(logger *slog.Logger, dir string, retentionDays int, keep string) int {
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(dir, RunLogFilePattern))
	if err != nil {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	keep = filepath.Clean(keep)

	removed := 0
	for _, path := range matches {
		if path == keep {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "run log not pruned", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on log_dir"),
				String(FieldImpact, "old run log stays on disk"),
			)
			continue
		}
		removed++
	}
	if removed > 0 && logger != nil {
		logger.Info("run logs pruned",
			String(FieldEventType, "log_pruned"),
			Int("removed", removed),
			Int("retention_days", retentionDays),
		)
	}
	return removed
}
