package workflow

import (
	"log/slog"

	"heropatch/internal/batch"
	"heropatch/internal/logging"
)

func logOutcome(logger *slog.Logger, o batch.Outcome) {
	attrs := []logging.Attr{
		logging.String(logging.FieldPhase, string(o.Phase)),
		logging.String(logging.FieldPageID, o.PageID),
		logging.String("status", string(o.Status)),
	}
	if o.Detail != "" {
		attrs = append(attrs, logging.String("detail", o.Detail))
	}
	if o.Path != "" {
		attrs = append(attrs, logging.String("path", o.Path))
	}
	if o.Duration > 0 {
		attrs = append(attrs, logging.Duration("duration", o.Duration))
	}

	switch o.Status {
	case batch.StatusDownloaded, batch.StatusPatched:
		if o.Bytes > 0 {
			attrs = append(attrs, logging.Int64("bytes", o.Bytes))
		}
		logger.Info("entry updated", logging.Args(attrs...)...)
	case batch.StatusWarned:
		attrs = append(attrs,
			logging.Bool("import_added", o.ImportAdded),
			logging.String(logging.FieldErrorHint, "check the page markup or use the fallback profile"),
			logging.String(logging.FieldImpact, "page was not given a hero image"),
		)
		logging.WarnWithContext(logger, "anchor not found", "anchor_not_found", attrs...)
	case batch.StatusFailed:
		if o.Err != nil {
			attrs = append(attrs, logging.Error(o.Err))
		}
		attrs = append(attrs, logging.String(logging.FieldErrorHint, "re-run to retry this entry"))
		logging.ErrorWithContext(logger, "entry failed", "entry_failed", attrs...)
	default:
		logger.Debug("entry skipped", logging.Args(attrs...)...)
	}
}
