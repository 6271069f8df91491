// Package logging assembles structured slog loggers and formatting helpers used
// across heropatch.
//
// It owns the console/JSON handlers, opens the per-run log file, stamps every
// record with the run ID, and exposes context-aware helpers so phase code can
// tag log lines with the phase and page being processed. The package also
// provides a no-op logger for tests and wiring code that cannot fail, and
// prunes run logs past the configured retention.
package logging
