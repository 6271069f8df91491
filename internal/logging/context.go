package logging

import (
	"context"
	"log/slog"

	"heropatch/internal/batch"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for run identifiers.
	FieldRunID = "run_id"
	// FieldPhase is the standardized structured logging key for batch phases.
	FieldPhase = "phase"
	// FieldPageID is the standardized structured logging key for catalog page identifiers.
	FieldPageID = "page_id"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the operator's next step.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if phase, ok := batch.PhaseFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPhase, string(phase)))
	}
	if page, ok := batch.PageIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPageID, page))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
