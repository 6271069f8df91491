package logging

import (
	"context"
	"log/slog"
)

// runIDHandler wraps another handler to inject a run_id attribute into all records.
type runIDHandler struct {
	base  slog.Handler
	runID string
}

func newRunIDHandler(base slog.Handler, runID string) slog.Handler {
	if base == nil {
		return noopHandler{}
	}
	return &runIDHandler{
		base:  base,
		runID: runID,
	}
}

func (h *runIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *runIDHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(slog.String(FieldRunID, h.runID))
	return h.base.Handle(ctx, record)
}

func (h *runIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runIDHandler{
		base:  h.base.WithAttrs(attrs),
		runID: h.runID,
	}
}

func (h *runIDHandler) WithGroup(name string) slog.Handler {
	return &runIDHandler{
		base:  h.base.WithGroup(name),
		runID: h.runID,
	}
}
