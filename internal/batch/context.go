package batch

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	phaseKey  contextKey = "phase"
	pageIDKey contextKey = "page_id"
)

// WithRunID annotates context with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPhase annotates context with the batch phase.
func WithPhase(ctx context.Context, phase Phase) context.Context {
	if phase == "" {
		return ctx
	}
	return context.WithValue(ctx, phaseKey, phase)
}

// PhaseFromContext returns the phase if present.
func PhaseFromContext(ctx context.Context) (Phase, bool) {
	if v, ok := ctx.Value(phaseKey).(Phase); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPageID annotates context with the catalog page identifier.
func WithPageID(ctx context.Context, pageID string) context.Context {
	if pageID == "" {
		return ctx
	}
	return context.WithValue(ctx, pageIDKey, pageID)
}

// PageIDFromContext returns the page identifier if present.
func PageIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(pageIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
