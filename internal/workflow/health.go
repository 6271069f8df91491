package workflow

import (
	"context"

	"heropatch/internal/batch"
	"heropatch/internal/stage"
)

// Health runs the health check of every handler needed by phases.
func (r *Runner) Health(ctx context.Context, phases []batch.Phase) []stage.Health {
	checks := make([]stage.Health, 0, len(phases))
	for _, phase := range phases {
		handler := r.stages.handler(phase)
		if handler == nil {
			checks = append(checks, stage.Unhealthy(string(phase), "no handler configured"))
			continue
		}
		checks = append(checks, handler.HealthCheck(ctx))
	}
	return checks
}
