package stage

import (
	"context"

	"heropatch/internal/batch"
	"heropatch/internal/catalog"
)

// Handler describes the contract the workflow runner needs from each phase.
type Handler interface {
	Phase() batch.Phase
	// Select returns the catalog entries the phase applies to.
	Select(entries []catalog.Entry) []catalog.Entry
	// Execute processes one entry. Per-entry failures are reported through
	// the outcome, never returned.
	Execute(ctx context.Context, entry catalog.Entry) batch.Outcome
	HealthCheck(ctx context.Context) Health
}
