package stage

import (
	"context"

	"heropatch/internal/batch"
	"heropatch/internal/catalog"
)

// Run executes h over entries sequentially, one outcome per entry. A failing
// entry never stops the batch; cancellation is checked between entries so the
// entry in flight always completes. observe, when set, sees each outcome as
// soon as it is produced.
func Run(ctx context.Context, h Handler, entries []catalog.Entry, observe func(batch.Outcome)) []batch.Outcome {
	outcomes := make([]batch.Outcome, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		entryCtx := batch.WithPageID(batch.WithPhase(ctx, h.Phase()), entry.PageID)
		outcome := h.Execute(entryCtx, entry)
		if outcome.PageID == "" {
			outcome.PageID = entry.PageID
		}
		if outcome.Phase == "" {
			outcome.Phase = h.Phase()
		}
		outcomes = append(outcomes, outcome)
		if observe != nil {
			observe(outcome)
		}
	}
	return outcomes
}
