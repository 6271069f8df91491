// Package workflow runs the batch phases of one heropatch invocation.
//
// The Runner feeds the catalog through the registered stage handlers in phase
// order (fetch, then patch), so every download completes before any page is
// edited. Each outcome is reported to the operator, logged, appended to the
// run journal and counted in metrics as soon as it is produced. Cancellation
// is honoured between entries; the entry in flight always completes.
//
// Journal and metrics failures are logged and never abort a batch: the page
// edits are the product, the bookkeeping is best effort.
package workflow
