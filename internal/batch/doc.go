// Package batch defines the shared vocabulary of the download and patch
// phases.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, phase names, and page IDs for
//     logging.
//   - Sentinel error markers plus the Wrap helper so per-entry failures can be
//     classified with errors.Is.
//   - The Outcome type every phase reports for each catalog entry.
//
// Phases never return errors for individual entries; they report an Outcome
// instead so one failing page cannot abort the batch.
package batch
