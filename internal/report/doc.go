// Package report renders batch progress for operators: one status line per
// entry while a phase runs, and a phase by status summary table at the end.
package report
