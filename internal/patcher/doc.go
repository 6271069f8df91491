// Package patcher embeds a hero image element into page source files.
//
// Apply is the pure procedure: guard against an existing asset reference,
// ensure the import line exists exactly once, and splice the rendered
// snippet after the first occurrence of the anchor. Patcher wraps it with
// file I/O, atomic write-back and per-entry outcomes.
package patcher
