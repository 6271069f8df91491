// Package journal persists run history in SQLite.
//
// Every run gets a row keyed by its run id, and every per-entry outcome is
// appended as the batch proceeds, so an interrupted run still leaves a
// complete record of the entries it processed. The schema is managed by
// embedded, ordered SQL migrations.
package journal
