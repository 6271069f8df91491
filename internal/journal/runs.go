package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"heropatch/internal/batch"
)

// Run is one invocation of a batch command.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Profile     string
	Phases      []batch.Phase
	DryRun      bool
	Catalog     string
	Interrupted bool
	Summary     *batch.Summary
}

// Finished reports whether the run recorded its completion.
func (r Run) Finished() bool { return !r.FinishedAt.IsZero() }

// Record is a persisted outcome.
type Record struct {
	PageID     string
	Phase      batch.Phase
	Status     batch.Status
	Detail     string
	Error      string
	Path       string
	Bytes      int64
	Duration   time.Duration
	RecordedAt time.Time
}

// BeginRun inserts the run header.
func (j *Journal) BeginRun(ctx context.Context, run Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	err := j.exec(ctx,
		`INSERT INTO runs (id, started_at, profile, phases, dry_run, catalog) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.Profile, joinPhases(run.Phases), boolInt(run.DryRun), run.Catalog,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Record appends an outcome to a run.
func (j *Journal) Record(ctx context.Context, runID string, o batch.Outcome) error {
	errText := ""
	if o.Err != nil {
		errText = o.Err.Error()
	}
	err := j.exec(ctx,
		`INSERT INTO outcomes (run_id, page_id, phase, status, detail, error, path, bytes, duration_ms, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, o.PageID, string(o.Phase), string(o.Status), o.Detail, errText, o.Path, o.Bytes,
		o.Duration.Milliseconds(), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert outcome %s/%s: %w", runID, o.PageID, err)
	}
	return nil
}

// FinishRun stamps the completion time.
func (j *Journal) FinishRun(ctx context.Context, runID string, finishedAt time.Time, interrupted bool) error {
	err := j.exec(ctx,
		`UPDATE runs SET finished_at = ?, interrupted = ? WHERE id = ?`,
		finishedAt.UnixMilli(), boolInt(interrupted), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first, with outcome counts.
func (j *Journal) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, profile, phases, dry_run, catalog, interrupted
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		summary, err := j.summarize(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Summary = summary
	}
	return runs, nil
}

// GetRun returns one run with outcome counts. Unknown ids return
// ErrRunNotFound.
func (j *Journal) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, profile, phases, dry_run, catalog, interrupted
		 FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return Run{}, err
	}
	run.Summary, err = j.summarize(ctx, run.ID)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// Outcomes lists the outcomes of a run in recording order.
func (j *Journal) Outcomes(ctx context.Context, runID string) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT page_id, phase, status, detail, error, path, bytes, duration_ms, recorded_at
		 FROM outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			phase      string
			status     string
			durationMS int64
			recordedAt int64
		)
		if err := rows.Scan(&rec.PageID, &phase, &status, &rec.Detail, &rec.Error, &rec.Path, &rec.Bytes, &durationMS, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		rec.Phase = batch.Phase(phase)
		rec.Status = batch.Status(status)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.RecordedAt = time.UnixMilli(recordedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return records, nil
}

func (j *Journal) summarize(ctx context.Context, runID string) (*batch.Summary, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT phase, status, COUNT(1) FROM outcomes WHERE run_id = ? GROUP BY phase, status`, runID)
	if err != nil {
		return nil, fmt.Errorf("summarize run %s: %w", runID, err)
	}
	defer rows.Close()

	summary := batch.NewSummary()
	for rows.Next() {
		var phase, status string
		var count int
		if err := rows.Scan(&phase, &status, &count); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summary.AddCount(batch.Phase(phase), batch.Status(status), count)
	}
	return summary, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run         Run
		startedAt   int64
		finishedAt  sql.NullInt64
		phases      string
		dryRun      int
		interrupted int
	)
	if err := s.Scan(&run.ID, &startedAt, &finishedAt, &run.Profile, &phases, &dryRun, &run.Catalog, &interrupted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = time.UnixMilli(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = time.UnixMilli(finishedAt.Int64)
	}
	run.Phases = splitPhases(phases)
	run.DryRun = dryRun != 0
	run.Interrupted = interrupted != 0
	return run, nil
}

func joinPhases(phases []batch.Phase) string {
	parts := make([]string, 0, len(phases))
	for _, p := range phases {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, ",")
}

func splitPhases(value string) []batch.Phase {
	if value == "" {
		return nil
	}
	var phases []batch.Phase
	for _, part := range strings.Split(value, ",") {
		phases = append(phases, batch.Phase(part))
	}
	return phases
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
