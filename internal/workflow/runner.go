package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"heropatch/internal/batch"
	"heropatch/internal/catalog"
	"heropatch/internal/journal"
	"heropatch/internal/logging"
	"heropatch/internal/stage"
)

// StageSet bundles the concrete handlers the runner orchestrates.
type StageSet struct {
	Fetcher stage.Handler
	Patcher stage.Handler
}

func (s StageSet) handler(phase batch.Phase) stage.Handler {
	switch phase {
	case batch.PhaseFetch:
		return s.Fetcher
	case batch.PhasePatch:
		return s.Patcher
	default:
		return nil
	}
}

// Reporter receives operator-facing progress.
type Reporter interface {
	Header(phase batch.Phase)
	Outcome(o batch.Outcome)
}

// Journal persists run history.
type Journal interface {
	BeginRun(ctx context.Context, run journal.Run) error
	Record(ctx context.Context, runID string, o batch.Outcome) error
	FinishRun(ctx context.Context, runID string, finishedAt time.Time, interrupted bool) error
}

// Metrics counts outcomes.
type Metrics interface {
	Observe(o batch.Outcome)
}

// Options configures a Runner. Reporter, Journal and Metrics are optional.
type Options struct {
	Stages   StageSet
	Reporter Reporter
	Journal  Journal
	Metrics  Metrics
	Logger   *slog.Logger
	Now      func() time.Time
}

// Runner executes plans.
type Runner struct {
	stages   StageSet
	reporter Reporter
	journal  Journal
	metrics  Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// Plan describes one run.
type Plan struct {
	RunID   string
	Entries []catalog.Entry
	Phases  []batch.Phase
	Profile string
	DryRun  bool
	Catalog string
}

// Result summarizes a finished run.
type Result struct {
	RunID       string
	Summary     *batch.Summary
	Outcomes    []batch.Outcome
	StartedAt   time.Time
	FinishedAt  time.Time
	Interrupted bool
}

// New constructs a Runner.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		stages:   opts.Stages,
		reporter: opts.Reporter,
		journal:  opts.Journal,
		metrics:  opts.Metrics,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		now:      now,
	}
}

// Run executes every phase of plan in order. Only a plan naming a phase
// without a handler is an error; per-entry failures land in the summary.
func (r *Runner) Run(ctx context.Context, plan Plan) (Result, error) {
	for _, phase := range plan.Phases {
		if r.stages.handler(phase) == nil {
			return Result{}, fmt.Errorf("%w: no handler for phase %q", batch.ErrConfiguration, phase)
		}
	}

	ctx = batch.WithRunID(ctx, plan.RunID)
	logger := r.logger
	if plan.RunID != "" {
		logger = logger.With(logging.String(logging.FieldRunID, plan.RunID))
	}
	result := Result{RunID: plan.RunID, Summary: batch.NewSummary(), StartedAt: r.now()}

	if r.journal != nil {
		err := r.journal.BeginRun(ctx, journal.Run{
			ID:        plan.RunID,
			StartedAt: result.StartedAt,
			Profile:   plan.Profile,
			Phases:    plan.Phases,
			DryRun:    plan.DryRun,
			Catalog:   plan.Catalog,
		})
		if err != nil {
			logging.WarnWithContext(logger, "journal unavailable for this run", "journal_begin_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run history will not include this run"),
			)
		}
	}

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("entries", len(plan.Entries)),
		logging.String("profile", plan.Profile),
		logging.Bool("dry_run", plan.DryRun),
	)

	for _, phase := range plan.Phases {
		if ctx.Err() != nil {
			break
		}
		handler := r.stages.handler(phase)
		entries := handler.Select(plan.Entries)
		if r.reporter != nil {
			r.reporter.Header(phase)
		}
		phaseStart := r.now()
		outcomes := stage.Run(ctx, handler, entries, func(o batch.Outcome) {
			r.observe(ctx, logger, plan.RunID, result.Summary, o)
		})
		result.Outcomes = append(result.Outcomes, outcomes...)
		logger.Info("phase completed",
			logging.String(logging.FieldEventType, "phase_complete"),
			logging.String(logging.FieldPhase, string(phase)),
			logging.Int("selected", len(entries)),
			logging.Int("processed", len(outcomes)),
			logging.Duration("duration", r.now().Sub(phaseStart)),
		)
	}

	result.Interrupted = ctx.Err() != nil
	result.FinishedAt = r.now()
	if r.journal != nil {
		// The batch context may be cancelled; the final stamp still belongs
		// in the journal.
		if err := r.journal.FinishRun(context.WithoutCancel(ctx), plan.RunID, result.FinishedAt, result.Interrupted); err != nil {
			logging.WarnWithContext(logger, "failed to finish journal run", "journal_finish_failed", logging.Error(err))
		}
	}
	if result.Interrupted {
		logging.WarnWithContext(logger, "run interrupted", "run_interrupted",
			logging.Int("processed", len(result.Outcomes)),
			logging.String(logging.FieldErrorHint, "re-run the same command to finish the remaining entries"),
			logging.String(logging.FieldImpact, "some catalog entries were not processed"),
		)
	}
	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("outcomes", result.Summary.Total),
		logging.Duration("duration", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

func (r *Runner) observe(ctx context.Context, logger *slog.Logger, runID string, summary *batch.Summary, o batch.Outcome) {
	summary.Add(o)
	if r.reporter != nil {
		r.reporter.Outcome(o)
	}
	logOutcome(logger, o)
	if r.metrics != nil {
		r.metrics.Observe(o)
	}
	if r.journal != nil && runID != "" {
		if err := r.journal.Record(context.WithoutCancel(ctx), runID, o); err != nil {
			logging.WarnWithContext(logger, "failed to journal outcome", "journal_record_failed",
				logging.String(logging.FieldPageID, o.PageID),
				logging.Error(err),
			)
		}
	}
}
