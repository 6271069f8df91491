package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"heropatch/internal/batch"
	"heropatch/internal/fetcher"
	"heropatch/internal/journal"
	"heropatch/internal/logging"
	"heropatch/internal/metrics"
	"heropatch/internal/patcher"
	"heropatch/internal/report"
	"heropatch/internal/runlock"
	"heropatch/internal/workflow"
)

type batchOptions struct {
	phases  []batch.Phase
	profile string
	dryRun  bool
	pages   []string
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts batchOptions
	var skipFetch bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download hero images, then patch the pages",
		Long: "Run the download phase to completion, then patch every page of the catalog.\n" +
			"Pages that already reference their hero image are left untouched, so the\n" +
			"command is safe to repeat.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.phases = batch.Phases()
			if skipFetch {
				opts.phases = []batch.Phase{batch.PhasePatch}
			}
			return runBatch(cmd, ctx, opts)
		},
	}
	addPageFlag(cmd, &opts)
	addPatchFlags(cmd, &opts)
	cmd.Flags().BoolVar(&skipFetch, "skip-fetch", false, "Only patch pages; do not download images")
	return cmd
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download missing hero images",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.phases = []batch.Phase{batch.PhaseFetch}
			return runBatch(cmd, ctx, opts)
		},
	}
	addPageFlag(cmd, &opts)
	return cmd
}

func newPatchCommand(ctx *commandContext) *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Embed hero images into page sources",
		Long: "Insert the hero image element after each page's anchor and add the image\n" +
			"import where missing. Use --profile fallback for pages without a LearnHero\n" +
			"block; those pages take their anchor from the catalog.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.phases = []batch.Phase{batch.PhasePatch}
			return runBatch(cmd, ctx, opts)
		},
	}
	addPageFlag(cmd, &opts)
	addPatchFlags(cmd, &opts)
	return cmd
}

func addPageFlag(cmd *cobra.Command, opts *batchOptions) {
	cmd.Flags().StringSliceVar(&opts.pages, "page", nil, "Limit the batch to a page id (repeatable)")
}

func addPatchFlags(cmd *cobra.Command, opts *batchOptions) {
	cmd.Flags().StringVar(&opts.profile, "profile", "", "Patch profile (hero, fallback, or a configured profile)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report what would change without writing pages")
}

func runBatch(cmd *cobra.Command, ctx *commandContext, opts batchOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	full, err := ctx.ensureCatalog()
	if err != nil {
		return err
	}
	cat, err := full.Filter(opts.pages)
	if err != nil {
		return err
	}
	layout, err := ctx.layout(cat)
	if err != nil {
		return err
	}
	if err := cfg.EnsureProject(); err != nil {
		return fmt.Errorf("%w: %w", batch.ErrConfiguration, err)
	}

	includesPatch := false
	for _, phase := range opts.phases {
		if phase == batch.PhasePatch {
			includesPatch = true
		}
	}
	profileName := opts.profile
	if profileName == "" {
		profileName = cfg.Patch.Profile
	}
	var profile patcher.Profile
	if includesPatch {
		profile, err = patcher.ResolveProfile(profileName, cfg.Profiles)
		if err != nil {
			return err
		}
	}

	lock, err := runlock.Acquire(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	runID := uuid.NewString()
	logger, logPath, err := logging.NewFromConfig(cfg, runID, ctx.verboseEnabled())
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logging.PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logPath)

	fetchOpts := fetcher.OptionsFromConfig(cfg, layout)
	fetchOpts.Logger = logger
	stages := workflow.StageSet{Fetcher: fetcher.New(fetchOpts)}
	if includesPatch {
		p, err := patcher.New(patcher.Options{Layout: layout, Profile: profile, DryRun: opts.dryRun, Logger: logger})
		if err != nil {
			return err
		}
		stages.Patcher = p
	}

	reporter := report.New(cmd.OutOrStdout())
	runnerOpts := workflow.Options{Stages: stages, Reporter: reporter, Logger: logger}

	if j := openJournal(cmd.Context(), cfg.Journal.Enabled, cfg.Journal.Path, logger); j != nil {
		defer j.Close()
		runnerOpts.Journal = j
	}
	var recorder *metrics.Recorder
	if cfg.Metrics.Textfile != "" {
		recorder = metrics.New()
		runnerOpts.Metrics = recorder
	}

	result, err := workflow.New(runnerOpts).Run(cmd.Context(), workflow.Plan{
		RunID:   runID,
		Entries: cat.Entries,
		Phases:  opts.phases,
		Profile: profile.Name,
		DryRun:  opts.dryRun,
		Catalog: cat.Source,
	})
	if err != nil {
		return err
	}

	reporter.Summary(result.Summary)
	if recorder != nil {
		recorder.MarkFinished(result.FinishedAt)
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logging.WarnWithContext(logger, "metrics textfile not written", "metrics_write_failed",
				logging.Error(err),
				logging.String("path", cfg.Metrics.Textfile),
			)
		}
	}

	out := cmd.OutOrStdout()
	if opts.dryRun {
		fmt.Fprintln(out, "Dry run: no page files were written")
	}
	fmt.Fprintf(out, "Run %s", runID)
	if logPath != "" {
		fmt.Fprintf(out, " (log: %s)", logPath)
	}
	fmt.Fprintln(out)

	if result.Interrupted {
		fmt.Fprintln(out, "Interrupted; re-run the same command to finish the remaining pages")
		return context.Canceled
	}
	return nil
}

func openJournal(ctx context.Context, enabled bool, path string, logger *slog.Logger) *journal.Journal {
	if !enabled {
		return nil
	}
	openCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	j, err := journal.Open(openCtx, path)
	if err != nil {
		logging.WarnWithContext(logger, "run journal unavailable", "journal_open_failed",
			logging.Error(err),
			logging.String("path", path),
			logging.String(logging.FieldImpact, "this run will not appear in history"),
		)
		return nil
	}
	return j
}
