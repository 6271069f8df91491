package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"heropatch/internal/batch"
	"heropatch/internal/journal"
	"heropatch/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled {
				return errors.New("run journal is disabled (journal.enabled = false)")
			}
			j, err := journal.Open(cmd.Context(), cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer j.Close()

			if id := strings.TrimSpace(runID); id != "" {
				return showRun(cmd, j, id, asJSON)
			}

			runs, err := j.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				out := make([]runJSON, 0, len(runs))
				for _, run := range runs {
					out = append(out, toRunJSON(run))
				}
				return writeJSON(cmd, out)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					runState(run),
					phaseList(run.Phases),
					run.Profile,
					strconv.Itoa(changedCount(run.Summary)),
					strconv.Itoa(run.Summary.Count(batch.PhasePatch, batch.StatusWarned)),
					strconv.Itoa(failedCount(run.Summary)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd,
				[]string{"Run", "Started", "State", "Phases", "Profile", "Changed", "Warned", "Failed"},
				rows,
				[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignRight, report.AlignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the outcomes of one run")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func showRun(cmd *cobra.Command, j *journal.Journal, runID string, asJSON bool) error {
	run, err := j.GetRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	records, err := j.Outcomes(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if asJSON {
		out := make([]outcomeJSON, 0, len(records))
		for _, r := range records {
			out = append(out, outcomeJSON{
				PageID:     r.PageID,
				Phase:      string(r.Phase),
				Status:     string(r.Status),
				Detail:     r.Detail,
				Error:      r.Error,
				Path:       r.Path,
				Bytes:      r.Bytes,
				DurationMS: r.Duration.Milliseconds(),
			})
		}
		return writeJSON(cmd, out)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s, started %s)\n", run.ID, runState(run), run.StartedAt.Local().Format(time.RFC3339))
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		message := r.Detail
		if r.Status == batch.StatusFailed && r.Error != "" {
			message = r.Error
		}
		rows = append(rows, []string{string(r.Phase), r.PageID, string(r.Status), message})
	}
	fmt.Fprintln(out, renderTable(cmd, []string{"Phase", "Page", "Status", "Detail"}, rows, nil))
	fmt.Fprintln(out, report.SummaryTable(run.Summary, report.IsTerminal(out)))
	return nil
}

func toRunJSON(run journal.Run) runJSON {
	out := runJSON{
		ID:          run.ID,
		StartedAt:   run.StartedAt.UTC().Format(time.RFC3339),
		Profile:     run.Profile,
		DryRun:      run.DryRun,
		Interrupted: run.Interrupted,
		Catalog:     run.Catalog,
		Counts:      make(map[string]int),
	}
	if run.Finished() {
		out.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	for _, p := range run.Phases {
		out.Phases = append(out.Phases, string(p))
	}
	if run.Summary != nil {
		for phase, byStatus := range run.Summary.Counts {
			for status, n := range byStatus {
				out.Counts[string(phase)+"."+string(status)] = n
			}
		}
	}
	return out
}

func runState(run journal.Run) string {
	switch {
	case run.Interrupted:
		return "interrupted"
	case !run.Finished():
		return "incomplete"
	case run.DryRun:
		return "dry run"
	default:
		return "finished"
	}
}

func phaseList(phases []batch.Phase) string {
	parts := make([]string, 0, len(phases))
	for _, p := range phases {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, "+")
}

func changedCount(s *batch.Summary) int {
	return s.Count(batch.PhaseFetch, batch.StatusDownloaded) + s.Count(batch.PhasePatch, batch.StatusPatched)
}

func failedCount(s *batch.Summary) int {
	return s.Count(batch.PhaseFetch, batch.StatusFailed) + s.Count(batch.PhasePatch, batch.StatusFailed)
}
