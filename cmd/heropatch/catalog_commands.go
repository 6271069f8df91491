package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"heropatch/internal/catalog"
	"heropatch/internal/config"
	"heropatch/internal/document"
	"heropatch/internal/fileutil"
	"heropatch/internal/patcher"
	"heropatch/internal/report"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the page catalog",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogCheckCommand(ctx))
	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.ensureCatalog()
			if err != nil {
				return err
			}
			if asJSON {
				entries := make([]catalogEntryJSON, 0, cat.Len())
				for _, e := range cat.Entries {
					entries = append(entries, catalogEntryJSON{PageID: e.PageID, Query: e.Query, AltText: e.AltText, Anchor: e.Anchor})
				}
				return writeJSON(cmd, entries)
			}
			rows := make([][]string, 0, cat.Len())
			for _, e := range cat.Entries {
				rows = append(rows, []string{e.PageID, e.Query, e.AltText, yesNo(e.Anchor != "")})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(cmd, []string{"Page", "Query", "Alt text", "Anchor"}, rows, nil))
			fmt.Fprintf(out, "%d pages from %s\n", cat.Len(), cat.Source)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newCatalogCheckCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var pages []string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show which pages have their hero image cached and embedded",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			full, err := ctx.ensureCatalog()
			if err != nil {
				return err
			}
			cat, err := full.Filter(pages)
			if err != nil {
				return err
			}
			layout, err := ctx.layout(cat)
			if err != nil {
				return err
			}
			profile, err := patcher.ResolveProfile(cfg.Patch.Profile, cfg.Profiles)
			if err != nil {
				return err
			}

			statuses := make([]pageStatusJSON, 0, cat.Len())
			for _, entry := range cat.Entries {
				status, err := checkPage(layout, cfg.Fetch.MinCachedBytes, profile, entry)
				if err != nil {
					return err
				}
				statuses = append(statuses, status)
			}
			if asJSON {
				return writeJSON(cmd, statuses)
			}

			rows := make([][]string, 0, len(statuses))
			patched := 0
			for _, s := range statuses {
				if s.Patched {
					patched++
				}
				rows = append(rows, []string{
					s.PageID,
					yesNo(s.PageExists),
					strconv.FormatInt(s.AssetBytes, 10),
					yesNo(s.AssetReady),
					yesNo(s.Patched),
					yesNo(s.HasAnchor),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(cmd,
				[]string{"Page", "Source", "Asset bytes", "Cached", "Patched", "Anchor (" + profile.Name + ")"},
				rows,
				[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignRight},
			))
			fmt.Fprintf(out, "%d of %d pages patched\n", patched, len(statuses))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.Flags().StringSliceVar(&pages, "page", nil, "Limit the check to a page id (repeatable)")
	return cmd
}

func checkPage(layout config.Layout, minCached int64, profile patcher.Profile, entry catalog.Entry) (pageStatusJSON, error) {
	status := pageStatusJSON{PageID: entry.PageID}

	ready, size, err := fileutil.SizeAbove(layout.AssetPath(entry.PageID), minCached)
	if err != nil {
		return status, err
	}
	status.AssetReady = ready
	status.AssetBytes = size

	exists, err := fileutil.Exists(layout.PagePath(entry.PageID))
	if err != nil || !exists {
		return status, err
	}
	status.PageExists = true
	data, err := os.ReadFile(layout.PagePath(entry.PageID))
	if err != nil {
		return status, fmt.Errorf("read page %s: %w", entry.PageID, err)
	}
	doc := document.Parse(string(data))
	status.Patched = doc.HasAssetRef(layout.AssetName(entry.PageID))
	anchor := profile.Anchor
	if profile.PageAnchors {
		anchor = entry.Anchor
	}
	status.HasAnchor = anchor != "" && doc.Contains(anchor)
	return status, nil
}
