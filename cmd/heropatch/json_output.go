package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type catalogEntryJSON struct {
	PageID  string `json:"page_id"`
	Query   string `json:"query"`
	AltText string `json:"alt_text"`
	Anchor  string `json:"anchor,omitempty"`
}

type pageStatusJSON struct {
	PageID     string `json:"page_id"`
	PageExists bool   `json:"page_exists"`
	AssetBytes int64  `json:"asset_bytes"`
	AssetReady bool   `json:"asset_ready"`
	Patched    bool   `json:"patched"`
	HasAnchor  bool   `json:"has_anchor"`
}

type runJSON struct {
	ID          string         `json:"id"`
	StartedAt   string         `json:"started_at"`
	FinishedAt  string         `json:"finished_at,omitempty"`
	Profile     string         `json:"profile,omitempty"`
	Phases      []string       `json:"phases"`
	DryRun      bool           `json:"dry_run"`
	Interrupted bool           `json:"interrupted"`
	Catalog     string         `json:"catalog,omitempty"`
	Counts      map[string]int `json:"counts"`
}

type outcomeJSON struct {
	PageID     string `json:"page_id"`
	Phase      string `json:"phase"`
	Status     string `json:"status"`
	Detail     string `json:"detail,omitempty"`
	Error      string `json:"error,omitempty"`
	Path       string `json:"path,omitempty"`
	Bytes      int64  `json:"bytes,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}
