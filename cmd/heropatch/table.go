package main

import (
	"github.com/spf13/cobra"

	"heropatch/internal/report"
)

func renderTable(cmd *cobra.Command, headers []string, rows [][]string, aligns []report.Alignment) string {
	return report.RenderTable(headers, rows, aligns, report.IsTerminal(cmd.OutOrStdout()))
}
