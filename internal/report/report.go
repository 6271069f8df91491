package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/mattn/go-isatty"

	"heropatch/internal/batch"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// Reporter writes progress lines as outcomes arrive.
type Reporter struct {
	mu       sync.Mutex
	w        io.Writer
	terminal bool
	headers  int
}

// New returns a Reporter writing to w. Color and rounded tables are enabled
// when w is a terminal.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w, terminal: IsTerminal(w)}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// PhaseTitle names a phase in headers.
func PhaseTitle(phase batch.Phase) string {
	switch phase {
	case batch.PhaseFetch:
		return "Downloading images"
	case batch.PhasePatch:
		return "Updating page files"
	default:
		return string(phase)
	}
}

// Header starts a phase section. Sections after the first are separated by
// a blank line.
func (r *Reporter) Header(phase batch.Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := fmt.Sprintf("=== %s ===", PhaseTitle(phase))
	if r.terminal {
		line = ansiBlue + line + ansiReset
	}
	if r.headers > 0 {
		fmt.Fprintln(r.w)
	}
	r.headers++
	fmt.Fprintln(r.w, line)
}

// Outcome writes the status line of one entry.
func (r *Reporter) Outcome(o batch.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := "  " + FormatOutcome(o)
	if r.terminal {
		if color := statusColor(o.Status); color != "" {
			line = color + line + ansiReset
		}
	}
	fmt.Fprintln(r.w, line)
}

// FormatOutcome renders an outcome without indentation or color.
func FormatOutcome(o batch.Outcome) string {
	switch o.Status {
	case batch.StatusSkipped:
		if o.Detail == "" {
			return "Skip " + o.PageID
		}
		return fmt.Sprintf("Skip %s (%s)", o.PageID, o.Detail)
	case batch.StatusDownloaded:
		return fmt.Sprintf("Downloaded %s: %s", o.PageID, o.Detail)
	case batch.StatusPatched:
		if o.Detail != "" {
			return fmt.Sprintf("Updated %s (%s)", o.PageID, o.Detail)
		}
		return "Updated " + o.PageID
	case batch.StatusWarned:
		return fmt.Sprintf("WARN %s: %s", o.PageID, o.Detail)
	case batch.StatusFailed:
		return fmt.Sprintf("ERROR %s: %s", o.PageID, o.Message())
	default:
		return fmt.Sprintf("%s %s", o.Status, o.PageID)
	}
}

func statusColor(status batch.Status) string {
	switch status {
	case batch.StatusDownloaded, batch.StatusPatched:
		return ansiGreen
	case batch.StatusWarned:
		return ansiYellow
	case batch.StatusFailed:
		return ansiRed
	default:
		return ""
	}
}

// Summary writes the phase by status table.
func (r *Reporter) Summary(s *batch.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, SummaryTable(s, r.terminal))
}

// SummaryTable renders counts for every phase present in s.
func SummaryTable(s *batch.Summary, rounded bool) string {
	statuses := batch.Statuses()
	headers := []string{"Phase"}
	aligns := []Alignment{AlignLeft}
	for _, status := range statuses {
		headers = append(headers, string(status))
		aligns = append(aligns, AlignRight)
	}
	headers = append(headers, "total")
	aligns = append(aligns, AlignRight)

	var rows [][]string
	for _, phase := range batch.Phases() {
		if s.PhaseTotal(phase) == 0 {
			continue
		}
		row := []string{string(phase)}
		for _, status := range statuses {
			row = append(row, strconv.Itoa(s.Count(phase, status)))
		}
		row = append(row, strconv.Itoa(s.PhaseTotal(phase)))
		rows = append(rows, row)
	}
	return RenderTable(headers, rows, aligns, rounded)
}
