package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"heropatch/internal/batch"
)

func TestReporterLines(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Header(batch.PhaseFetch)
	r.Outcome(batch.Outcome{PageID: "faq", Status: batch.StatusSkipped, Detail: "exists"})
	r.Outcome(batch.Outcome{PageID: "escrow", Status: batch.StatusDownloaded, Detail: "digital vault security"})
	r.Outcome(batch.Outcome{PageID: "rlusd", Status: batch.StatusFailed, Err: errors.New("fetch error: HTTP 503")})
	r.Header(batch.PhasePatch)
	r.Outcome(batch.Outcome{PageID: "escrow", Status: batch.StatusPatched})
	r.Outcome(batch.Outcome{PageID: "faq", Status: batch.StatusWarned, Detail: "no </LearnHero> found"})
	r.Outcome(batch.Outcome{PageID: "history", Status: batch.StatusSkipped, Detail: "no page.tsx"})

	want := strings.Join([]string{
		"=== Downloading images ===",
		"  Skip faq (exists)",
		"  Downloaded escrow: digital vault security",
		"  ERROR rlusd: fetch error: HTTP 503",
		"",
		"=== Updating page files ===",
		"  Updated escrow",
		"  WARN faq: no </LearnHero> found",
		"  Skip history (no page.tsx)",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("unexpected report (-want +got):\n%s", diff)
	}
}

func TestSummaryTable(t *testing.T) {
	s := batch.NewSummary()
	s.Add(batch.Outcome{Phase: batch.PhaseFetch, Status: batch.StatusDownloaded})
	s.Add(batch.Outcome{Phase: batch.PhaseFetch, Status: batch.StatusSkipped})
	s.Add(batch.Outcome{Phase: batch.PhasePatch, Status: batch.StatusWarned})

	out := SummaryTable(s, false)
	for _, want := range []string{"PHASE", "DOWNLOADED", "TOTAL", "| fetch ", "| patch "} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "╭") {
		t.Fatal("non-terminal output must use ASCII borders")
	}
	if !strings.Contains(SummaryTable(s, true), "╭") {
		t.Fatal("terminal output should use rounded borders")
	}
}

func TestSummaryTableSkipsEmptyPhases(t *testing.T) {
	s := batch.NewSummary()
	s.Add(batch.Outcome{Phase: batch.PhasePatch, Status: batch.StatusPatched})
	out := SummaryTable(s, false)
	if strings.Contains(out, "fetch") {
		t.Fatalf("unexpected fetch row:\n%s", out)
	}
}

func TestIsTerminalRejectsBuffers(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Fatal("buffer is not a terminal")
	}
}
