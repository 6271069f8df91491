package batch_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"heropatch/internal/batch"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = batch.WithRunID(ctx, "run-1")
	ctx = batch.WithPhase(ctx, batch.PhasePatch)
	ctx = batch.WithPageID(ctx, "faq")

	if id, ok := batch.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if phase, ok := batch.PhaseFromContext(ctx); !ok || phase != batch.PhasePatch {
		t.Fatalf("unexpected phase: %v %v", phase, ok)
	}
	if page, ok := batch.PageIDFromContext(ctx); !ok || page != "faq" {
		t.Fatalf("unexpected page id: %v %v", page, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := batch.WithPageID(context.Background(), "")
	if _, ok := batch.PageIDFromContext(ctx); ok {
		t.Fatal("expected no page id")
	}
	ctx = batch.WithPhase(ctx, "")
	if _, ok := batch.PhaseFromContext(ctx); ok {
		t.Fatal("expected no phase")
	}
}

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := batch.Wrap(batch.ErrFetch, batch.PhaseFetch, "faq", "download", cause)
	if !errors.Is(err, batch.ErrFetch) {
		t.Fatalf("expected fetch marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "fetch: faq: download") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]struct {
		err  error
		want batch.Status
	}{
		"anchor":   {batch.Wrap(batch.ErrAnchorNotFound, batch.PhasePatch, "faq", "", nil), batch.StatusWarned},
		"missing":  {batch.Wrap(batch.ErrNotFound, batch.PhasePatch, "faq", "", nil), batch.StatusSkipped},
		"fetch":    {batch.Wrap(batch.ErrFetch, batch.PhaseFetch, "faq", "", nil), batch.StatusFailed},
		"unmarked": {errors.New("boom"), batch.StatusFailed},
	}
	for name, tc := range cases {
		if got := batch.Classify(tc.err); got != tc.want {
			t.Fatalf("%s: got %s want %s", name, got, tc.want)
		}
	}
}

func TestSummaryCounts(t *testing.T) {
	s := batch.NewSummary()
	s.Add(batch.Outcome{PageID: "a", Phase: batch.PhaseFetch, Status: batch.StatusDownloaded})
	s.Add(batch.Outcome{PageID: "b", Phase: batch.PhaseFetch, Status: batch.StatusSkipped})
	s.Add(batch.Outcome{PageID: "a", Phase: batch.PhasePatch, Status: batch.StatusWarned})

	if s.Total != 3 {
		t.Fatalf("total = %d", s.Total)
	}
	if got := s.Count(batch.PhaseFetch, batch.StatusDownloaded); got != 1 {
		t.Fatalf("downloaded = %d", got)
	}
	if got := s.PhaseTotal(batch.PhaseFetch); got != 2 {
		t.Fatalf("fetch total = %d", got)
	}
	if got := s.Count(batch.PhasePatch, batch.StatusPatched); got != 0 {
		t.Fatalf("patched = %d", got)
	}
}

func TestOutcomeChanged(t *testing.T) {
	if (batch.Outcome{Status: batch.StatusWarned}).Changed() {
		t.Fatal("plain warning should not count as change")
	}
	if !(batch.Outcome{Status: batch.StatusWarned, ImportAdded: true}).Changed() {
		t.Fatal("warning with import insertion should count as change")
	}
	if !(batch.Outcome{Status: batch.StatusPatched}).Changed() {
		t.Fatal("patched should count as change")
	}
}

func TestSummaryAddCount(t *testing.T) {
	s := batch.NewSummary()
	s.AddCount(batch.PhaseFetch, batch.StatusDownloaded, 3)
	s.AddCount(batch.PhaseFetch, batch.StatusFailed, 0)
	s.Add(batch.Outcome{Phase: batch.PhaseFetch, Status: batch.StatusFailed})
	if s.Total != 4 || s.Count(batch.PhaseFetch, batch.StatusDownloaded) != 3 || s.PhaseTotal(batch.PhaseFetch) != 4 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
