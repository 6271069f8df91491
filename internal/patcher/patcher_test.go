package patcher

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"heropatch/internal/batch"
	"heropatch/internal/catalog"
	"heropatch/internal/config"
	"heropatch/internal/testsupport"
)

func newPatcher(t *testing.T, profileName string, dryRun bool, logger *slog.Logger) (*Patcher, config.Layout) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	profile, err := ResolveProfile(profileName, nil)
	require.NoError(t, err)
	layout := cfg.Layout()
	p, err := New(Options{Layout: layout, Profile: profile, DryRun: dryRun, Logger: logger})
	require.NoError(t, err)
	return p, layout
}

func faqEntry() catalog.Entry {
	return catalog.Entry{
		PageID:  "faq",
		Query:   "question answer help desk",
		AltText: "Frequently asked questions about XRP",
		Anchor:  `<div className="mx-auto max-w-4xl px-4 py-16">`,
	}
}

func TestPatchHeroPage(t *testing.T) {
	p, layout := newPatcher(t, ProfileHero, false, nil)
	testsupport.WritePage(t, layout, "faq", testsupport.HeroPage)

	outcome := p.Patch(context.Background(), faqEntry())
	require.Equal(t, batch.StatusPatched, outcome.Status, outcome.Message())
	require.True(t, outcome.ImportAdded)
	require.True(t, outcome.Changed())

	got := testsupport.ReadPage(t, layout, "faq")
	require.Contains(t, got, "import { Metadata } from \"next\";\n"+ImageImport+"\nimport LearnHero")
	require.Contains(t, got, "</LearnHero>\n\n        <div className=\"mt-8 mb-12")
	require.Contains(t, got, `src="/images/learn/faq-hero.jpg"`)
	require.Contains(t, got, `alt="Frequently asked questions about XRP"`)
	require.Contains(t, got, "</div>\n      <section>Body</section>")
}

func TestPatchSecondRunDoesNotRewrite(t *testing.T) {
	p, layout := newPatcher(t, ProfileHero, false, nil)
	path := testsupport.WritePage(t, layout, "faq", testsupport.HeroPage)

	first := p.Patch(context.Background(), faqEntry())
	require.Equal(t, batch.StatusPatched, first.Status)

	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))
	before := testsupport.ReadPage(t, layout, "faq")

	second := p.Patch(context.Background(), faqEntry())
	require.Equal(t, batch.StatusSkipped, second.Status)
	require.Equal(t, "already has hero image", second.Detail)
	require.Equal(t, before, testsupport.ReadPage(t, layout, "faq"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(old), "unchanged page was rewritten")
}

func TestPatchMissingPageIsSkipped(t *testing.T) {
	p, _ := newPatcher(t, ProfileHero, false, nil)
	outcome := p.Patch(context.Background(), faqEntry())
	require.Equal(t, batch.StatusSkipped, outcome.Status)
	require.Equal(t, "no page.tsx", outcome.Detail)
	require.True(t, errors.Is(outcome.Err, batch.ErrNotFound))
}

func TestPatchAnchorMissingWritesImportAndWarns(t *testing.T) {
	p, layout := newPatcher(t, ProfileHero, false, nil)
	page := "import { Metadata } from \"next\";\n\nexport default function Page() { return <main />; }\n"
	testsupport.WritePage(t, layout, "faq", page)

	outcome := p.Patch(context.Background(), faqEntry())
	require.Equal(t, batch.StatusWarned, outcome.Status)
	require.Equal(t, "no </LearnHero> found", outcome.Detail)
	require.ErrorIs(t, outcome.Err, batch.ErrAnchorNotFound)
	require.True(t, outcome.Changed())
	require.Equal(t, 1, strings.Count(testsupport.ReadPage(t, layout, "faq"), ImageImport))
}

func TestPatchFallbackProfile(t *testing.T) {
	p, layout := newPatcher(t, ProfileFallback, false, nil)
	testsupport.WritePage(t, layout, "faq", testsupport.ClientPage)

	entries := []catalog.Entry{faqEntry(), {PageID: "xrp-etf", AltText: "XRP ETF"}}
	var observed []string
	outcomes := p.Batch(context.Background(), entries, func(o batch.Outcome) { observed = append(observed, o.PageID) })
	require.Len(t, outcomes, 1)
	require.Equal(t, []string{"faq"}, observed)
	require.Equal(t, batch.StatusPatched, outcomes[0].Status)

	got := testsupport.ReadPage(t, layout, "faq")
	require.True(t, strings.HasPrefix(got, "\"use client\";\n"+ImageImport+"\nimport { useState }"), got)
	require.Contains(t, got, faqEntry().Anchor+"\n        <div className=\"mb-8 overflow-hidden")
}

func TestPatchDryRunLeavesFile(t *testing.T) {
	p, layout := newPatcher(t, ProfileHero, true, nil)
	testsupport.WritePage(t, layout, "faq", testsupport.HeroPage)

	outcome := p.Patch(context.Background(), faqEntry())
	require.Equal(t, batch.StatusPatched, outcome.Status)
	require.Equal(t, testsupport.HeroPage, testsupport.ReadPage(t, layout, "faq"))
}

func TestPatchLogsMissingImportPoint(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p, layout := newPatcher(t, ProfileHero, false, logger)
	testsupport.WritePage(t, layout, "faq", "export default function Page() {\n  return <LearnHero title=\"x\"></LearnHero>;\n}\n")

	outcome := p.Patch(context.Background(), faqEntry())
	require.Equal(t, batch.StatusPatched, outcome.Status)
	require.False(t, outcome.ImportAdded)
	require.Contains(t, buf.String(), `"event_type":"import_point_missing"`)
	require.Contains(t, buf.String(), `"component":"patcher"`)
	require.Contains(t, buf.String(), `"alert":"unresolved_import"`)
}

func TestPatcherHealthCheck(t *testing.T) {
	p, layout := newPatcher(t, ProfileHero, false, nil)
	require.False(t, p.HealthCheck(context.Background()).Ready)

	testsupport.WritePage(t, layout, "faq", testsupport.HeroPage)
	health := p.HealthCheck(context.Background())
	require.True(t, health.Ready, health.Detail)
	require.Equal(t, "patch:hero", health.Name)
}
