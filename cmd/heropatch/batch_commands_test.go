package main

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"heropatch/internal/batch"
	"heropatch/internal/testsupport"
)

func TestRunDownloadsThenPatchesAndIsIdempotent(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	requireContains(t, out, "=== Downloading images ===")
	requireContains(t, out, "Downloaded faq: question answer help desk")
	requireContains(t, out, "Downloaded escrow: digital vault security")
	requireContains(t, out, "=== Updating page files ===")
	requireContains(t, out, "Updated faq")
	requireContains(t, out, "WARN escrow: no </LearnHero> found")
	if got := env.requests.Load(); got != 2 {
		t.Fatalf("expected 2 downloads, got %d", got)
	}

	page := testsupport.ReadPage(t, env.layout, "faq")
	requireContains(t, page, `import Image from "next/image";`)
	requireContains(t, page, `src="/images/learn/faq-hero.jpg"`)
	requireContains(t, page, `alt="FAQ hero"`)
	if strings.Index(page, "faq-hero.jpg") < strings.Index(page, "</LearnHero>") {
		t.Fatalf("image should follow the LearnHero block:\n%s", page)
	}
	if got := testsupport.ReadPage(t, env.layout, "escrow"); got != testsupport.ClientPage {
		t.Fatalf("escrow page should be untouched under the hero profile:\n%s", got)
	}

	out, _, err = runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	requireContains(t, out, "Skip faq (exists)")
	requireContains(t, out, "Skip faq (already has hero image)")
	if got := env.requests.Load(); got != 2 {
		t.Fatalf("cached assets should not be downloaded again, got %d requests", got)
	}
	if again := testsupport.ReadPage(t, env.layout, "faq"); again != page {
		t.Fatalf("second run changed the page:\n%s", again)
	}

	data, err := os.ReadFile(env.cfg.Metrics.Textfile)
	if err != nil {
		t.Fatalf("read metrics textfile: %v", err)
	}
	requireContains(t, string(data), "heropatch_entries_total")
}

func TestPatchFallbackProfileUsesCatalogAnchors(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"patch", "--profile", "fallback"}, env.configPath)
	if err != nil {
		t.Fatalf("patch: %v\n%s", err, out)
	}
	requireContains(t, out, "Updated escrow")
	requireNotContains(t, out, "Downloading images")
	requireNotContains(t, out, " faq")

	page := testsupport.ReadPage(t, env.layout, "escrow")
	requireContains(t, page, "\"use client\";\nimport Image from \"next/image\";\n")
	requireContains(t, page, `src="/images/learn/escrow-hero.jpg"`)
	requireContains(t, page, `alt="Escrow hero image"`)
	if env.requests.Load() != 0 {
		t.Fatalf("patch must not download")
	}
}

func TestPatchDryRunLeavesPagesUntouched(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"patch", "--dry-run", "--page", "faq"}, env.configPath)
	if err != nil {
		t.Fatalf("patch --dry-run: %v", err)
	}
	requireContains(t, out, "Updated faq")
	requireContains(t, out, "Dry run: no page files were written")
	if got := testsupport.ReadPage(t, env.layout, "faq"); got != testsupport.HeroPage {
		t.Fatalf("dry run wrote the page:\n%s", got)
	}
}

func TestFetchUnknownPageIsConfigurationError(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"fetch", "--page", "missing"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown page")
	}
	if !errors.Is(err, batch.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, err.Error(), "missing")
	if env.requests.Load() != 0 {
		t.Fatalf("no download expected")
	}
}

func TestHistoryListsRunsAndOutcomes(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"fetch", "--page", "faq"}, env.configPath); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, _, err := runCLI(t, []string{"patch", "--page", "faq"}, env.configPath); err != nil {
		t.Fatalf("patch: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var runs []runJSON
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	var fetchRun, patchRun runJSON
	for _, run := range runs {
		switch strings.Join(run.Phases, "+") {
		case "fetch":
			fetchRun = run
		case "patch":
			patchRun = run
		}
	}
	if patchRun.Counts["patch.patched"] != 1 || patchRun.FinishedAt == "" {
		t.Fatalf("unexpected patch run: %+v", patchRun)
	}
	if fetchRun.Counts["fetch.downloaded"] != 1 {
		t.Fatalf("unexpected fetch run: %+v", fetchRun)
	}

	out, _, err = runCLI(t, []string{"history", "--run", fetchRun.ID}, env.configPath)
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	requireContains(t, out, "Run "+fetchRun.ID)
	requireContains(t, out, "downloaded")

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history table: %v", err)
	}
	requireContains(t, out, patchRun.ID)
	requireContains(t, out, "PROFILE")
}

func TestRunSkipFetchOnlyPatches(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run", "--skip-fetch", "--page", "faq"}, env.configPath)
	if err != nil {
		t.Fatalf("run --skip-fetch: %v", err)
	}
	requireNotContains(t, out, "Downloading images")
	requireContains(t, out, "Updated faq")
	if env.requests.Load() != 0 {
		t.Fatalf("--skip-fetch must not download")
	}
}
