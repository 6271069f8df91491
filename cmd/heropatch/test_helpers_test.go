package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"heropatch/internal/config"
	"heropatch/internal/testsupport"
)

const testCatalog = `namespace = "learn"

[queries]
escrow = "digital vault security"
faq = "question answer help desk"

[alt_text]
faq = "FAQ hero"

[anchors]
escrow = '<div className="mx-auto max-w-4xl px-4 py-16">'
`

type cliTestEnv struct {
	cfg        *config.Config
	layout     config.Layout
	configPath string
	requests   *atomic.Int32
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("HEROPATCH_PROJECT_ROOT", "")

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(bytes.Repeat([]byte{0xff}, 4096))
	}))
	t.Cleanup(srv.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithImageService(srv.URL), testsupport.WithMetricsTextfile())
	catalogPath := filepath.Join(testsupport.BaseDir(cfg), "catalog.toml")
	if err := os.WriteFile(catalogPath, []byte(testCatalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cfg.Project.Catalog = catalogPath

	configPath := filepath.Join(homeDir, ".config", "heropatch", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	layout := cfg.Layout()
	testsupport.WritePage(t, layout, "faq", testsupport.HeroPage)
	testsupport.WritePage(t, layout, "escrow", testsupport.ClientPage)

	return &cliTestEnv{cfg: cfg, layout: layout, configPath: configPath, requests: &requests}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[project]
root = %q
catalog = %q

[paths]
state_dir = %q
log_dir = %q

[fetch]
base_url = %q
pause_ms = 0
timeout_seconds = 5

[journal]
path = %q

[metrics]
textfile = %q
`,
		cfg.Project.Root,
		cfg.Project.Catalog,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Fetch.BaseURL,
		cfg.Journal.Path,
		cfg.Metrics.Textfile,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", needle, haystack)
	}
}

func requireNotContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("expected output not to contain %q\noutput:\n%s", needle, haystack)
	}
}
