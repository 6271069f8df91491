package testsupport

import (
	"path/filepath"
	"testing"

	"heropatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The project root, state and log directories all live under one temp dir
// and the image service points at an unroutable address until overridden.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Project.Root = filepath.Join(base, "site")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfgVal.Journal.Path = filepath.Join(base, "state", "journal.db")
	cfgVal.Fetch.BaseURL = "http://127.0.0.1:1"
	cfgVal.Fetch.PauseMillis = 0
	cfgVal.Fetch.TimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithImageService points the fetch phase at baseURL.
func WithImageService(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Fetch.BaseURL = baseURL
	}
}

// WithProfile selects the default patch profile.
func WithProfile(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Patch.Profile = name
	}
}

// WithJournal enables or disables the run journal.
func WithJournal(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = enabled
	}
}

// WithMetricsTextfile enables the Prometheus textfile export under the temp dir.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Textfile = filepath.Join(b.baseDir, "metrics", "heropatch.prom")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Project.Root)
}
