package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Project describes the website checkout being maintained and where assets
// and page sources live inside it.
type Project struct {
	Root            string `toml:"root"`
	Namespace       string `toml:"namespace"`
	ImagesDir       string `toml:"images_dir"`
	PagesDir        string `toml:"pages_dir"`
	SourceFile      string `toml:"source_file"`
	PublicURLPrefix string `toml:"public_url_prefix"`
	AssetSuffix     string `toml:"asset_suffix"`
	Catalog         string `toml:"catalog"`
}

// Paths contains tool-owned state and log directories.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Fetch contains configuration for the image download phase.
type Fetch struct {
	BaseURL        string `toml:"base_url"`
	Dimensions     string `toml:"dimensions"`
	MinCachedBytes int64  `toml:"min_cached_bytes"`
	PauseMillis    int    `toml:"pause_ms"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// Patch contains configuration for the page patch phase.
type Patch struct {
	Profile string `toml:"profile"`
}

// InsertionPoint is one candidate location for the import line.
type InsertionPoint struct {
	// Match is compared against the start of each trimmed source line.
	Match string `toml:"match"`
	// Placement is "before" or "after" the matched line.
	Placement string `toml:"placement"`
}

// Profile overrides fields of a built-in patch profile. Zero values inherit
// the built-in setting.
type Profile struct {
	Anchor          string           `toml:"anchor"`
	PageAnchors     bool             `toml:"page_anchors"`
	ImportLine      string           `toml:"import_line"`
	InsertionPoints []InsertionPoint `toml:"insertion_points"`
	WrapperClass    string           `toml:"wrapper_class"`
	Template        string           `toml:"template"`
	ImageWidth      int              `toml:"image_width"`
	ImageHeight     int              `toml:"image_height"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Journal contains configuration for the SQLite run history.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Metrics contains configuration for the Prometheus textfile export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for heropatch.
//
// Configuration sections by subsystem:
//   - Project: website checkout layout and catalog location
//   - Paths: state and log directories owned by the tool
//   - Fetch: remote image service and cache threshold
//   - Patch: default patch profile
//   - Profiles: per-profile overrides of the built-in patch strategies
//   - Logging: log format, level, and retention
//   - Journal: run history database
//   - Metrics: optional Prometheus textfile output
type Config struct {
	Project  Project            `toml:"project"`
	Paths    Paths              `toml:"paths"`
	Fetch    Fetch              `toml:"fetch"`
	Patch    Patch              `toml:"patch"`
	Profiles map[string]Profile `toml:"profiles"`
	Logging  Logging            `toml:"logging"`
	Journal  Journal            `toml:"journal"`
	Metrics  Metrics            `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/heropatch/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("heropatch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the tool owns. The website
// checkout itself is never created here.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// EnsureProject verifies that the configured website checkout exists.
func (c *Config) EnsureProject() error {
	info, err := os.Stat(c.Project.Root)
	if err != nil {
		return fmt.Errorf("project root %q: %w", c.Project.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project root %q is not a directory", c.Project.Root)
	}
	return nil
}

// LockPath returns the run lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "heropatch.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
