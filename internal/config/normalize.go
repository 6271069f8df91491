package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeProject(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFetch()
	c.normalizePatch()
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeProject() error {
	var err error
	if strings.TrimSpace(c.Project.Root) == "" || c.Project.Root == defaultProjectRoot {
		if value, ok := os.LookupEnv("HEROPATCH_PROJECT_ROOT"); ok && strings.TrimSpace(value) != "" {
			c.Project.Root = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Project.Root) == "" {
		c.Project.Root = defaultProjectRoot
	}
	if c.Project.Root, err = expandPath(c.Project.Root); err != nil {
		return fmt.Errorf("project.root: %w", err)
	}
	c.Project.Namespace = strings.Trim(strings.TrimSpace(c.Project.Namespace), "/")
	if c.Project.Namespace == "" {
		c.Project.Namespace = defaultNamespace
	}
	c.Project.ImagesDir = strings.TrimSpace(c.Project.ImagesDir)
	if c.Project.ImagesDir == "" {
		c.Project.ImagesDir = defaultImagesDir
	}
	c.Project.PagesDir = strings.TrimSpace(c.Project.PagesDir)
	if c.Project.PagesDir == "" {
		c.Project.PagesDir = defaultPagesDir
	}
	c.Project.SourceFile = strings.TrimSpace(c.Project.SourceFile)
	if c.Project.SourceFile == "" {
		c.Project.SourceFile = defaultSourceFile
	}
	c.Project.PublicURLPrefix = strings.TrimRight(strings.TrimSpace(c.Project.PublicURLPrefix), "/")
	if c.Project.PublicURLPrefix == "" {
		c.Project.PublicURLPrefix = defaultPublicURLPrefix
	}
	if !strings.HasPrefix(c.Project.PublicURLPrefix, "/") {
		c.Project.PublicURLPrefix = "/" + c.Project.PublicURLPrefix
	}
	c.Project.AssetSuffix = strings.TrimSpace(c.Project.AssetSuffix)
	if c.Project.AssetSuffix == "" {
		c.Project.AssetSuffix = defaultAssetSuffix
	}
	c.Project.Catalog = strings.TrimSpace(c.Project.Catalog)
	if c.Project.Catalog == "" {
		if value, ok := os.LookupEnv("HEROPATCH_CATALOG"); ok {
			c.Project.Catalog = strings.TrimSpace(value)
		}
	}
	if c.Project.Catalog, err = expandPath(c.Project.Catalog); err != nil {
		return fmt.Errorf("project.catalog: %w", err)
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFetch() {
	c.Fetch.BaseURL = strings.TrimRight(strings.TrimSpace(c.Fetch.BaseURL), "/")
	if c.Fetch.BaseURL == "" {
		c.Fetch.BaseURL = defaultFetchBaseURL
	}
	c.Fetch.Dimensions = strings.Trim(strings.TrimSpace(c.Fetch.Dimensions), "/")
	if c.Fetch.MinCachedBytes < 0 {
		c.Fetch.MinCachedBytes = 0
	}
	if c.Fetch.PauseMillis < 0 {
		c.Fetch.PauseMillis = 0
	}
	if c.Fetch.TimeoutSeconds < 0 {
		c.Fetch.TimeoutSeconds = 0
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizePatch() {
	c.Patch.Profile = strings.ToLower(strings.TrimSpace(c.Patch.Profile))
	if c.Patch.Profile == "" {
		c.Patch.Profile = defaultProfile
	}
	if len(c.Profiles) == 0 {
		return
	}
	profiles := make(map[string]Profile, len(c.Profiles))
	for name, profile := range c.Profiles {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		for i := range profile.InsertionPoints {
			profile.InsertionPoints[i].Placement = strings.ToLower(strings.TrimSpace(profile.InsertionPoints[i].Placement))
			if profile.InsertionPoints[i].Placement == "" {
				profile.InsertionPoints[i].Placement = "after"
			}
		}
		profiles[key] = profile
	}
	c.Profiles = profiles
}

func (c *Config) normalizeJournal() error {
	var err error
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = filepath.Join(c.Paths.StateDir, defaultJournalFile)
	}
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.Textfile, err = expandPath(strings.TrimSpace(c.Metrics.Textfile)); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
