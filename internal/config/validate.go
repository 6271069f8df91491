package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var dimensionsPattern = regexp.MustCompile(`^[0-9]+x[0-9]+$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProject(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateProfiles(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProject() error {
	if strings.Contains(c.Project.Namespace, "..") {
		return fmt.Errorf("project.namespace %q must not contain '..'", c.Project.Namespace)
	}
	for key, value := range map[string]string{
		"project.images_dir": c.Project.ImagesDir,
		"project.pages_dir":  c.Project.PagesDir,
	} {
		if filepath.IsAbs(value) {
			return fmt.Errorf("%s must be relative to project.root, got %q", key, value)
		}
	}
	if strings.ContainsAny(c.Project.SourceFile, `/\`) {
		return fmt.Errorf("project.source_file must be a file name, got %q", c.Project.SourceFile)
	}
	if strings.ContainsAny(c.Project.AssetSuffix, `/\`) {
		return fmt.Errorf("project.asset_suffix must not contain path separators, got %q", c.Project.AssetSuffix)
	}
	return nil
}

func (c *Config) validateFetch() error {
	parsed, err := url.Parse(c.Fetch.BaseURL)
	if err != nil {
		return fmt.Errorf("fetch.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("fetch.base_url must be an http(s) url, got %q", c.Fetch.BaseURL)
	}
	if c.Fetch.Dimensions != "" && !dimensionsPattern.MatchString(c.Fetch.Dimensions) {
		return fmt.Errorf("fetch.dimensions must look like 1200x400, got %q", c.Fetch.Dimensions)
	}
	return nil
}

func (c *Config) validateProfiles() error {
	for name, profile := range c.Profiles {
		for i, point := range profile.InsertionPoints {
			if strings.TrimSpace(point.Match) == "" {
				return fmt.Errorf("profiles.%s.insertion_points[%d].match must be set", name, i)
			}
			switch point.Placement {
			case "before", "after":
			default:
				return fmt.Errorf("profiles.%s.insertion_points[%d].placement must be before or after, got %q", name, i, point.Placement)
			}
		}
		if profile.ImageWidth < 0 || profile.ImageHeight < 0 {
			return fmt.Errorf("profiles.%s image dimensions must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
}
