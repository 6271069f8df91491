package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"heropatch/internal/batch"
	"heropatch/internal/catalog"
	"heropatch/internal/config"
)

type commandContext struct {
	configFlag  *string
	projectFlag *string
	catalogFlag *string
	verbose     *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	catalogOnce sync.Once
	catalog     *catalog.Catalog
	catalogErr  error
}

func newCommandContext(configFlag, projectFlag, catalogFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		projectFlag: projectFlag,
		catalogFlag: catalogFlag,
		verbose:     verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = fmt.Errorf("%w: %w", batch.ErrConfiguration, err)
			return
		}
		if project := flagValue(c.projectFlag); project != "" {
			root, err := config.ExpandPath(project)
			if err != nil {
				c.configErr = fmt.Errorf("%w: resolve --project: %w", batch.ErrConfiguration, err)
				return
			}
			cfg.Project.Root = root
		}
		if catalogPath := flagValue(c.catalogFlag); catalogPath != "" {
			expanded, err := config.ExpandPath(catalogPath)
			if err != nil {
				c.configErr = fmt.Errorf("%w: resolve --catalog: %w", batch.ErrConfiguration, err)
				return
			}
			cfg.Project.Catalog = expanded
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// ensureCatalog loads the configured catalog, or the built-in one.
func (c *commandContext) ensureCatalog() (*catalog.Catalog, error) {
	c.catalogOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.catalogErr = err
			return
		}
		c.catalog, c.catalogErr = catalog.Load(cfg.Project.Catalog)
	})
	return c.catalog, c.catalogErr
}

// layout resolves project paths; a catalog namespace wins over the
// configured one.
func (c *commandContext) layout(cat *catalog.Catalog) (config.Layout, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return config.Layout{}, err
	}
	layout := cfg.Layout()
	if cat != nil && cat.Namespace != "" {
		layout.Namespace = cat.Namespace
	}
	return layout, nil
}

func (c *commandContext) verboseEnabled() bool {
	return c.verbose != nil && *c.verbose
}

func flagValue(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
