package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"heropatch/internal/batch"
	"heropatch/internal/config"
	"heropatch/internal/fetcher"
	"heropatch/internal/patcher"
	"heropatch/internal/workflow"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit project.root (or export HEROPATCH_PROJECT_ROOT) before running heropatch.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration, catalog and project layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if _, statErr := os.Stat(ctx.configPath); statErr != nil {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}

			cat, err := ctx.ensureCatalog()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Catalog: %s (%d pages)\n", cat.Source, cat.Len())

			layout, err := ctx.layout(cat)
			if err != nil {
				return err
			}
			var profileErrs []string
			for _, name := range patcher.ProfileNames(cfg.Profiles) {
				if _, err := patcher.ResolveProfile(name, cfg.Profiles); err != nil {
					profileErrs = append(profileErrs, err.Error())
				}
			}
			if len(profileErrs) > 0 {
				return fmt.Errorf("%w: %s", batch.ErrConfiguration, strings.Join(profileErrs, "; "))
			}
			profile, err := patcher.ResolveProfile(cfg.Patch.Profile, cfg.Profiles)
			if err != nil {
				return err
			}
			p, err := patcher.New(patcher.Options{Layout: layout, Profile: profile})
			if err != nil {
				return err
			}
			runner := workflow.New(workflow.Options{Stages: workflow.StageSet{
				Fetcher: fetcher.New(fetcher.OptionsFromConfig(cfg, layout)),
				Patcher: p,
			}})
			for _, health := range runner.Health(cmd.Context(), batch.Phases()) {
				if health.Ready {
					fmt.Fprintf(out, "  %-16s ready\n", health.Name)
				} else {
					fmt.Fprintf(out, "  %-16s NOT READY: %s\n", health.Name, health.Detail)
				}
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
