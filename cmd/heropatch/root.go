package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var projectFlag string
	var catalogFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &projectFlag, &catalogFlag, &verbose)

	rootCmd := &cobra.Command{
		Use:           "heropatch",
		Short:         "Download hero images and embed them into site pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "", "Website checkout root (overrides project.root)")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "Catalog file (.toml, .json or .json5; overrides project.catalog)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror run logs to stderr")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newFetchCommand(ctx))
	rootCmd.AddCommand(newPatchCommand(ctx))
	rootCmd.AddCommand(newCatalogCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
