package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/config"
)

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage verification configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			exitWithError(ExitConfigError, "%s already exists", configPath)
		}
		if err := config.Default().Save(configPath); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if humanOutput {
			cmd.Printf("wrote %s\n", configPath)
			return nil
		}
		return outputJSON(map[string]string{"status": "created", "path": configPath})
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if err := cfg.Validate(); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		return outputJSON(cfg)
	},
}
