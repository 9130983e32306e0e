/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ssargent/smbreplay/pkg/config"
)

// configCmd groups configuration commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the smbreplay configuration file",
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with a generated API key",
	Long: `Create a configuration file with defaults and a freshly generated API key.

Examples:
  smbreplay config init
  smbreplay config init --path ./smbreplay.yaml --data-dir ./replays --print-key`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")
		printKey, _ := cmd.Flags().GetBool("print-key")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		cfg, created, err := initConfig(path, dataDir, force)
		if err != nil {
			return err
		}
		if !created {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", path)
			return nil
		}

		cmd.Printf("✅ Configuration created at %s\n", path)
		if printKey {
			cmd.Printf("API key: %s\n", cfg.Security.APIKey)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().String("path", config.GetDefaultConfigPath(), "Where to write the config file")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configInitCmd.Flags().Bool("print-key", false, "Print the generated API key")
}

// initConfig bootstraps a config file at path unless one exists and force
// is false
func initConfig(path, dataDir string, force bool) (*config.Config, bool, error) {
	if config.ConfigExists(path) && !force {
		return nil, false, nil
	}
	cfg, err := config.BootstrapConfig(path, dataDir)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}
