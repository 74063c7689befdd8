package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/rendershield/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the effective configuration as YAML, after defaults, the config
file, environment variables, and flags have been applied.

Examples:
  rendershield config
  rendershield config --config custom.yml`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	out, err := cfg.Dump()
	if err != nil {
		return fmt.Errorf("dumping config: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
