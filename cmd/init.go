package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const configFileName = ".rendershield.yml"

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a starter .rendershield.yml in the current directory with the default
server, boundary, watch, and logging settings spelled out.

Examples:
  rendershield init
  rendershield init --force`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configFileName); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configFileName)
	}

	scaffold := map[string]interface{}{
		"server": map[string]interface{}{
			"port":            8080,
			"host":            "localhost",
			"allowed_origins": []string{},
		},
		"preview": map[string]interface{}{
			"title":         "rendershield",
			"error_overlay": true,
		},
		"boundary": map[string]interface{}{
			"fallback_policy": "propagate",
			"static_fallback": "",
		},
		"watch": map[string]interface{}{
			"paths":            []string{"./components", "./views"},
			"exclude_patterns": []string{"*_test.templ", "*.bak"},
			"debounce_ms":      300,
		},
		"log": map[string]interface{}{
			"level":  "info",
			"format": "text",
		},
	}

	out, err := yaml.Marshal(scaffold)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configFileName, out, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", configFileName, err)
	}

	fmt.Printf("Wrote %s\n", configFileName)
	return nil
}
