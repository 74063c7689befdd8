// Package cmd provides the command-line interface for rendershield with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. RENDERSHIELD_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (RENDERSHIELD_SERVER_PORT, etc.)
//	4. Configuration files (.rendershield.yml) - lowest priority
//
// Environment Variables:
//
//	RENDERSHIELD_CONFIG_FILE: Path to custom configuration file
//	RENDERSHIELD_SERVER_PORT: Override server port
//	RENDERSHIELD_SERVER_HOST: Override server host
//	RENDERSHIELD_PREVIEW_ERROR_OVERLAY: Enable/disable the failure overlay
//	And more following the RENDERSHIELD_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rendershield",
	Short: "Render boundaries and fallback previews for Go templ components",
	Long: `Rendershield wraps templ components in render boundaries: a failure while
producing a component's output is contained at the boundary and replaced with
a fallback presentation instead of breaking the page. A failed boundary stays
failed until its source changes and the boundary is recreated.

Key Features:
  • Boundary-protected component rendering
  • Fallback substitution with a configurable policy for failing fallbacks
  • Failure overlay in the preview server
  • Hot reload that recreates boundaries on source changes
  • WebSocket-based live updates

Quick Start:
  rendershield init               Write a starter .rendershield.yml
  rendershield serve              Start the preview server
  rendershield list               List components and boundary states
  rendershield render Button      Render one component to stdout`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .rendershield.yml, can also use RENDERSHIELD_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	bindFlag(rootCmd.PersistentFlags(), "log.level", "log-level")
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. RENDERSHIELD_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .rendershield.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("RENDERSHIELD_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rendershield")
	}

	// Enable automatic environment variable binding with RENDERSHIELD_ prefix
	// Examples: RENDERSHIELD_SERVER_PORT, RENDERSHIELD_PREVIEW_ERROR_OVERLAY
	viper.SetEnvPrefix("RENDERSHIELD")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing or malformed config files fall back to defaults without failing
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
