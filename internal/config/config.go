// Package config provides configuration management for rendershield using
// Viper for flexible configuration loading from files, environment variables,
// and command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with RENDERSHIELD_ prefix, validation, and security checks. It
// manages server settings, boundary fallback policy, watch paths, and
// logging options.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Fallback policies for a boundary whose fallback renderer itself fails.
const (
	// FallbackPolicyPropagate returns the fallback failure to the caller.
	FallbackPolicyPropagate = "propagate"
	// FallbackPolicyStatic emits a configured static snippet instead.
	FallbackPolicyStatic = "static"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Preview  PreviewConfig  `yaml:"preview"`
	Boundary BoundaryConfig `yaml:"boundary"`
	Watch    WatchConfig    `yaml:"watch"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	Open           bool     `yaml:"open"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type PreviewConfig struct {
	// Title is used in the preview page shell.
	Title string `yaml:"title"`
	// ErrorOverlay controls whether absorbed failures are shown on-page.
	ErrorOverlay bool `yaml:"error_overlay"`
}

type BoundaryConfig struct {
	// FallbackPolicy decides what happens when a fallback renderer fails:
	// "propagate" (default) or "static".
	FallbackPolicy string `yaml:"fallback_policy"`
	// StaticFallback is the HTML emitted under the "static" policy.
	StaticFallback string `yaml:"static_fallback"`
}

type WatchConfig struct {
	Paths           []string `yaml:"paths"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	DebounceMs      int      `yaml:"debounce_ms"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle values set via viper directly (workaround for viper
	// slice/bool handling with Unmarshal)
	if viper.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}
	if viper.IsSet("preview.error_overlay") {
		config.Preview.ErrorOverlay = viper.GetBool("preview.error_overlay")
	}
	if viper.IsSet("boundary.fallback_policy") && config.Boundary.FallbackPolicy == "" {
		config.Boundary.FallbackPolicy = viper.GetString("boundary.fallback_policy")
	}
	if viper.IsSet("boundary.static_fallback") && config.Boundary.StaticFallback == "" {
		config.Boundary.StaticFallback = viper.GetString("boundary.static_fallback")
	}
	if viper.IsSet("watch.debounce_ms") && config.Watch.DebounceMs == 0 {
		config.Watch.DebounceMs = viper.GetInt("watch.debounce_ms")
	}
	if viper.IsSet("watch.paths") && len(config.Watch.Paths) == 0 {
		config.Watch.Paths = viper.GetStringSlice("watch.paths")
	}
	if viper.IsSet("watch.exclude_patterns") && len(config.Watch.ExcludePatterns) == 0 {
		config.Watch.ExcludePatterns = viper.GetStringSlice("watch.exclude_patterns")
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults fills in default values for anything not explicitly set.
func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}

	if config.Preview.Title == "" {
		config.Preview.Title = "rendershield"
	}
	if !viper.IsSet("preview.error_overlay") {
		config.Preview.ErrorOverlay = true
	}

	if config.Boundary.FallbackPolicy == "" {
		config.Boundary.FallbackPolicy = FallbackPolicyPropagate
	}
	if config.Boundary.FallbackPolicy == FallbackPolicyStatic && config.Boundary.StaticFallback == "" {
		config.Boundary.StaticFallback = "<p>Something went wrong.</p>"
	}

	if len(config.Watch.Paths) == 0 {
		config.Watch.Paths = []string{"./components", "./views"}
	}
	if len(config.Watch.ExcludePatterns) == 0 {
		config.Watch.ExcludePatterns = []string{"*_test.templ", "*.bak"}
	}
	if config.Watch.DebounceMs <= 0 {
		config.Watch.DebounceMs = 300
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

// Dump renders the effective configuration as YAML.
func (c *Config) Dump() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(out), nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateBoundaryConfig(&config.Boundary); err != nil {
		return fmt.Errorf("boundary config: %w", err)
	}

	if err := validateWatchConfig(&config.Watch); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log config: unsupported format %q (supported: text, json)", config.Log.Format)
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	return nil
}

// validateBoundaryConfig validates boundary configuration values
func validateBoundaryConfig(config *BoundaryConfig) error {
	switch config.FallbackPolicy {
	case FallbackPolicyPropagate, FallbackPolicyStatic:
	default:
		return fmt.Errorf("unsupported fallback_policy %q (supported: %s, %s)",
			config.FallbackPolicy, FallbackPolicyPropagate, FallbackPolicyStatic)
	}

	if config.FallbackPolicy == FallbackPolicyStatic && config.StaticFallback == "" {
		return fmt.Errorf("static fallback_policy requires static_fallback")
	}

	return nil
}

// validateWatchConfig validates watch configuration values
func validateWatchConfig(config *WatchConfig) error {
	for _, path := range config.Paths {
		if err := validatePath(path); err != nil {
			return fmt.Errorf("invalid watch path '%s': %w", path, err)
		}
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
