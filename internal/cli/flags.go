// Package cli provides flag binding and validation for the materials-assistant CLI.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/CodexForgeBR/materials-assistant/internal/config"
)

// BindFlags registers the global flags on cmd's persistent flag set.
// The flags write directly into cfg; call ValidateFlags after parsing.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	// Config sources
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to a KEY=VALUE config file")
	flags.StringVar(&cfg.EnvFile, "env-file", ".env", "Path to a dotenv file (ignored if missing)")

	// Provider
	flags.StringVar(&cfg.Model, "model", cfg.Model, "Model identifier")
	flags.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "OpenAI-compatible API base URL")

	// Sampling
	flags.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "Sampling temperature (0-2)")
	flags.IntVar(&cfg.MaxTokens, "max-tokens", cfg.MaxTokens, "Maximum tokens in the answer (0 = provider default)")

	// Retry policy
	flags.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "Total calls before giving up on an overloaded model")
	flags.IntVar(&cfg.BaseDelayMS, "base-delay-ms", cfg.BaseDelayMS, "First backoff delay in milliseconds")
	flags.IntVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "Per-attempt network timeout in seconds")

	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging")
}

// BindServeFlags registers the flags specific to the serve subcommand.
func BindServeFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVarP(&cfg.ListenAddr, "listen", "l", cfg.ListenAddr, "Address for the web UI")
}

// ValidateFlags checks flag values that can be rejected before loading
// configuration files.
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}
	if changed(cmd, "max-attempts") && cfg.MaxAttempts < 1 {
		return fmt.Errorf("--max-attempts must be at least 1, got: %d", cfg.MaxAttempts)
	}
	if changed(cmd, "temperature") && (cfg.Temperature < 0 || cfg.Temperature > 2) {
		return fmt.Errorf("--temperature must be between 0 and 2, got: %g", cfg.Temperature)
	}
	return nil
}

// BuildOverrides creates a map of CLI flag overrides from cfg.
// Only flags explicitly set by the user are included, so values loaded from
// files and the environment are not clobbered by flag defaults.
func BuildOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)

	stringFlags := map[string]struct {
		key string
		val string
	}{
		"model":    {"MODEL", cfg.Model},
		"base-url": {"BASE_URL", cfg.BaseURL},
		"listen":   {"LISTEN_ADDR", cfg.ListenAddr},
	}
	for flag, mapping := range stringFlags {
		if changed(cmd, flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	intFlags := map[string]struct {
		key string
		val int
	}{
		"max-tokens":      {"MAX_TOKENS", cfg.MaxTokens},
		"max-attempts":    {"MAX_ATTEMPTS", cfg.MaxAttempts},
		"base-delay-ms":   {"BASE_DELAY_MS", cfg.BaseDelayMS},
		"request-timeout": {"REQUEST_TIMEOUT", cfg.RequestTimeout},
	}
	for flag, mapping := range intFlags {
		if changed(cmd, flag) {
			overrides[mapping.key] = strconv.Itoa(mapping.val)
		}
	}

	if changed(cmd, "temperature") {
		overrides["TEMPERATURE"] = strconv.FormatFloat(cfg.Temperature, 'f', -1, 64)
	}
	if changed(cmd, "verbose") {
		overrides["VERBOSE"] = strconv.FormatBool(cfg.Verbose)
	}

	return overrides
}

// changed reports whether name was set on the command line, looking at both
// local and inherited persistent flags.
func changed(cmd *cobra.Command, name string) bool {
	var f *pflag.Flag
	if f = cmd.Flags().Lookup(name); f == nil {
		f = cmd.InheritedFlags().Lookup(name)
	}
	return f != nil && f.Changed
}
