package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// whitelistSet is a precomputed lookup table for fast whitelist membership checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// LoadFile parses a config file at the given path. Files ending in .yaml or
// .yml are read as a flat YAML mapping; anything else as KEY=VALUE lines.
func LoadFile(path string) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAMLFile(path)
	default:
		return loadKeyValueFile(path)
	}
}

// loadKeyValueFile parses a KEY=VALUE config file.
//
// Lines are processed according to these rules:
//   - Empty lines and lines starting with # are skipped.
//   - Lines without an = sign are skipped.
//   - Leading and trailing whitespace is trimmed from both key and value.
//   - A single pair of matching surrounding quotes is stripped from the value.
//   - Keys not present in WhitelistedVars are silently ignored.
func loadKeyValueFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := unquote(strings.TrimSpace(line[idx+1:]))

		if !whitelistSet[key] {
			continue
		}

		result[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return result, nil
}

// loadYAMLFile reads a flat mapping of whitelisted keys to scalar values.
// Nested values are rejected.
func loadYAMLFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	result := make(map[string]string, len(raw))
	for key, value := range raw {
		if !whitelistSet[key] || value == nil {
			continue
		}
		switch v := value.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("parse config file: %s must be a scalar", key)
		default:
			result[key] = fmt.Sprint(v)
		}
	}
	return result, nil
}

// LoadEnvFile reads a dotenv file without touching the process environment.
// Only whitelisted keys are returned.
func LoadEnvFile(path string) (map[string]string, error) {
	all, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return filterWhitelisted(all), nil
}

// FromEnvironment collects whitelisted variables using lookup, which is
// normally os.LookupEnv. Empty values are treated as unset.
func FromEnvironment(lookup func(string) (string, bool)) map[string]string {
	result := make(map[string]string)
	for _, key := range WhitelistedVars {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			result[key] = strings.TrimSpace(v)
		}
	}
	return result
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Dotenv file (envPath; a missing file is not an error)
//  3. Process environment
//  4. Explicit config file (explicitPath; must exist if specified)
//  5. CLI overrides (cliOverrides map)
func LoadWithPrecedence(envPath, explicitPath string, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	if envPath != "" {
		m, err := LoadEnvFile(envPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("env file: %w", err)
			}
		} else {
			ApplyMapToConfig(cfg, m)
		}
	}

	ApplyMapToConfig(cfg, FromEnvironment(os.LookupEnv))

	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit config: %w", err)
		}
		ApplyMapToConfig(cfg, m)
	}

	if len(cliOverrides) > 0 {
		ApplyMapToConfig(cfg, cliOverrides)
	}

	return cfg, nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Unknown keys are ignored. Numeric fields that fail to parse keep their
// previous value.
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "GEMINI_API_KEY":
			cfg.APIKey = value
		case "BASE_URL":
			cfg.BaseURL = value
		case "MODEL":
			cfg.Model = value
		case "TEMPERATURE":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				cfg.Temperature = v
			}
		case "MAX_TOKENS":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.MaxTokens = v
			}
		case "MAX_ATTEMPTS":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.MaxAttempts = v
			}
		case "BASE_DELAY_MS":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.BaseDelayMS = v
			}
		case "REQUEST_TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.RequestTimeout = v
			}
		case "LISTEN_ADDR":
			cfg.ListenAddr = value
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		}
	}
}

func filterWhitelisted(m map[string]string) map[string]string {
	result := make(map[string]string, len(m))
	for k, v := range m {
		if whitelistSet[k] {
			result[k] = v
		}
	}
	return result
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// parseBool interprets common boolean representations.
// "true", "1", "yes" (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
