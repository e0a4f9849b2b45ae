// Package config loads and validates the run configuration from environment
// variables, an optional .env file, and an optional YAML config file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultThresholdDays is the activity threshold applied when none is configured.
const DefaultThresholdDays = 60

// Config is the validated configuration consumed by the core run.
type Config struct {
	Token         string
	Organizations []string
	ThresholdDays int
	OutputDir     string
}

// fileConfig mirrors the optional YAML config file.
type fileConfig struct {
	Organizations []string `yaml:"organizations,omitempty"`
	ThresholdDays int      `yaml:"threshold_days,omitempty"`
	OutputDir     string   `yaml:"output_dir,omitempty"`
}

// ValidationError reports configuration that cannot start a run. It is raised
// before any API access happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Load assembles the configuration. A .env file in the working directory is
// folded into the environment first. Precedence: environment over YAML file
// over defaults; CLI flags are applied on top by the caller.
func Load(path string) (*Config, error) {
	// .env is optional, like the environment it feeds.
	_ = godotenv.Load()

	cfg := &Config{
		ThresholdDays: DefaultThresholdDays,
		OutputDir:     ".",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if len(fc.Organizations) > 0 {
			cfg.Organizations = fc.Organizations
		}
		if fc.ThresholdDays != 0 {
			cfg.ThresholdDays = fc.ThresholdDays
		}
		if fc.OutputDir != "" {
			cfg.OutputDir = fc.OutputDir
		}
	}

	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("ORG_NAMES"); v != "" {
		cfg.Organizations = SplitOrgs(v)
	}
	if v := os.Getenv("DAYS_INACTIVE_THRESHOLD"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return nil, &ValidationError{Field: "DAYS_INACTIVE_THRESHOLD", Reason: "must be an integer"}
		}
		cfg.ThresholdDays = days
	}

	return cfg, nil
}

// Validate checks the assembled configuration before any API access.
func (c *Config) Validate() error {
	if c.Token == "" {
		return &ValidationError{Field: "token", Reason: "GITHUB_TOKEN is not set"}
	}
	if len(c.Organizations) == 0 {
		return &ValidationError{Field: "organizations", Reason: "no organization names configured"}
	}
	if c.ThresholdDays <= 0 {
		return &ValidationError{Field: "threshold", Reason: "must be a positive number of days"}
	}
	return nil
}

// SplitOrgs splits a comma-separated organization list, trimming blanks.
func SplitOrgs(s string) []string {
	var orgs []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			orgs = append(orgs, name)
		}
	}
	return orgs
}
