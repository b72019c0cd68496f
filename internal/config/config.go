// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for sprint-harvest with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags (applied by the cmd layer)
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// A .env file in the working directory is loaded before environment lookups,
// so local development credentials can live next to the checkout.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	herrors "github.com/sirseerhq/sprint-harvest/internal/errors"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from that
// specific file. Otherwise, it searches standard locations:
//   - .sprint-harvest.yaml (current directory)
//   - .sprint-harvest.yml (current directory)
//   - ~/.sprint-harvest/config.yaml
//   - ~/.sprint-harvest/config.yml
//
// Returns an error if the specified config file cannot be loaded, but
// succeeds with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Best effort; absence of a .env file is the normal case.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".sprint-harvest.yaml",
			".sprint-harvest.yml",
			filepath.Join(os.Getenv("HOME"), ".sprint-harvest", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".sprint-harvest", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Token resolves the GitHub token. flagToken wins; otherwise the environment
// variable named by the config (GITHUB_TOKEN by default) is consulted.
// An empty result is a fatal precondition, reported as ErrMissingToken.
func (c *Config) Token(flagToken string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	env := c.GitHub.TokenEnv
	if env == "" {
		env = "GITHUB_TOKEN"
	}
	if token := os.Getenv(env); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("set %s or use --token: %w", env, herrors.ErrMissingToken)
}

// ResolveSprint looks up a sprint by name and returns its date window.
// Unknown names produce an error listing the available sprints.
func (c *Config) ResolveSprint(name string) (Sprint, error) {
	sprint, ok := c.Sprints[name]
	if !ok {
		return Sprint{}, fmt.Errorf("sprint %q not found (available: %s): %w",
			name, strings.Join(c.SprintNames(), ", "), herrors.ErrUnknownSprint)
	}
	if sprint.Start == "" || sprint.End == "" {
		return Sprint{}, fmt.Errorf("sprint %q has an incomplete date range: %w",
			name, herrors.ErrUnknownSprint)
	}
	return sprint, nil
}

// SprintNames returns the sorted names of all configured sprints.
func (c *Config) SprintNames() []string {
	names := make([]string, 0, len(c.Sprints))
	for name := range c.Sprints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if org := os.Getenv("GITHUB_ORGANIZATION"); org != "" {
		cfg.Defaults.Organization = org
	}
	if repo := os.Getenv("GITHUB_REPOSITORY"); repo != "" {
		cfg.Defaults.Repository = repo
	}
	if user := os.Getenv("GITHUB_USERNAME"); user != "" {
		cfg.Defaults.User = user
	}
	if dir := os.Getenv("HARVEST_OUTPUT_DIR"); dir != "" {
		cfg.Defaults.OutputDir = dir
	}
}
