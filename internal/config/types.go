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

// Package config types define the configuration structures used throughout
// sprint-harvest. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for sprint-harvest. It is
// constructed once at startup and passed by value to every component; nothing
// rebinds it after construction.
type Config struct {
	GitHub   GitHubConfig      `yaml:"github"`
	Defaults DefaultsConfig    `yaml:"defaults"`
	Sprints  map[string]Sprint `yaml:"sprints"`
}

// GitHubConfig contains GitHub-specific settings including the API endpoint
// and authentication configuration. A custom endpoint allows GitHub
// Enterprise deployments.
type GitHubConfig struct {
	APIEndpoint string `yaml:"api_endpoint"`
	TokenEnv    string `yaml:"token_env"`
}

// DefaultsConfig contains default settings that apply to all reports unless
// overridden by command-line flags.
type DefaultsConfig struct {
	Organization string `yaml:"organization"`
	Repository   string `yaml:"repository"`
	User         string `yaml:"user"`
	BatchSize    int    `yaml:"batch_size"`
	BranchPrefix string `yaml:"branch_prefix"`
	OutputDir    string `yaml:"output_dir"`
}

// Sprint is one entry in the sprint lookup table: a named date range that
// defines the crawl window. Dates are inclusive calendar days in
// YYYY-MM-DD form.
type Sprint struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// DefaultConfig returns a Config with sensible defaults suitable for public
// GitHub.com usage. The sprint table is empty; sprints come from the config
// file.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint: "https://api.github.com",
			TokenEnv:    "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			BatchSize:    25,
			BranchPrefix: "release/",
			OutputDir:    "csvs",
		},
		Sprints: make(map[string]Sprint),
	}
}
