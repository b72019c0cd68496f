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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sprint-harvest/internal/config"
	herrors "github.com/sirseerhq/sprint-harvest/internal/errors"
	"github.com/sirseerhq/sprint-harvest/internal/github"
	"github.com/sirseerhq/sprint-harvest/internal/reports"
)

// commonFlags are the flags shared by every report subcommand. Flag values
// override environment variables, which override the config file.
type commonFlags struct {
	org        string
	repo       string
	user       string
	sprint     string
	token      string
	configPath string
	checkpoint string
	outputDir  string
	batchSize  int
}

func addCommonFlags(cmd *cobra.Command, f *commonFlags) {
	cmd.Flags().StringVar(&f.org, "org", "", "GitHub organization (overrides env/config)")
	cmd.Flags().StringVar(&f.repo, "repo", "", "GitHub repository (overrides env/config)")
	cmd.Flags().StringVar(&f.user, "user", "", "GitHub username to analyze (overrides env/config)")
	cmd.Flags().StringVar(&f.sprint, "sprint", "", "Sprint name from the config sprint table (required)")
	cmd.Flags().StringVar(&f.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&f.checkpoint, "checkpoint", "", "Resume from this checkpoint file")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "Directory for report files")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "Batch size for checkpointed processing")
	_ = cmd.MarkFlagRequired("sprint")
}

// setup resolves configuration, validates preconditions and constructs the
// shared collaborators for a report run.
func setup(f commonFlags) (reports.Deps, reports.Options, error) {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return reports.Deps{}, reports.Options{}, err
	}

	org := firstNonEmpty(f.org, cfg.Defaults.Organization)
	repo := firstNonEmpty(f.repo, cfg.Defaults.Repository)
	user := firstNonEmpty(f.user, cfg.Defaults.User)
	if org == "" || repo == "" || user == "" {
		return reports.Deps{}, reports.Options{},
			fmt.Errorf("organization, repository and user are required (org=%q repo=%q user=%q): %w",
				org, repo, user, herrors.ErrMissingConfig)
	}

	sprint, err := cfg.ResolveSprint(f.sprint)
	if err != nil {
		return reports.Deps{}, reports.Options{}, err
	}

	token, err := cfg.Token(f.token)
	if err != nil {
		return reports.Deps{}, reports.Options{}, err
	}

	restClient, err := github.NewRESTClient(cfg.GitHub.APIEndpoint, token)
	if err != nil {
		return reports.Deps{}, reports.Options{}, err
	}

	batchSize := f.batchSize
	if batchSize <= 0 {
		batchSize = cfg.Defaults.BatchSize
	}

	runID := uuid.NewString()
	log := newLogger().With().Str("run_id", runID).Logger()
	log.Info().
		Str("org", org).
		Str("repo", repo).
		Str("user", user).
		Str("sprint", f.sprint).
		Str("window", sprint.Start+".."+sprint.End).
		Msg("starting harvest")

	deps := reports.Deps{
		Client: &github.CountingClient{Inner: restClient},
		Log:    log,
		RunID:  runID,
	}
	opts := reports.Options{
		Org:            org,
		Repo:           repo,
		User:           user,
		Sprint:         f.sprint,
		StartDate:      sprint.Start,
		EndDate:        sprint.End,
		BatchSize:      batchSize,
		BranchPrefix:   cfg.Defaults.BranchPrefix,
		OutputDir:      firstNonEmpty(f.outputDir, cfg.Defaults.OutputDir),
		CheckpointPath: f.checkpoint,
	}
	return deps, opts, nil
}

func newLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
