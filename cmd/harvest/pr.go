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
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sprint-harvest/internal/reports"
)

func newPRCommand() *cobra.Command {
	var (
		flags        commonFlags
		branchPrefix string
	)

	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Report pull requests targeting release branches",
		Long: `Report pull requests authored by the target user within the sprint
window whose base branch matches the configured prefix (default: release/).

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, opts, err := setup(flags)
			if err != nil {
				return err
			}
			if branchPrefix != "" {
				opts.BranchPrefix = branchPrefix
			}
			return reports.RunPRs(cmd.Context(), deps, opts)
		},
	}

	addCommonFlags(cmd, &flags)
	cmd.Flags().StringVar(&branchPrefix, "branch-prefix", "", "Target branch prefix to filter (default: release/)")

	return cmd
}
