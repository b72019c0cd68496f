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

func newCommitCommand() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Report commits by the target user",
		Long: `Report commits authored by the target user within the sprint window,
with per-commit line and file statistics. Platform merge commits and
"Merge branch" commits are excluded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, opts, err := setup(flags)
			if err != nil {
				return err
			}
			return reports.RunCommits(cmd.Context(), deps, opts)
		},
	}

	addCommonFlags(cmd, &flags)

	return cmd
}
