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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	herrors "github.com/sirseerhq/sprint-harvest/internal/errors"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "harvest",
		Short: "Generate sprint activity reports from GitHub repository metadata",
		Long: `Sprint Harvest collects pull request, code review and commit metadata
from a GitHub repository for a named sprint window and a target user, then
emits CSV and JSON reports.

Long crawls checkpoint their progress after every batch; an interrupted run
can be resumed by pointing the next invocation at the checkpoint file.`,
		Version:       version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.AddCommand(newPRCommand(), newReviewCommand(), newCommitCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, herrors.ErrMissingToken) ||
		errors.Is(err, herrors.ErrMissingConfig) ||
		errors.Is(err, herrors.ErrUnknownSprint) {
		return 2 // Configuration/precondition errors
	}

	if errors.Is(err, herrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
