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

// Package reports wires the harvest core into the three concrete reports:
// release-targeting pull requests, review comments and commits. Each report
// is the same pipeline — paginate, batch-filter with checkpointing, finalize,
// write — varying only in query, predicate subset, record type, sort key and
// column table.
package reports

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sirseerhq/sprint-harvest/internal/checkpoint"
	"github.com/sirseerhq/sprint-harvest/internal/github"
	"github.com/sirseerhq/sprint-harvest/internal/summary"
)

// Deps are the shared collaborators of every report run.
type Deps struct {
	Client github.Client
	Log    zerolog.Logger
	RunID  string
}

// Options are the per-run inputs, resolved by the cmd layer from flags,
// environment and config file. The struct is immutable for the duration of
// the run.
type Options struct {
	Org, Repo, User string
	Sprint          string
	StartDate       string // YYYY-MM-DD, inclusive
	EndDate         string // YYYY-MM-DD, inclusive
	BatchSize       int
	BranchPrefix    string
	OutputDir       string

	// CheckpointPath points a run at a prior checkpoint file to resume it.
	// Empty derives a fresh name from the run start time.
	CheckpointPath string

	// PageDelay and ItemDelay override the fixed rate-limit pauses.
	// Zero selects the defaults; tests set a negative value to disable.
	PageDelay time.Duration
	ItemDelay time.Duration

	// Clock supplies the current time for file naming. Nil means time.Now.
	Clock func() time.Time
}

func (o Options) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

func (o Options) checkpointPath(kind string, start time.Time) string {
	if o.CheckpointPath != "" {
		return o.CheckpointPath
	}
	return checkpoint.DefaultPath(kind, start)
}

func (o Options) params() summary.Params {
	return summary.Params{
		Organization: o.Org,
		Repository:   o.Repo,
		User:         o.User,
		Sprint:       o.Sprint,
		StartDate:    o.StartDate,
		EndDate:      o.EndDate,
		BatchSize:    o.BatchSize,
	}
}

// apiCalls reads the call counter when the client is the counting wrapper.
func apiCalls(c github.Client) int {
	if cc, ok := c.(*github.CountingClient); ok {
		return cc.Calls()
	}
	return 0
}

// writeSummary persists the run summary. The summary is supplemental audit
// data; a write failure is logged, not escalated.
func writeSummary(log zerolog.Logger, tracker *summary.Tracker, dir string, res summary.Results) error {
	path, err := summary.WriteFile(dir, tracker.Finish(res))
	if err != nil {
		log.Warn().Err(err).Msg("failed to write run summary")
		return nil
	}
	log.Info().Str("summary", path).Msg("run summary written")
	return nil
}

// truncate shortens s to at most n runes for progress narration.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// formatTime renders a timestamp for CSV output, empty for the zero value.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
