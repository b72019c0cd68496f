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

// Package summary records audit metadata about a harvest run: the parameters
// used, how much was fetched, how many API calls were made and how long it
// took. The record is written as JSON alongside the report files so external
// tools can analyze run history.
package summary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunSummary is the complete audit record for a single run.
type RunSummary struct {
	RunID      string  `json:"run_id"`
	Report     string  `json:"report"`
	Parameters Params  `json:"parameters"`
	Results    Results `json:"results"`
}

// Params captures the inputs of a run. Preserved to make runs reproducible
// and debuggable.
type Params struct {
	Organization string `json:"organization"`
	Repository   string `json:"repository"`
	User         string `json:"user"`
	Sprint       string `json:"sprint"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	BatchSize    int    `json:"batch_size"`
}

// Results holds the outcome statistics of a completed run.
type Results struct {
	ItemsFetched  int       `json:"items_fetched"`
	TotalReported int       `json:"total_reported"`
	Records       int       `json:"records"`
	UniqueKeys    int       `json:"unique_keys"`
	APICalls      int       `json:"api_calls_made"`
	LinesAdded    int       `json:"lines_added,omitempty"`
	LinesDeleted  int       `json:"lines_deleted,omitempty"`
	Duration      string    `json:"duration"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Tracker accumulates run statistics. Create one at the start of a run and
// call Finish when the reports are written.
type Tracker struct {
	runID  string
	report string
	params Params
	start  time.Time
}

// New creates a tracker for one run, stamped with the current time.
func New(runID, report string, params Params) *Tracker {
	return &Tracker{
		runID:  runID,
		report: report,
		params: params,
		start:  time.Now(),
	}
}

// Finish completes the summary with outcome statistics.
func (t *Tracker) Finish(res Results) *RunSummary {
	completed := time.Now()
	res.StartedAt = t.start
	res.CompletedAt = completed
	res.Duration = completed.Sub(t.start).Round(time.Millisecond).String()

	return &RunSummary{
		RunID:      t.runID,
		Report:     t.report,
		Parameters: t.params,
		Results:    res,
	}
}

// WriteFile persists the summary as indented JSON in dir, returning the
// written path. The filename follows the report naming scheme.
func WriteFile(dir string, s *RunSummary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s-summary-%s.json",
		s.Parameters.User, s.Report, s.Results.CompletedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write run summary: %w", err)
	}
	return path, nil
}
