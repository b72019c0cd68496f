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

package reports

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirseerhq/sprint-harvest/internal/github"
)

func testDeps(client github.Client) Deps {
	return Deps{
		Client: client,
		Log:    zerolog.Nop(),
		RunID:  "test-run",
	}
}

func testOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{
		Org:            "acme",
		Repo:           "widgets",
		User:           "octocat",
		Sprint:         "2025-01",
		StartDate:      "2025-01-06",
		EndDate:        "2025-01-17",
		BatchSize:      25,
		BranchPrefix:   "release/",
		OutputDir:      filepath.Join(dir, "out"),
		CheckpointPath: filepath.Join(dir, "progress.json"),
		PageDelay:      -1,
		ItemDelay:      -1,
		Clock: func() time.Time {
			return time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)
		},
	}
}

// readCSV parses the single CSV file matched by pattern under dir and returns
// its rows including the header.
func readCSV(t *testing.T, dir, pattern string) [][]string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one file matching %q, found %d", pattern, len(matches))
	}
	file, err := os.Open(matches[0])
	if err != nil {
		t.Fatalf("failed to open %s: %v", matches[0], err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	return rows
}

// assertNoReportFiles fails if dir contains any CSV or JSON report output.
// The run summary does not count; it is audit data, not a report.
func assertNoReportFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		t.Fatalf("failed to read output dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), "-summary-") {
			continue
		}
		t.Errorf("unexpected output file %s", e.Name())
	}
}

func assertCheckpointGone(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected checkpoint %s to be deleted, stat returned %v", path, err)
	}
}

func day(d int, hour int) time.Time {
	return time.Date(2025, 1, d, hour, 0, 0, 0, time.UTC)
}
