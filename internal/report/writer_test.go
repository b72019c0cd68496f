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

package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func TestFilenames(t *testing.T) {
	now := time.Date(2025, 1, 17, 9, 30, 45, 0, time.UTC)
	files := Filenames("csvs", "octocat", "pr", "2025-01", now)

	wantCSV := filepath.Join("csvs", "octocat-pr-sprint-2025-01-20250117_093045.csv")
	wantJSON := filepath.Join("csvs", "octocat-pr-sprint-2025-01-20250117_093045.json")
	if files.CSVPath != wantCSV {
		t.Errorf("expected CSV path %q, got %q", wantCSV, files.CSVPath)
	}
	if files.JSONPath != wantJSON {
		t.Errorf("expected JSON path %q, got %q", wantJSON, files.JSONPath)
	}
}

func TestWriteProducesCSVAndJSON(t *testing.T) {
	dir := t.TempDir()
	files := FileSet{
		CSVPath:  filepath.Join(dir, "out", "report.csv"),
		JSONPath: filepath.Join(dir, "out", "report.json"),
	}

	table := Table[row]{
		Columns: []string{"Num", "Name"},
		Row: func(r row) []string {
			return []string{strconv.Itoa(r.Num), r.Name}
		},
	}
	records := []row{{42, "alpha"}, {7, "beta, with comma"}}

	if err := Write(files, table, records); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	csvFile, err := os.Open(files.CSVPath)
	if err != nil {
		t.Fatalf("failed to open CSV: %v", err)
	}
	defer csvFile.Close()

	rows, err := csv.NewReader(csvFile).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d rows", len(rows))
	}
	if rows[0][0] != "Num" || rows[0][1] != "Name" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "42" || rows[1][1] != "alpha" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][1] != "beta, with comma" {
		t.Errorf("expected comma-bearing field to round-trip, got %q", rows[2][1])
	}

	data, err := os.ReadFile(files.JSONPath)
	if err != nil {
		t.Fatalf("failed to read JSON: %v", err)
	}
	var decoded []row
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Num != 42 || decoded[1].Name != "beta, with comma" {
		t.Errorf("unexpected JSON content: %+v", decoded)
	}
}

func TestWriteCreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	files := FileSet{
		CSVPath:  filepath.Join(dir, "report.csv"),
		JSONPath: filepath.Join(dir, "report.json"),
	}
	table := Table[row]{
		Columns: []string{"Name"},
		Row:     func(r row) []string { return []string{r.Name} },
	}

	if err := Write(files, table, []row{{1, "only"}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(files.CSVPath); err != nil {
		t.Errorf("expected CSV in created directory: %v", err)
	}
}
