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
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Table maps a record type to tabular form: a fixed column-name list and a
// value extractor producing one row per record, in stable column order.
type Table[R any] struct {
	Columns []string
	Row     func(R) []string
}

// FileSet names the pair of output files for one run.
type FileSet struct {
	CSVPath  string
	JSONPath string
}

// Filenames constructs the output paths for a run. Names embed the target
// identity, report kind, sprint id and a generation timestamp:
//
//	<dir>/<user>-<report>-sprint-<sprint>-<YYYYMMDD_HHMMSS>.csv
func Filenames(dir, user, kind, sprint string, now time.Time) FileSet {
	stamp := now.Format("20060102_150405")
	base := fmt.Sprintf("%s-%s-sprint-%s-%s", user, kind, sprint, stamp)
	return FileSet{
		CSVPath:  filepath.Join(dir, base+".csv"),
		JSONPath: filepath.Join(dir, base+".json"),
	}
}

// Write emits the finalized records as a CSV table and a full-fidelity JSON
// array. The output directory is created if missing. Callers must not invoke
// Write with zero records; an empty result set produces no files at all.
func Write[R any](files FileSet, table Table[R], records []R) error {
	if err := os.MkdirAll(filepath.Dir(files.CSVPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeCSV(files.CSVPath, table, records); err != nil {
		return err
	}
	return writeJSON(files.JSONPath, records)
}

func writeCSV[R any](path string, table Table[R], records []R) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(table.Columns); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, record := range records {
		if err := w.Write(table.Row(record)); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return file.Close()
}

func writeJSON[R any](path string, records []R) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return file.Close()
}
