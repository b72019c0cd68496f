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

package checkpoint

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type testItem struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

type testResult struct {
	Number int    `json:"number"`
	Branch string `json:"branch"`
}

func TestDefaultPath(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 30, 15, 0, time.UTC)

	got := DefaultPath("pr", start)
	want := "pr_processing_progress_20250106_093015.json"
	if got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "progress.json")

	state := &State[testItem, testResult]{
		Timestamp:  time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
		TotalItems: 3,
		Processed: []testItem{
			{Number: 1, Title: "first"},
			{Number: 2, Title: "second"},
		},
		Results: []testResult{
			{Number: 2, Branch: "release/1.0"},
		},
	}

	if err := Save(state, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load[testItem, testResult](path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", loaded.Version, CurrentVersion)
	}
	if loaded.ProcessedCount != 2 {
		t.Errorf("ProcessedCount = %d, want 2", loaded.ProcessedCount)
	}
	if loaded.ResultsFound != 1 {
		t.Errorf("ResultsFound = %d, want 1", loaded.ResultsFound)
	}
	if len(loaded.Processed) != 2 || loaded.Processed[1].Title != "second" {
		t.Errorf("Processed = %+v, want the two saved items in order", loaded.Processed)
	}
	if len(loaded.Results) != 1 || loaded.Results[0].Branch != "release/1.0" {
		t.Errorf("Results = %+v, want the saved result", loaded.Results)
	}
}

func TestSaveOverwritesInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")

	for i := 1; i <= 3; i++ {
		state := &State[testItem, testResult]{
			Timestamp: time.Now(),
			Processed: make([]testItem, i),
		}
		if err := Save(state, path); err != nil {
			t.Fatalf("Save #%d failed: %v", i, err)
		}
	}

	loaded, err := Load[testItem, testResult](path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ProcessedCount != 3 {
		t.Errorf("ProcessedCount = %d, want 3 (last write wins)", loaded.ProcessedCount)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load[testItem, testResult](filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load of missing file = %v, want os.ErrNotExist", err)
	}
}

func TestLoadRejectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(t *testing.T, path string)
	}{
		{
			name: "invalid JSON",
			corrupt: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "tampered content",
			corrupt: func(t *testing.T, path string) {
				data, err := os.ReadFile(path)
				if err != nil {
					t.Fatal(err)
				}
				tampered := strings.Replace(string(data), `"total_items":5`, `"total_items":6`, 1)
				if tampered == string(data) {
					t.Fatal("tamper target not found")
				}
				if err := os.WriteFile(path, []byte(tampered), 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "version mismatch",
			corrupt: func(t *testing.T, path string) {
				data, err := os.ReadFile(path)
				if err != nil {
					t.Fatal(err)
				}
				var raw map[string]json.RawMessage
				if err := json.Unmarshal(data, &raw); err != nil {
					t.Fatal(err)
				}
				raw["version"] = json.RawMessage("999")
				out, err := json.Marshal(raw)
				if err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, out, 0o600); err != nil {
					t.Fatal(err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "progress.json")
			state := &State[testItem, testResult]{
				Timestamp:  time.Now(),
				TotalItems: 5,
				Processed:  []testItem{{Number: 1}},
			}
			if err := Save(state, path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			tt.corrupt(t, path)

			if _, err := Load[testItem, testResult](path); !errors.Is(err, ErrCorrupt) {
				t.Errorf("Load = %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	state := &State[testItem, testResult]{Timestamp: time.Now()}
	if err := Save(state, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := Delete(path); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("checkpoint still exists after Delete")
	}

	// Deleting an already-absent file is not an error.
	if err := Delete(path); err != nil {
		t.Errorf("second Delete = %v, want nil", err)
	}
}
