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
	"os"
	"path/filepath"
	"testing"

	"github.com/sirseerhq/sprint-harvest/internal/checkpoint"
)

type row struct {
	Num  int
	Name string
}

func TestFinalizeSortDirections(t *testing.T) {
	tests := []struct {
		name string
		dir  Direction
		want []int
	}{
		{"ascending", Ascending, []int{1, 3, 5, 8}},
		{"descending", Descending, []int{8, 5, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := []row{{5, "a"}, {1, "b"}, {8, "c"}, {3, "d"}}
			got, err := Finalize(input, func(r row) int { return r.Num }, tt.dir, "")
			if err != nil {
				t.Fatalf("Finalize failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d rows, got %d", len(tt.want), len(got))
			}
			for i, want := range tt.want {
				if got[i].Num != want {
					t.Errorf("position %d: expected %d, got %d", i, want, got[i].Num)
				}
			}
		})
	}
}

func TestFinalizeStableOnTies(t *testing.T) {
	input := []row{{2, "first"}, {1, "x"}, {2, "second"}, {2, "third"}}
	got, err := Finalize(input, func(r row) int { return r.Num }, Ascending, "")
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	want := []string{"x", "first", "second", "third"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, got[i].Name)
		}
	}
}

func TestFinalizeDeletesCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	state := &checkpoint.State[int, row]{
		Processed: []int{1},
		Results:   []row{{1, "a"}},
	}
	if err := checkpoint.Save(state, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := Finalize([]row{{1, "a"}}, func(r row) int { return r.Num }, Ascending, path); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected checkpoint to be deleted, stat returned %v", err)
	}
}

func TestFinalizeMissingCheckpointIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-written.json")
	if _, err := Finalize([]row{}, func(r row) int { return r.Num }, Ascending, path); err != nil {
		t.Fatalf("expected nil error for absent checkpoint, got %v", err)
	}
}

func TestUniqueCount(t *testing.T) {
	records := []row{{1, "a"}, {2, "b"}, {1, "c"}, {3, "d"}, {2, "e"}}
	if got := UniqueCount(records, func(r row) int { return r.Num }); got != 3 {
		t.Errorf("expected 3 unique keys, got %d", got)
	}
	if got := UniqueCount([]row{}, func(r row) int { return r.Num }); got != 0 {
		t.Errorf("expected 0 unique keys for empty input, got %d", got)
	}
}
