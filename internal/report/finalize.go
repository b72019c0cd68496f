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

// Package report is the aggregator/reporter boundary: it applies the single
// final ordering to the harvested records, discards the checkpoint on
// successful completion, and writes the CSV and JSON outputs.
package report

import (
	"cmp"
	"sort"

	"github.com/sirseerhq/sprint-harvest/internal/checkpoint"
)

// Direction selects the final sort order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Finalize applies a single stable sort by key to results and deletes the
// checkpoint file, signaling successful completion. This is the only
// ordering guarantee on the output; accumulation order has no bearing on it.
// Ties preserve relative input order. Duplicate keys, if a pagination race
// introduced any, pass through unaltered.
func Finalize[R any, K cmp.Ordered](results []R, key func(R) K, dir Direction, checkpointPath string) ([]R, error) {
	sort.SliceStable(results, func(i, j int) bool {
		if dir == Descending {
			return key(results[i]) > key(results[j])
		}
		return key(results[i]) < key(results[j])
	})

	if checkpointPath != "" {
		if err := checkpoint.Delete(checkpointPath); err != nil {
			return results, err
		}
	}
	return results, nil
}

// UniqueCount reports how many distinct keys appear across records. It is a
// summary statistic only; uniqueness is not enforced on the stored sequence.
func UniqueCount[R any, K comparable](records []R, key func(R) K) int {
	seen := make(map[K]struct{}, len(records))
	for _, r := range records {
		seen[key(r)] = struct{}{}
	}
	return len(seen)
}
