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

// Package checkpoint persists batch-processing progress so an interrupted
// harvest can resume. The file is a single JSON document, overwritten in full
// after every batch and deleted by the caller on successful completion. It
// has exactly one writer: the current process.
package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// CurrentVersion is the current checkpoint schema version.
// Increment this when making breaking changes to the State structure.
const CurrentVersion = 1

// ErrCorrupt indicates the checkpoint file exists but failed validation
// (undecodable, version mismatch or checksum mismatch). Callers treat it as
// "no usable checkpoint" and start fresh.
var ErrCorrupt = errors.New("checkpoint file is corrupted")

// State is the durable progress snapshot. Processed holds every raw input
// item consumed so far, in input order; its length is the resume offset.
// Results holds the records derived from the accepted items. Resume is
// index-based: it is only correct over an identical ordered input sequence.
type State[I, R any] struct {
	Version        int       `json:"version"`
	Checksum       string    `json:"checksum"`
	Timestamp      time.Time `json:"timestamp"`
	TotalItems     int       `json:"total_items"`
	ProcessedCount int       `json:"processed_count"`
	ResultsFound   int       `json:"results_found"`
	Processed      []I       `json:"processed"`
	Results        []R       `json:"results"`
}

// DefaultPath returns the checkpoint filename for a report kind, derived from
// the run start time, e.g. "pr_processing_progress_20250106_093015.json".
// Because the name embeds the start time, resume across invocations requires
// explicitly pointing the next run at the prior file.
func DefaultPath(report string, start time.Time) string {
	return fmt.Sprintf("%s_processing_progress_%s.json", report, start.Format("20060102_150405"))
}

// Save atomically writes the checkpoint to disk with integrity validation.
// It uses a write-to-temp-and-rename pattern and stores a checksum to detect
// corruption on load.
func Save[I, R any](state *State[I, R], path string) error {
	state.Version = CurrentVersion
	state.ProcessedCount = len(state.Processed)
	state.ResultsFound = len(state.Results)

	checksum, err := calculateChecksum(state)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	state.Checksum = checksum

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	tempFile := path + ".tmp"
	if writeErr := os.WriteFile(tempFile, data, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write temporary checkpoint file: %w", writeErr)
	}

	// Flush before the rename so a crash cannot leave a torn file behind
	// the final name.
	file, err := os.Open(tempFile)
	if err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Load reads and validates a checkpoint from disk. A missing file returns
// os.ErrNotExist (wrapped); validation failures return ErrCorrupt (wrapped).
func Load[I, R any](path string) (*State[I, R], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no checkpoint at %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read checkpoint %s: %w", path, err)
	}

	var state State[I, R]
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, ErrCorrupt)
	}

	if state.Version != CurrentVersion {
		return nil, fmt.Errorf("checkpoint version %d is incompatible with current version %d: %w",
			state.Version, CurrentVersion, ErrCorrupt)
	}

	savedChecksum := state.Checksum
	state.Checksum = ""

	calculated, err := calculateChecksum(&state)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}
	if savedChecksum != calculated {
		return nil, fmt.Errorf("checksum mismatch in %s: %w", path, ErrCorrupt)
	}
	state.Checksum = savedChecksum

	if len(state.Processed) != state.ProcessedCount {
		return nil, fmt.Errorf("processed count %d does not match %d stored items: %w",
			state.ProcessedCount, len(state.Processed), ErrCorrupt)
	}

	return &state, nil
}

// Delete removes the checkpoint file. Removing an already-absent file is not
// an error; deletion is the successful-completion signal.
func Delete(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint file: %w", err)
	}
	return nil
}

// calculateChecksum computes the SHA256 hash of the checkpoint content.
// The checksum field itself is excluded from the calculation.
func calculateChecksum[I, R any](state *State[I, R]) (string, error) {
	stateCopy := *state
	stateCopy.Checksum = ""

	data, err := json.Marshal(stateCopy)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
