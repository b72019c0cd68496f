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

package harvest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirseerhq/sprint-harvest/internal/checkpoint"
)

// Default batch policy. The item delay is the fixed pause between item
// evaluations, matching the pagination courtesy delay in spirit.
const (
	DefaultBatchSize = 25
	DefaultItemDelay = 100 * time.Millisecond
)

// ProcessFunc evaluates one raw item and returns the records it yields:
// none when the filter pipeline rejects it or nothing is extracted, one or
// more when it survives. A rejected item still counts as processed.
type ProcessFunc[I, R any] func(ctx context.Context, index, total int, item I) []R

// Engine partitions a workload into contiguous batches, runs the process
// function over every item, and overwrites the checkpoint file with the full
// cumulative state after each batch. Rewriting the whole state is O(n²)
// bytes across a run, acceptable at the hundreds-to-low-thousands scale this
// tool operates at.
type Engine[I, R any] struct {
	BatchSize      int
	CheckpointPath string
	ItemDelay      time.Duration
	Log            zerolog.Logger
	Process        ProcessFunc[I, R]
}

// Run processes items and returns the accumulated records. If a checkpoint
// exists at CheckpointPath, the run resumes at the stored processed count;
// resume is index-based and assumes the input ordering is unchanged between
// runs. The checkpoint is left in place on return; deleting it on successful
// completion belongs to the finalize step.
func (e *Engine[I, R]) Run(ctx context.Context, items []I) ([]R, error) {
	batchSize := e.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	itemDelay := e.ItemDelay
	if itemDelay == 0 {
		itemDelay = DefaultItemDelay
	}

	var (
		processed []I
		results   []R
		start     int
	)

	if prior, err := checkpoint.Load[I, R](e.CheckpointPath); err == nil {
		processed = prior.Processed
		results = prior.Results
		start = len(processed)
		e.Log.Info().
			Int("processed", start).
			Int("results", len(results)).
			Msg("resuming from previous progress")
		if start > len(items) {
			return nil, fmt.Errorf("checkpoint covers %d items but input has only %d", start, len(items))
		}
	} else if errors.Is(err, checkpoint.ErrCorrupt) {
		e.Log.Warn().Err(err).Msg("ignoring unusable checkpoint, starting fresh")
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	total := len(items)

	for i := start; i < total; i += batchSize {
		end := i + batchSize
		if end > total {
			end = total
		}
		batch := items[i:end]
		batchNum := i/batchSize + 1
		e.Log.Info().
			Int("batch", batchNum).
			Int("from", i+1).
			Int("to", end).
			Int("of", total).
			Msg("processing batch")

		found := 0
		for j, item := range batch {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			records := e.Process(ctx, i+j, total, item)
			results = append(results, records...)
			found += len(records)

			if err := sleep(ctx, itemDelay); err != nil {
				return results, err
			}
		}
		processed = append(processed, batch...)

		state := &checkpoint.State[I, R]{
			Timestamp:  time.Now(),
			TotalItems: total,
			Processed:  processed,
			Results:    results,
		}
		if err := checkpoint.Save(state, e.CheckpointPath); err != nil {
			return results, fmt.Errorf("saving progress: %w", err)
		}
		e.Log.Info().
			Int("batch", batchNum).
			Int("found", found).
			Int("total_found", len(results)).
			Int("processed", len(processed)).
			Str("checkpoint", e.CheckpointPath).
			Msg("batch complete, progress saved")
	}

	return results, nil
}
