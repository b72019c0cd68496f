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
	"time"

	"github.com/rs/zerolog"
)

// Default pagination policy. The delay is a fixed courtesy pause between
// page requests, not adaptive backoff.
const (
	DefaultPerPage   = 100
	DefaultPageDelay = 300 * time.Millisecond
)

// PageFunc fetches one page of an endpoint. Pages are 1-indexed. The second
// return value is the endpoint's reported total across all pages; endpoints
// that report none (bare list endpoints) return 0.
type PageFunc[T any] func(ctx context.Context, page, perPage int) ([]T, int, error)

// PageOptions configures a pagination run. Zero values select the defaults.
type PageOptions struct {
	PerPage int
	Delay   time.Duration
}

// Paginate drives fetch from page 1 until exhaustion: an empty page, a page
// shorter than the page size, or an accumulated count reaching the reported
// total. A fetch failure truncates silently: whatever has been accumulated is
// returned along with the best-known total, and a warning is logged. Items
// are returned in API-delivered order with no deduplication.
func Paginate[T any](ctx context.Context, log zerolog.Logger, fetch PageFunc[T], opts PageOptions) ([]T, int) {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	delay := opts.Delay
	if delay == 0 {
		delay = DefaultPageDelay
	}

	var all []T
	total := 0

	for page := 1; ; page++ {
		log.Info().Int("page", page).Msg("fetching page")

		items, reported, err := fetch(ctx, page, perPage)
		if err != nil {
			log.Warn().Err(err).Int("page", page).Msg("page fetch failed, returning partial results")
			break
		}
		if reported > 0 {
			total = reported
		}
		if len(items) == 0 {
			log.Info().Int("page", page).Msg("no more items")
			break
		}

		all = append(all, items...)
		log.Info().
			Int("page", page).
			Int("got", len(items)).
			Int("accumulated", len(all)).
			Int("total", total).
			Msg("page fetched")

		if len(items) < perPage {
			break
		}
		if total > 0 && len(all) >= total {
			break
		}

		if err := sleep(ctx, delay); err != nil {
			log.Warn().Err(err).Msg("pagination interrupted")
			break
		}
	}

	if total == 0 {
		total = len(all)
	}
	return all, total
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
