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
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirseerhq/sprint-harvest/internal/github"
	"github.com/sirseerhq/sprint-harvest/internal/harvest"
	"github.com/sirseerhq/sprint-harvest/internal/report"
	"github.com/sirseerhq/sprint-harvest/internal/summary"
)

// ReleasePR is the report-ready record for a pull request targeting a
// release branch. Immutable once appended to the result set.
type ReleasePR struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	TargetBranch string     `json:"target_branch"`
	OriginBranch string     `json:"origin_branch"`
	LinesAdded   int        `json:"lines_added"`
	LinesDeleted int        `json:"lines_deleted"`
	CreatedAt    time.Time  `json:"created_at"`
	MergedAt     *time.Time `json:"merged_at"`
	State        string     `json:"state"`
	URL          string     `json:"url"`
}

// Status renders the state column: merged wins over the raw state.
func (r ReleasePR) Status() string {
	if r.MergedAt != nil {
		return "Merged"
	}
	if r.State == "" {
		return "Unknown"
	}
	return strings.ToUpper(r.State[:1]) + r.State[1:]
}

// RunPRs generates the release-PR report: pull requests authored by the
// target user in the sprint window whose base branch matches the configured
// prefix. Sorted by PR number descending.
func RunPRs(ctx context.Context, deps Deps, opts Options) error {
	start := opts.now()
	tracker := summary.New(deps.RunID, "pr", opts.params())
	log := deps.Log.With().Str("report", "pr").Logger()

	query := fmt.Sprintf("is:pr author:%s repo:%s/%s created:%s..%s",
		opts.User, opts.Org, opts.Repo, opts.StartDate, opts.EndDate)
	log.Info().Str("query", query).Str("branch_prefix", opts.BranchPrefix).Msg("searching pull requests")

	items, total := harvest.Paginate(ctx, log,
		func(ctx context.Context, page, perPage int) ([]github.SearchItem, int, error) {
			p, err := deps.Client.SearchIssues(ctx, query, page, perPage)
			if err != nil {
				return nil, 0, err
			}
			return p.Items, p.TotalCount, nil
		},
		harvest.PageOptions{Delay: opts.PageDelay})
	log.Info().Int("fetched", len(items)).Int("total", total).Msg("search complete")

	if len(items) == 0 {
		log.Info().Msg("no pull requests found")
		return nil
	}

	chain := harvest.Chain[*harvest.ItemContext]{
		harvest.HasDetail(),
		harvest.TargetBranch(opts.BranchPrefix),
	}

	cpPath := opts.checkpointPath("pr", start)
	engine := &harvest.Engine[github.SearchItem, ReleasePR]{
		BatchSize:      opts.BatchSize,
		CheckpointPath: cpPath,
		ItemDelay:      opts.ItemDelay,
		Log:            log,
		Process: func(ctx context.Context, index, count int, item github.SearchItem) []ReleasePR {
			log.Info().
				Int("index", index+1).
				Int("of", count).
				Int("pr", item.Number).
				Str("title", truncate(item.Title, 50)).
				Msg("checking PR")

			ic := harvest.NewItemContext(deps.Client, item)
			ok, name, reason := chain.Evaluate(ctx, ic)
			if !ok {
				log.Info().Int("pr", item.Number).Str("predicate", name).Str("reason", reason).Msg("skipping")
				return nil
			}

			detail, _ := ic.Detail(ctx)
			origin := ""
			if detail.Head != nil {
				origin = detail.Head.Ref
			}
			pr := ReleasePR{
				Number:       item.Number,
				Title:        item.Title,
				TargetBranch: detail.Base.Ref,
				OriginBranch: origin,
				LinesAdded:   detail.Additions,
				LinesDeleted: detail.Deletions,
				CreatedAt:    item.CreatedAt,
				MergedAt:     detail.MergedAt,
				State:        item.State,
				URL:          item.HTMLURL,
			}
			log.Info().
				Int("pr", pr.Number).
				Str("from", pr.OriginBranch).
				Str("to", pr.TargetBranch).
				Msg("added")
			return []ReleasePR{pr}
		},
	}

	results, err := engine.Run(ctx, items)
	if err != nil {
		return err
	}

	finalized, err := report.Finalize(results,
		func(r ReleasePR) int { return r.Number }, report.Descending, cpPath)
	if err != nil {
		return err
	}

	if len(finalized) == 0 {
		log.Info().Msg("no release PRs found")
		return nil
	}

	files := report.Filenames(opts.OutputDir, opts.User, "pr", opts.Sprint, opts.now())
	if err := report.Write(files, prTable(), finalized); err != nil {
		return err
	}

	added, deleted := 0, 0
	for _, r := range finalized {
		added += r.LinesAdded
		deleted += r.LinesDeleted
	}
	log.Info().
		Int("release_prs", len(finalized)).
		Int("lines_added", added).
		Int("lines_deleted", deleted).
		Int("net_lines", added-deleted).
		Str("csv", files.CSVPath).
		Str("json", files.JSONPath).
		Msg("report complete")

	return writeSummary(log, tracker, opts.OutputDir, summary.Results{
		ItemsFetched:  len(items),
		TotalReported: total,
		Records:       len(finalized),
		UniqueKeys:    report.UniqueCount(finalized, func(r ReleasePR) int { return r.Number }),
		APICalls:      apiCalls(deps.Client),
		LinesAdded:    added,
		LinesDeleted:  deleted,
	})
}

// prTable maps ReleasePR records to the fixed CSV column layout.
func prTable() report.Table[ReleasePR] {
	return report.Table[ReleasePR]{
		Columns: []string{
			"PR Number", "Title", "Target Branch", "Origin Branch",
			"Lines Added", "Lines Deleted", "Net Lines", "Status",
			"Created At", "Merged At", "URL",
		},
		Row: func(r ReleasePR) []string {
			merged := ""
			if r.MergedAt != nil {
				merged = formatTime(*r.MergedAt)
			}
			return []string{
				strconv.Itoa(r.Number),
				r.Title,
				r.TargetBranch,
				r.OriginBranch,
				strconv.Itoa(r.LinesAdded),
				strconv.Itoa(r.LinesDeleted),
				strconv.Itoa(r.LinesAdded - r.LinesDeleted),
				r.Status(),
				formatTime(r.CreatedAt),
				merged,
				r.URL,
			}
		},
	}
}
