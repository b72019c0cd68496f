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

// previewLimit caps the comment preview column; the full body is preserved
// in the JSON output.
const previewLimit = 200

// ReviewComment is one review comment by the target user, carrying its pull
// request context.
type ReviewComment struct {
	PRNumber     int       `json:"pr_number"`
	PRTitle      string    `json:"pr_title"`
	PRAuthor     string    `json:"pr_author"`
	TargetBranch string    `json:"target_branch"`
	PRURL        string    `json:"pr_url"`
	CommentID    int64     `json:"comment_id"`
	CommentBody  string    `json:"comment_body"`
	FullBody     string    `json:"comment_full_body"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CommentURL   string    `json:"comment_url"`
}

// RunReviews generates the code-review report: comments written by the
// target user on other people's PRs targeting staging or release branches in
// the sprint window. Sorted by comment creation date ascending.
func RunReviews(ctx context.Context, deps Deps, opts Options) error {
	start := opts.now()
	tracker := summary.New(deps.RunID, "comments", opts.params())
	log := deps.Log.With().Str("report", "review").Logger()

	// The -author qualifier is a courtesy; the pipeline re-checks
	// authorship locally.
	query := fmt.Sprintf("is:pr repo:%s/%s created:%s..%s -author:%s",
		opts.Org, opts.Repo, opts.StartDate, opts.EndDate, opts.User)
	log.Info().Str("query", query).Str("user", opts.User).Msg("searching pull requests for review comments")

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
		harvest.NotSelfAuthored(opts.User),
		harvest.HasDetail(),
		harvest.TargetBranch(opts.BranchPrefix, "staging"),
	}

	cpPath := opts.checkpointPath("comment", start)
	engine := &harvest.Engine[github.SearchItem, ReviewComment]{
		BatchSize:      opts.BatchSize,
		CheckpointPath: cpPath,
		ItemDelay:      opts.ItemDelay,
		Log:            log,
		Process: func(ctx context.Context, index, count int, item github.SearchItem) []ReviewComment {
			ic := harvest.NewItemContext(deps.Client, item)
			ok, name, reason := chain.Evaluate(ctx, ic)
			if !ok {
				log.Info().
					Int("index", index+1).
					Int("of", count).
					Int("pr", item.Number).
					Str("predicate", name).
					Str("reason", reason).
					Msg("skipping")
				return nil
			}

			detail, _ := ic.Detail(ctx)
			log.Info().
				Int("index", index+1).
				Int("of", count).
				Int("pr", item.Number).
				Str("title", truncate(item.Title, 50)).
				Str("target", detail.Base.Ref).
				Msg("checking PR for comments")

			comments := extractUserComments(ctx, deps, opts, item, detail.Base.Ref)
			if len(comments) == 0 {
				log.Info().Int("pr", item.Number).Str("user", opts.User).Msg("no comments from user")
			} else {
				log.Info().Int("pr", item.Number).Int("comments", len(comments)).Msg("found comments")
			}
			return comments
		},
	}

	results, err := engine.Run(ctx, items)
	if err != nil {
		return err
	}

	finalized, err := report.Finalize(results,
		func(r ReviewComment) int64 { return r.CreatedAt.UnixNano() }, report.Ascending, cpPath)
	if err != nil {
		return err
	}

	if len(finalized) == 0 {
		log.Info().Str("user", opts.User).Msg("no comments found")
		return nil
	}

	files := report.Filenames(opts.OutputDir, opts.User, "comments", opts.Sprint, opts.now())
	if err := report.Write(files, reviewTable(), finalized); err != nil {
		return err
	}

	uniquePRs := report.UniqueCount(finalized, func(r ReviewComment) int { return r.PRNumber })
	log.Info().
		Int("comments", len(finalized)).
		Int("unique_prs", uniquePRs).
		Str("csv", files.CSVPath).
		Str("json", files.JSONPath).
		Msg("report complete")

	return writeSummary(log, tracker, opts.OutputDir, summary.Results{
		ItemsFetched:  len(items),
		TotalReported: total,
		Records:       len(finalized),
		UniqueKeys:    uniquePRs,
		APICalls:      apiCalls(deps.Client),
	})
}

// extractUserComments lists a PR's conversation comments and keeps those
// written by the target user. A fetch failure yields zero records; the item
// still counts as processed.
func extractUserComments(ctx context.Context, deps Deps, opts Options, item github.SearchItem, targetBranch string) []ReviewComment {
	comments, err := deps.Client.ListIssueComments(ctx, opts.Org, opts.Repo, item.Number)
	if err != nil {
		deps.Log.Warn().Err(err).Int("pr", item.Number).Msg("failed to list comments")
		return nil
	}

	var out []ReviewComment
	for _, c := range comments {
		if !strings.EqualFold(c.User.Login, opts.User) {
			continue
		}
		out = append(out, ReviewComment{
			PRNumber:     item.Number,
			PRTitle:      item.Title,
			PRAuthor:     item.User.Login,
			TargetBranch: targetBranch,
			PRURL:        item.HTMLURL,
			CommentID:    c.ID,
			CommentBody:  truncate(c.Body, previewLimit),
			FullBody:     c.Body,
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
			CommentURL:   c.HTMLURL,
		})
	}
	return out
}

// reviewTable maps ReviewComment records to the fixed CSV column layout.
func reviewTable() report.Table[ReviewComment] {
	return report.Table[ReviewComment]{
		Columns: []string{
			"PR Number", "PR Title", "PR Author", "Target Branch", "Comment ID",
			"Comment Preview", "Created At", "Updated At", "PR URL", "Comment URL",
		},
		Row: func(r ReviewComment) []string {
			return []string{
				strconv.Itoa(r.PRNumber),
				r.PRTitle,
				r.PRAuthor,
				r.TargetBranch,
				strconv.FormatInt(r.CommentID, 10),
				r.CommentBody,
				formatTime(r.CreatedAt),
				formatTime(r.UpdatedAt),
				r.PRURL,
				r.CommentURL,
			}
		},
	}
}
