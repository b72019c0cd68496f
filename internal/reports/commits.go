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
	"strconv"
	"strings"
	"time"

	"github.com/sirseerhq/sprint-harvest/internal/github"
	"github.com/sirseerhq/sprint-harvest/internal/harvest"
	"github.com/sirseerhq/sprint-harvest/internal/report"
	"github.com/sirseerhq/sprint-harvest/internal/summary"
)

// CommitRecord is the report-ready record for one commit.
type CommitRecord struct {
	SHA           string    `json:"sha"`
	ShortSHA      string    `json:"short_sha"`
	Message       string    `json:"message"`
	FullMessage   string    `json:"full_message"`
	AuthorName    string    `json:"author_name"`
	AuthorEmail   string    `json:"author_email"`
	AuthorDate    time.Time `json:"author_date"`
	CommitterName string    `json:"committer_name"`
	CommitterDate time.Time `json:"committer_date"`
	LinesAdded    int       `json:"lines_added"`
	LinesDeleted  int       `json:"lines_deleted"`
	FilesChanged  int       `json:"files_changed"`
	URL           string    `json:"url"`
}

// notPlatformMerge rejects merge commits committed by the hosting platform
// itself (committer name "GitHub").
func notPlatformMerge() harvest.Predicate[github.Commit] {
	return harvest.Predicate[github.Commit]{
		Name: "platform-merge",
		Check: func(_ context.Context, c github.Commit) (bool, string) {
			if c.Commit.Committer.Name == "GitHub" {
				return false, "GitHub merge commit"
			}
			return true, ""
		},
	}
}

// notMergeBranch rejects commits whose message is a branch merge.
func notMergeBranch() harvest.Predicate[github.Commit] {
	return harvest.Predicate[github.Commit]{
		Name: "merge-branch",
		Check: func(_ context.Context, c github.Commit) (bool, string) {
			if strings.HasPrefix(firstLine(c.Commit.Message), "Merge branch") {
				return false, "merge branch commit"
			}
			return true, ""
		},
	}
}

// RunCommits generates the commit report: commits authored by the target
// user in the sprint window, excluding platform and branch merges. Sorted by
// author date ascending.
func RunCommits(ctx context.Context, deps Deps, opts Options) error {
	start := opts.now()
	tracker := summary.New(deps.RunID, "commit-list", opts.params())
	log := deps.Log.With().Str("report", "commit").Logger()

	log.Info().
		Str("user", opts.User).
		Str("from", opts.StartDate).
		Str("to", opts.EndDate).
		Msg("fetching commits")

	commits, total := harvest.Paginate(ctx, log,
		func(ctx context.Context, page, perPage int) ([]github.Commit, int, error) {
			// Bare list endpoint: no reported total.
			list, err := deps.Client.ListCommits(ctx, opts.Org, opts.Repo, opts.User,
				opts.StartDate, opts.EndDate, page, perPage)
			return list, 0, err
		},
		harvest.PageOptions{Delay: opts.PageDelay})
	log.Info().Int("fetched", len(commits)).Msg("commit list complete")

	if len(commits) == 0 {
		log.Info().Msg("no commits found")
		return nil
	}

	chain := harvest.Chain[github.Commit]{
		notPlatformMerge(),
		notMergeBranch(),
	}

	cpPath := opts.checkpointPath("commit", start)
	engine := &harvest.Engine[github.Commit, CommitRecord]{
		BatchSize:      opts.BatchSize,
		CheckpointPath: cpPath,
		ItemDelay:      opts.ItemDelay,
		Log:            log,
		Process: func(ctx context.Context, index, count int, c github.Commit) []CommitRecord {
			short := c.SHA
			if len(short) > 7 {
				short = short[:7]
			}
			message := firstLine(c.Commit.Message)
			log.Info().
				Int("index", index+1).
				Int("of", count).
				Str("sha", short).
				Str("message", truncate(message, 50)).
				Msg("checking commit")

			ok, name, reason := chain.Evaluate(ctx, c)
			if !ok {
				log.Info().Str("sha", short).Str("predicate", name).Str("reason", reason).Msg("skipping")
				return nil
			}

			// Stats enrich rather than gate: a failed detail fetch keeps
			// the commit with zero counts.
			added, deleted, files := 0, 0, 0
			if c.URL != "" {
				if detail, err := deps.Client.GetCommitDetail(ctx, c.URL); err != nil {
					log.Warn().Err(err).Str("sha", short).Msg("failed to get commit stats")
				} else {
					added = detail.Stats.Additions
					deleted = detail.Stats.Deletions
					files = len(detail.Files)
				}
			}

			record := CommitRecord{
				SHA:           c.SHA,
				ShortSHA:      short,
				Message:       message,
				FullMessage:   c.Commit.Message,
				AuthorName:    c.Commit.Author.Name,
				AuthorEmail:   c.Commit.Author.Email,
				AuthorDate:    c.Commit.Author.Date,
				CommitterName: c.Commit.Committer.Name,
				CommitterDate: c.Commit.Committer.Date,
				LinesAdded:    added,
				LinesDeleted:  deleted,
				FilesChanged:  files,
				URL:           c.HTMLURL,
			}
			log.Info().
				Str("sha", short).
				Int("added", added).
				Int("deleted", deleted).
				Int("files", files).
				Msg("added")
			return []CommitRecord{record}
		},
	}

	results, err := engine.Run(ctx, commits)
	if err != nil {
		return err
	}

	finalized, err := report.Finalize(results,
		func(r CommitRecord) int64 { return r.AuthorDate.UnixNano() }, report.Ascending, cpPath)
	if err != nil {
		return err
	}

	if len(finalized) == 0 {
		log.Info().Msg("no commits survived filtering")
		return nil
	}

	files := report.Filenames(opts.OutputDir, opts.User, "commit-list", opts.Sprint, opts.now())
	if err := report.Write(files, commitTable(opts.Sprint), finalized); err != nil {
		return err
	}

	added, deleted, changed := 0, 0, 0
	for _, r := range finalized {
		added += r.LinesAdded
		deleted += r.LinesDeleted
		changed += r.FilesChanged
	}
	log.Info().
		Int("commits", len(finalized)).
		Int("lines_added", added).
		Int("lines_deleted", deleted).
		Int("net_lines", added-deleted).
		Int("files_changed", changed).
		Str("csv", files.CSVPath).
		Str("json", files.JSONPath).
		Msg("report complete")

	return writeSummary(log, tracker, opts.OutputDir, summary.Results{
		ItemsFetched:  len(commits),
		TotalReported: total,
		Records:       len(finalized),
		UniqueKeys:    report.UniqueCount(finalized, func(r CommitRecord) string { return r.SHA }),
		APICalls:      apiCalls(deps.Client),
		LinesAdded:    added,
		LinesDeleted:  deleted,
	})
}

// firstLine returns the subject line of a commit message.
func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}

// commitTable maps CommitRecord rows to the fixed CSV column layout. The
// sprint name is a literal column so merged spreadsheets stay attributable.
func commitTable(sprint string) report.Table[CommitRecord] {
	return report.Table[CommitRecord]{
		Columns: []string{
			"Sprint", "SHA", "Short SHA", "Message", "Author Name", "Author Email",
			"Author Date", "Committer Name", "Committer Date",
			"Lines Added", "Lines Deleted", "Net Lines", "Files Changed", "URL",
		},
		Row: func(r CommitRecord) []string {
			return []string{
				sprint,
				r.SHA,
				r.ShortSHA,
				r.Message,
				r.AuthorName,
				r.AuthorEmail,
				formatTime(r.AuthorDate),
				r.CommitterName,
				formatTime(r.CommitterDate),
				strconv.Itoa(r.LinesAdded),
				strconv.Itoa(r.LinesDeleted),
				strconv.Itoa(r.LinesAdded - r.LinesDeleted),
				strconv.Itoa(r.FilesChanged),
				r.URL,
			}
		},
	}
}
