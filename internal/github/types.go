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

// Package github provides a typed REST client for the handful of GitHub API
// endpoints the reports depend on. Each record kind has an explicit struct,
// so structural validation happens once at decode time instead of at every
// call site.
package github

import "time"

// User identifies an account. Only the login is needed; identity comparisons
// against the target user are case-insensitive and happen in the filter
// pipeline, not here.
type User struct {
	Login string `json:"login"`
}

// PullRequestLink is the search API's pointer from an issue-shaped search
// result to the pull request detail endpoint. It is nil on plain issues.
type PullRequestLink struct {
	URL string `json:"url"`
}

// SearchItem is one raw item from the issue search endpoint. Immutable once
// fetched.
type SearchItem struct {
	Number      int              `json:"number"`
	Title       string           `json:"title"`
	State       string           `json:"state"`
	CreatedAt   time.Time        `json:"created_at"`
	User        User             `json:"user"`
	HTMLURL     string           `json:"html_url"`
	PullRequest *PullRequestLink `json:"pull_request,omitempty"`
}

// SearchPage is one response from the paged search endpoint: the raw items
// plus the reported total across all pages.
type SearchPage struct {
	TotalCount int          `json:"total_count"`
	Items      []SearchItem `json:"items"`
}

// Ref names a branch.
type Ref struct {
	Ref string `json:"ref"`
}

// PullDetail is the per-item detail record. Base and Head are pointers so a
// response missing the nested mapping is detectable; the detail-availability
// predicate rejects on nil Base.
type PullDetail struct {
	Base      *Ref       `json:"base"`
	Head      *Ref       `json:"head"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	MergedAt  *time.Time `json:"merged_at"`
}

// IssueComment is one comment on a pull request's conversation.
type IssueComment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	HTMLURL   string    `json:"html_url"`
	User      User      `json:"user"`
}

// Commit is one entry from the repository commits list endpoint. URL is the
// API detail endpoint for the commit; HTMLURL is the browser link.
type Commit struct {
	SHA     string     `json:"sha"`
	URL     string     `json:"url"`
	HTMLURL string     `json:"html_url"`
	Commit  CommitInfo `json:"commit"`
}

// CommitInfo is the nested git-level commit data.
type CommitInfo struct {
	Message   string         `json:"message"`
	Author    CommitIdentity `json:"author"`
	Committer CommitIdentity `json:"committer"`
}

// CommitIdentity is a git author or committer signature.
type CommitIdentity struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// CommitDetail is the per-commit detail record carrying diff statistics.
type CommitDetail struct {
	Stats CommitStats  `json:"stats"`
	Files []CommitFile `json:"files"`
}

// CommitStats holds line counts for a commit.
type CommitStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// CommitFile is one changed file in a commit. Only its presence is counted.
type CommitFile struct {
	Filename string `json:"filename"`
}
