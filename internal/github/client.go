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

package github

import "context"

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// SearchIssues retrieves one page of the issue search endpoint for the
	// given query. Pages are 1-indexed.
	SearchIssues(ctx context.Context, query string, page, perPage int) (*SearchPage, error)

	// GetPullDetail retrieves the pull request detail record from the URL
	// carried by a search item.
	GetPullDetail(ctx context.Context, url string) (*PullDetail, error)

	// ListIssueComments retrieves all conversation comments for a pull
	// request.
	ListIssueComments(ctx context.Context, org, repo string, number int) ([]IssueComment, error)

	// ListCommits retrieves one page of commits authored by author within
	// [since, until]. The endpoint returns a bare list with no reported
	// total.
	ListCommits(ctx context.Context, org, repo, author string, since, until string, page, perPage int) ([]Commit, error)

	// GetCommitDetail retrieves the commit detail record (stats, files) from
	// the URL carried by a commit list entry.
	GetCommitDetail(ctx context.Context, url string) (*CommitDetail, error)
}
