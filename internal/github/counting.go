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

// CountingClient wraps a Client and counts API calls for the run summary.
// The core is single-threaded; the counter is a plain int.
type CountingClient struct {
	Inner Client
	calls int
}

// Calls returns the number of API calls issued through this client.
func (c *CountingClient) Calls() int { return c.calls }

// SearchIssues implements Client.
func (c *CountingClient) SearchIssues(ctx context.Context, query string, page, perPage int) (*SearchPage, error) {
	c.calls++
	return c.Inner.SearchIssues(ctx, query, page, perPage)
}

// GetPullDetail implements Client.
func (c *CountingClient) GetPullDetail(ctx context.Context, url string) (*PullDetail, error) {
	c.calls++
	return c.Inner.GetPullDetail(ctx, url)
}

// ListIssueComments implements Client.
func (c *CountingClient) ListIssueComments(ctx context.Context, org, repo string, number int) ([]IssueComment, error) {
	c.calls++
	return c.Inner.ListIssueComments(ctx, org, repo, number)
}

// ListCommits implements Client.
func (c *CountingClient) ListCommits(ctx context.Context, org, repo, author, since, until string, page, perPage int) ([]Commit, error) {
	c.calls++
	return c.Inner.ListCommits(ctx, org, repo, author, since, until, page, perPage)
}

// GetCommitDetail implements Client.
func (c *CountingClient) GetCommitDetail(ctx context.Context, url string) (*CommitDetail, error) {
	c.calls++
	return c.Inner.GetCommitDetail(ctx, url)
}
