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

import (
	"context"
	"fmt"
)

// MockClient is a scripted in-memory implementation of the Client interface
// for testing. Pages are served in order; detail records are keyed by URL.
type MockClient struct {
	// SearchPages are served one per SearchIssues call, in order. A call
	// past the end returns an empty page.
	SearchPages []SearchPage

	// CommitPages are served one per ListCommits call, in order.
	CommitPages [][]Commit

	// PullDetails maps detail URL to the record to return.
	PullDetails map[string]*PullDetail

	// CommitDetails maps detail URL to the record to return.
	CommitDetails map[string]*CommitDetail

	// Comments maps PR number to the comment list to return.
	Comments map[int][]IssueComment

	// SearchErr, DetailErr, CommentsErr and CommitsErr force failures.
	SearchErr   error
	DetailErr   error
	CommentsErr error
	CommitsErr  error

	// DetailErrURLs forces a failure only for specific detail URLs.
	DetailErrURLs map[string]error

	// Call counters for verification.
	SearchCalls  int
	DetailCalls  int
	CommentCalls int
	CommitCalls  int
}

// SearchIssues implements Client.
func (m *MockClient) SearchIssues(ctx context.Context, query string, page, perPage int) (*SearchPage, error) {
	m.SearchCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if page-1 >= len(m.SearchPages) {
		return &SearchPage{}, nil
	}
	p := m.SearchPages[page-1]
	return &p, nil
}

// GetPullDetail implements Client.
func (m *MockClient) GetPullDetail(ctx context.Context, url string) (*PullDetail, error) {
	m.DetailCalls++
	if m.DetailErr != nil {
		return nil, m.DetailErr
	}
	if err, ok := m.DetailErrURLs[url]; ok {
		return nil, err
	}
	detail, ok := m.PullDetails[url]
	if !ok {
		return nil, fmt.Errorf("mock: no pull detail for %s", url)
	}
	return detail, nil
}

// ListIssueComments implements Client.
func (m *MockClient) ListIssueComments(ctx context.Context, org, repo string, number int) ([]IssueComment, error) {
	m.CommentCalls++
	if m.CommentsErr != nil {
		return nil, m.CommentsErr
	}
	return m.Comments[number], nil
}

// ListCommits implements Client.
func (m *MockClient) ListCommits(ctx context.Context, org, repo, author, since, until string, page, perPage int) ([]Commit, error) {
	m.CommitCalls++
	if m.CommitsErr != nil {
		return nil, m.CommitsErr
	}
	if page-1 >= len(m.CommitPages) {
		return nil, nil
	}
	return m.CommitPages[page-1], nil
}

// GetCommitDetail implements Client.
func (m *MockClient) GetCommitDetail(ctx context.Context, url string) (*CommitDetail, error) {
	m.DetailCalls++
	if m.DetailErr != nil {
		return nil, m.DetailErr
	}
	if err, ok := m.DetailErrURLs[url]; ok {
		return nil, err
	}
	detail, ok := m.CommitDetails[url]
	if !ok {
		return nil, fmt.Errorf("mock: no commit detail for %s", url)
	}
	return detail, nil
}
