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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	herrors "github.com/sirseerhq/sprint-harvest/internal/errors"
)

// requestTimeout bounds every request so a call always returns or fails.
const requestTimeout = 10 * time.Second

// RESTClient implements Client against the GitHub REST API using a
// hand-rolled authenticated GET. Failure classification:
//   - non-2xx status: *errors.StatusError (the page or item is unavailable)
//   - transport fault: wrapped errors.ErrNetworkFailure
//   - undecodable body: wrapped errors.ErrBadShape
type RESTClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewRESTClient creates a client for the given API endpoint. An empty token
// is a fatal configuration error, distinct from any request failure.
func NewRESTClient(endpoint, token string) (*RESTClient, error) {
	if token == "" {
		return nil, herrors.ErrMissingToken
	}
	if endpoint == "" {
		endpoint = "https://api.github.com"
	}
	return &RESTClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: &authTransport{token: token},
		},
	}, nil
}

// SearchIssues implements Client.
func (c *RESTClient) SearchIssues(ctx context.Context, query string, page, perPage int) (*SearchPage, error) {
	u := fmt.Sprintf("%s/search/issues?q=%s&per_page=%d&page=%d",
		c.endpoint, url.QueryEscape(query), perPage, page)

	var result SearchPage
	if err := c.get(ctx, u, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPullDetail implements Client.
func (c *RESTClient) GetPullDetail(ctx context.Context, detailURL string) (*PullDetail, error) {
	var detail PullDetail
	if err := c.get(ctx, detailURL, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListIssueComments implements Client.
func (c *RESTClient) ListIssueComments(ctx context.Context, org, repo string, number int) ([]IssueComment, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.endpoint, org, repo, number)

	var comments []IssueComment
	if err := c.get(ctx, u, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ListCommits implements Client. since and until are calendar days in
// YYYY-MM-DD form; the window covers them inclusively.
func (c *RESTClient) ListCommits(ctx context.Context, org, repo, author, since, until string, page, perPage int) ([]Commit, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/commits?author=%s&since=%sT00:00:00Z&until=%sT23:59:59Z&per_page=%d&page=%d",
		c.endpoint, org, repo, url.QueryEscape(author), since, until, perPage, page)

	var commits []Commit
	if err := c.get(ctx, u, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// GetCommitDetail implements Client.
func (c *RESTClient) GetCommitDetail(ctx context.Context, detailURL string) (*CommitDetail, error) {
	var detail CommitDetail
	if err := c.get(ctx, detailURL, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// get issues an authenticated GET and decodes the JSON body into target.
func (c *RESTClient) get(ctx context.Context, rawURL string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", rawURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %v: %w", rawURL, err, herrors.ErrNetworkFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &herrors.StatusError{
			Code:   resp.StatusCode,
			Reason: http.StatusText(resp.StatusCode),
			URL:    rawURL,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding %s: %v: %w", rawURL, err, herrors.ErrBadShape)
	}
	return nil
}
