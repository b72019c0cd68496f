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
	"strings"

	"github.com/sirseerhq/sprint-harvest/internal/github"
)

// Predicate is one stage of an item filter. Check returns whether the item
// is accepted and, on rejection, a human-readable reason for the progress
// narration.
type Predicate[T any] struct {
	Name  string
	Check func(ctx context.Context, item T) (bool, string)
}

// Chain is an ordered, short-circuiting predicate sequence: the first failing
// predicate rejects the item and later predicates never run.
type Chain[T any] []Predicate[T]

// Evaluate runs the chain over item. On rejection it returns the failing
// predicate's name and reason.
func (c Chain[T]) Evaluate(ctx context.Context, item T) (accepted bool, name, reason string) {
	for _, p := range c {
		ok, why := p.Check(ctx, item)
		if !ok {
			return false, p.Name, why
		}
	}
	return true, "", ""
}

// ItemContext carries one search item through the filter pipeline along with
// lazily computed derived facts. The pull request detail may require a second
// network call; it is fetched at most once and cached for the lifetime of the
// item's processing.
type ItemContext struct {
	Item   github.SearchItem
	client github.Client

	detail     *github.PullDetail
	detailErr  error
	detailDone bool
}

// NewItemContext wraps a raw search item for pipeline evaluation.
func NewItemContext(client github.Client, item github.SearchItem) *ItemContext {
	return &ItemContext{Item: item, client: client}
}

// Detail returns the pull request detail record, fetching it on first use.
func (ic *ItemContext) Detail(ctx context.Context) (*github.PullDetail, error) {
	if ic.detailDone {
		return ic.detail, ic.detailErr
	}
	ic.detailDone = true

	if ic.Item.PullRequest == nil || ic.Item.PullRequest.URL == "" {
		ic.detailErr = errNoDetailURL
		return nil, ic.detailErr
	}
	ic.detail, ic.detailErr = ic.client.GetPullDetail(ctx, ic.Item.PullRequest.URL)
	return ic.detail, ic.detailErr
}

var errNoDetailURL = noDetailURLError{}

type noDetailURLError struct{}

func (noDetailURLError) Error() string { return "search item has no pull request detail URL" }

// NotSelfAuthored rejects items authored by the target identity,
// case-insensitively. The search query is expected to exclude these already;
// search semantics can lag or be inexact, so correctness requires this local
// recheck.
func NotSelfAuthored(user string) Predicate[*ItemContext] {
	return Predicate[*ItemContext]{
		Name: "self-authorship",
		Check: func(_ context.Context, ic *ItemContext) (bool, string) {
			if strings.EqualFold(ic.Item.User.Login, user) {
				return false, "self-authored"
			}
			return true, ""
		},
	}
}

// HasDetail rejects items whose detail fetch fails or whose detail record
// lacks the expected base ref.
func HasDetail() Predicate[*ItemContext] {
	return Predicate[*ItemContext]{
		Name: "detail",
		Check: func(ctx context.Context, ic *ItemContext) (bool, string) {
			detail, err := ic.Detail(ctx)
			if err != nil {
				return false, "failed to get PR details: " + err.Error()
			}
			if detail.Base == nil || detail.Base.Ref == "" {
				return false, "invalid base branch info"
			}
			return true, ""
		},
	}
}

// TargetBranch accepts items whose base ref exactly equals one of exact or
// starts with prefix. Matching is case-sensitive. An empty prefix disables
// the prefix match. Runs after HasDetail, so the cached detail is present.
func TargetBranch(prefix string, exact ...string) Predicate[*ItemContext] {
	return Predicate[*ItemContext]{
		Name: "target-branch",
		Check: func(ctx context.Context, ic *ItemContext) (bool, string) {
			detail, err := ic.Detail(ctx)
			if err != nil || detail.Base == nil {
				return false, "no base branch"
			}
			ref := detail.Base.Ref
			for _, e := range exact {
				if ref == e {
					return true, ""
				}
			}
			if prefix != "" && strings.HasPrefix(ref, prefix) {
				return true, ""
			}
			return false, "targeting " + ref
		},
	}
}
