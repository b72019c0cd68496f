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
	"testing"

	"github.com/sirseerhq/sprint-harvest/internal/errors"
	"github.com/sirseerhq/sprint-harvest/internal/github"
)

func prItem(number int, title, state string) github.SearchItem {
	return github.SearchItem{
		Number:    number,
		Title:     title,
		State:     state,
		CreatedAt: day(number%28+1, 10),
		User:      github.User{Login: "octocat"},
		HTMLURL:   "https://example.test/pr/" + title,
		PullRequest: &github.PullRequestLink{
			URL: detailURL(number),
		},
	}
}

func detailURL(number int) string {
	return fmt.Sprintf("https://api.example.test/pulls/%d", number)
}

func TestRunPRsFiltersAndSortsDescending(t *testing.T) {
	merged := day(15, 16)
	client := &github.MockClient{
		SearchPages: []github.SearchPage{{
			TotalCount: 3,
			Items: []github.SearchItem{
				prItem(5, "fix: rollback handler", "closed"),
				prItem(12, "feat: batch exports", "closed"),
				prItem(8, "chore: bump deps", "open"),
			},
		}},
		PullDetails: map[string]*github.PullDetail{
			detailURL(5): {
				Base:      &github.Ref{Ref: "release/1.2"},
				Head:      &github.Ref{Ref: "fix/rollback"},
				Additions: 40,
				Deletions: 10,
				MergedAt:  &merged,
			},
			detailURL(12): {
				Base:      &github.Ref{Ref: "release/1.3"},
				Head:      &github.Ref{Ref: "feat/exports"},
				Additions: 200,
				Deletions: 35,
			},
			detailURL(8): {
				Base: &github.Ref{Ref: "main"},
				Head: &github.Ref{Ref: "chore/deps"},
			},
		},
	}

	opts := testOptions(t)
	if err := RunPRs(context.Background(), testDeps(client), opts); err != nil {
		t.Fatalf("RunPRs failed: %v", err)
	}

	rows := readCSV(t, opts.OutputDir, "octocat-pr-sprint-2025-01-*.csv")
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "PR Number" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	// Number descending: #12 first, the main-targeting #8 excluded.
	if rows[1][0] != "12" || rows[2][0] != "5" {
		t.Errorf("expected PRs [12 5], got [%s %s]", rows[1][0], rows[2][0])
	}
	if rows[1][2] != "release/1.3" {
		t.Errorf("expected target branch release/1.3, got %q", rows[1][2])
	}
	// Net lines for #12: 200 added, 35 deleted.
	if rows[1][6] != "165" {
		t.Errorf("expected net lines 165, got %q", rows[1][6])
	}
	if rows[2][7] != "Merged" {
		t.Errorf("expected merged status for #5, got %q", rows[2][7])
	}
	assertCheckpointGone(t, opts.CheckpointPath)
}

func TestRunPRsSkipsItemOnDetailNotFound(t *testing.T) {
	client := &github.MockClient{
		SearchPages: []github.SearchPage{{
			TotalCount: 2,
			Items: []github.SearchItem{
				prItem(3, "feat: keep me", "closed"),
				prItem(4, "feat: detail is gone", "closed"),
			},
		}},
		PullDetails: map[string]*github.PullDetail{
			detailURL(3): {
				Base: &github.Ref{Ref: "release/2.0"},
				Head: &github.Ref{Ref: "feat/keep"},
			},
		},
		DetailErrURLs: map[string]error{
			detailURL(4): &errors.StatusError{Code: 404, Reason: "Not Found", URL: detailURL(4)},
		},
	}

	opts := testOptions(t)
	if err := RunPRs(context.Background(), testDeps(client), opts); err != nil {
		t.Fatalf("expected run to continue past a 404 detail, got %v", err)
	}

	rows := readCSV(t, opts.OutputDir, "octocat-pr-sprint-2025-01-*.csv")
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(rows))
	}
	if rows[1][0] != "3" {
		t.Errorf("expected surviving PR 3, got %q", rows[1][0])
	}
}

func TestRunPRsNoMatchesWritesNothing(t *testing.T) {
	client := &github.MockClient{
		SearchPages: []github.SearchPage{{
			TotalCount: 1,
			Items:      []github.SearchItem{prItem(9, "docs: readme", "open")},
		}},
		PullDetails: map[string]*github.PullDetail{
			detailURL(9): {Base: &github.Ref{Ref: "main"}},
		},
	}

	opts := testOptions(t)
	if err := RunPRs(context.Background(), testDeps(client), opts); err != nil {
		t.Fatalf("RunPRs failed: %v", err)
	}

	assertNoReportFiles(t, opts.OutputDir)
	assertCheckpointGone(t, opts.CheckpointPath)
}

func TestRunPRsEmptySearchWritesNothing(t *testing.T) {
	client := &github.MockClient{}
	opts := testOptions(t)
	if err := RunPRs(context.Background(), testDeps(client), opts); err != nil {
		t.Fatalf("RunPRs failed: %v", err)
	}

	if client.SearchCalls != 1 {
		t.Errorf("expected exactly one search call, got %d", client.SearchCalls)
	}
	if client.DetailCalls != 0 {
		t.Errorf("expected no detail calls, got %d", client.DetailCalls)
	}
	assertNoReportFiles(t, opts.OutputDir)
	assertCheckpointGone(t, opts.CheckpointPath)
}

func TestRunPRsExactlyTwoPagesForOverfullWindow(t *testing.T) {
	first := make([]github.SearchItem, 100)
	details := make(map[string]*github.PullDetail, 120)
	for i := range first {
		first[i] = prItem(i+1, "bulk", "closed")
		details[detailURL(i+1)] = &github.PullDetail{Base: &github.Ref{Ref: "main"}}
	}
	second := make([]github.SearchItem, 20)
	for i := range second {
		second[i] = prItem(100+i+1, "bulk", "closed")
		details[detailURL(100+i+1)] = &github.PullDetail{Base: &github.Ref{Ref: "main"}}
	}

	client := &github.MockClient{
		SearchPages: []github.SearchPage{
			{TotalCount: 120, Items: first},
			{TotalCount: 120, Items: second},
		},
		PullDetails: details,
	}

	opts := testOptions(t)
	if err := RunPRs(context.Background(), testDeps(client), opts); err != nil {
		t.Fatalf("RunPRs failed: %v", err)
	}
	if client.SearchCalls != 2 {
		t.Errorf("expected exactly 2 search calls for 120 items, got %d", client.SearchCalls)
	}
}
