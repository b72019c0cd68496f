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

// Package harvest implements the shared crawl core used by every report:
// an index-paged endpoint walker, a short-circuiting per-item predicate
// chain, and a batch engine that checkpoints cumulative progress after every
// batch so an interrupted run can resume.
//
// The core is fully sequential. Rate limiting is a pair of fixed sleeps
// (between pages and between items), a policy constant rather than adaptive
// backoff, and all pages are accumulated before batch filtering begins.
package harvest
