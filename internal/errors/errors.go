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

// Package errors defines sentinel errors for consistent error handling across
// the application. Precondition errors abort the run and map to exit code 2;
// everything else is per-request and is handled (skipped or truncated) at the
// call site.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrMissingToken indicates no GitHub token was configured.
	// This is a fatal precondition, not a request failure. Maps to exit code 2.
	ErrMissingToken = errors.New("github token is required")

	// ErrMissingConfig indicates a required configuration value
	// (organization, repository or user) is absent. Maps to exit code 2.
	ErrMissingConfig = errors.New("incomplete configuration")

	// ErrUnknownSprint indicates the requested sprint is not present in the
	// sprint table. Maps to exit code 2.
	ErrUnknownSprint = errors.New("unknown sprint")

	// ErrNetworkFailure indicates a network-level problem (connection,
	// timeout) on a single request. Callers skip the affected page or item.
	ErrNetworkFailure = errors.New("network request failed")

	// ErrBadShape indicates a response was received but did not match the
	// expected structural contract. Treated like a request failure.
	ErrBadShape = errors.New("unexpected response shape")
)

// StatusError is returned when the API answers with a non-success HTTP
// status. It is a per-request failure: the enclosing page or item is
// unavailable, the run continues.
type StatusError struct {
	Code   int
	Reason string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s for %s", e.Code, e.Reason, e.URL)
}

// IsNotFound reports whether err is a StatusError with code 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == 404
}
