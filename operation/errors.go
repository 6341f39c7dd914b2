// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import "errors"

// Static errors for operation-level failures that callers may want to
// compare against with errors.Is.
var (
	// ErrNoHandler is returned when a pipeline reaches HANDLER with no
	// handler bound in the context.
	ErrNoHandler = errors.New("no handler bound to operation")

	// ErrAlreadyTerminal is returned by callers that attempt to mutate an
	// operation already in a terminal state.
	ErrAlreadyTerminal = errors.New("operation already in a terminal state")
)
