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

// Package client mirrors the operation package's state machine for
// outbound requests: QUEUED -> WRITING -> PROCESSING -> READING ->
// COMPLETED, with ABORTED/TIMEOUT reachable from any non-terminal state.
// Submit drives one Operation through that chain over a *http.Client and
// returns the decoded response or a translated *httperr.Error.
package client
