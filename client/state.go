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

package client

// State is a position in the client-side operation lifecycle, mirroring
// operation.State's shape but with the outbound transition order from
// spec.md §4.7.
type State int32

const (
	// Queued is the initial state, before the request has been sent.
	Queued State = iota
	// Writing means the request (headers and body, if any) is being sent.
	Writing
	// Processing means the request has been sent and awaits the server.
	Processing
	// Reading means response headers have arrived and the body (if any)
	// is streaming.
	Reading
	// Completed is a terminal success state.
	Completed
	// Aborted is a terminal state reached via explicit or upstream cancellation.
	Aborted
	// Timeout is a terminal state reached when the deadline elapses first.
	Timeout
)

func (s State) String() string {
	switch s {
	case Queued:
		return "QUEUED"
	case Writing:
		return "WRITING"
	case Processing:
		return "PROCESSING"
	case Reading:
		return "READING"
	case Completed:
		return "COMPLETED"
	case Aborted:
		return "ABORTED"
	case Timeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether s admits no further transitions.
func (s State) Terminal() bool {
	switch s {
	case Completed, Aborted, Timeout:
		return true
	default:
		return false
	}
}

// transitions holds, for each target state, the set of states it may be
// entered from. Unlike the server-side table, ABORTED/TIMEOUT are
// reachable from every non-terminal state including WRITING: an outbound
// request has no partially-written response to tear, so there is no
// analogue to the server's WRITING exception.
var transitions = map[State]map[State]bool{
	Writing:    {Queued: true},
	Processing: {Writing: true},
	Reading:    {Processing: true},
	Completed:  {Queued: true, Writing: true, Processing: true, Reading: true},
	Aborted:    {Queued: true, Writing: true, Processing: true, Reading: true},
	Timeout:    {Queued: true, Writing: true, Processing: true, Reading: true},
}

func canTransition(cur, target State) bool {
	allowed, ok := transitions[target]
	if !ok {
		return false
	}

	return allowed[cur]
}
