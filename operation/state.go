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

// State is a position in the operation lifecycle.
type State int32

const (
	// Queued is the initial state of every operation.
	Queued State = iota
	// Reading means the request body (if any) is being consumed.
	Reading
	// Processing means the operation is inside the pipeline's stage chain.
	Processing
	// Writing means a response has been bound and is being streamed out.
	Writing
	// Completed is a terminal success state.
	Completed
	// Aborted is a terminal state reached via explicit or upstream cancellation.
	Aborted
	// Timeout is a terminal state reached when the deadline timer fires first.
	Timeout
)

// String renders the state name, matching the enumeration used throughout
// logs and error messages.
func (s State) String() string {
	switch s {
	case Queued:
		return "QUEUED"
	case Reading:
		return "READING"
	case Processing:
		return "PROCESSING"
	case Writing:
		return "WRITING"
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
// entered from. QUEUED has no entry: nothing transitions back into it.
var transitions = map[State]map[State]bool{
	Reading:    {Queued: true},
	Processing: {Reading: true},
	Writing:    {Processing: true},
	Completed:  {Queued: true, Reading: true, Processing: true, Writing: true},
	Aborted:    {Queued: true, Reading: true, Processing: true},
	Timeout:    {Queued: true, Reading: true, Processing: true},
}

// canTransition reports whether moving from cur to target is permitted by
// the table in the state-machine design: the happy path QUEUED → READING →
// PROCESSING → WRITING → COMPLETED, plus ABORTED/TIMEOUT reachable from any
// non-terminal state except WRITING.
func canTransition(cur, target State) bool {
	allowed, ok := transitions[target]
	if !ok {
		return false
	}

	return allowed[cur]
}
