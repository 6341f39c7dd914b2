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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition_HappyPath(t *testing.T) {
	require.True(t, canTransition(Queued, Reading))
	require.True(t, canTransition(Reading, Processing))
	require.True(t, canTransition(Processing, Writing))
	require.True(t, canTransition(Writing, Completed))
}

func TestCanTransition_TerminalFromNonTerminal(t *testing.T) {
	for _, cur := range []State{Queued, Reading, Processing} {
		require.True(t, canTransition(cur, Aborted), cur)
		require.True(t, canTransition(cur, Timeout), cur)
		require.True(t, canTransition(cur, Completed), cur)
	}
}

func TestCanTransition_WritingDisallowsAbortAndTimeout(t *testing.T) {
	require.False(t, canTransition(Writing, Aborted))
	require.False(t, canTransition(Writing, Timeout))
}

func TestCanTransition_NeverBackToQueued(t *testing.T) {
	for _, target := range []State{Queued} {
		for _, cur := range []State{Reading, Processing, Writing, Completed, Aborted, Timeout} {
			require.False(t, canTransition(cur, target))
		}
	}
}

func TestState_Terminal(t *testing.T) {
	require.True(t, Completed.Terminal())
	require.True(t, Aborted.Terminal())
	require.True(t, Timeout.Terminal())
	require.False(t, Queued.Terminal())
	require.False(t, Writing.Terminal())
}
