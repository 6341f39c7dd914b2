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

package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePath_OriginalRoundTrips(t *testing.T) {
	for _, original := range []string{"/", "/a/b/c", "/a%20b/c", "/one"} {
		p := ParsePath(original)
		require.Equal(t, original, p.Original)
	}
}

func TestParsePath_Segments(t *testing.T) {
	p := ParsePath("/users/123/posts")
	require.Equal(t, []string{"users", "123", "posts"}, p.Segments)
}

func TestParsePath_DecodesSegments(t *testing.T) {
	p := ParsePath("/a%20b/c")
	require.Equal(t, []string{"a b", "c"}, p.Segments)
}

func TestParseQuery_CoalescesRepeatedKeys(t *testing.T) {
	q := ParseQuery("tag=go&tag=http&page=2")
	require.Equal(t, []string{"go", "http"}, q.Values["tag"])
	require.Equal(t, "2", q.Get("page"))
}

func TestParseQuery_Empty(t *testing.T) {
	q := ParseQuery("")
	require.Empty(t, q.Values)
}
