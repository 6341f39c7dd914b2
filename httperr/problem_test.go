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

package httperr

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProblemFormatter_Format(t *testing.T) {
	f := &ProblemFormatter{BaseURL: "https://errors.example.com"}

	resp := f.Format("/widgets/1", New(Timeout, "deadline exceeded"))

	require.Equal(t, http.StatusServiceUnavailable, resp.Status)
	require.Equal(t, "application/problem+json; charset=utf-8", resp.ContentType)
	require.Equal(t, "https://errors.example.com/TIMEOUT", resp.Body.Type)
	require.Equal(t, "/widgets/1", resp.Body.Instance)
	require.Contains(t, resp.Body.Extensions, "error_id")
}

func TestProblemFormatter_DisableErrorID(t *testing.T) {
	f := &ProblemFormatter{DisableErrorID: true}

	resp := f.Format("/x", New(Unknown, "boom"))
	require.NotContains(t, resp.Body.Extensions, "error_id")
}

func TestProblemDetail_MarshalJSONMergesExtensions(t *testing.T) {
	p := ProblemDetail{
		Type:   "about:blank",
		Title:  "Internal Server Error",
		Status: 500,
		Extensions: map[string]any{
			"error_id": "err-abc",
			"status":   "should not override",
		},
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.Equal(t, "err-abc", decoded["error_id"])
	require.Equal(t, float64(500), decoded["status"])
}
