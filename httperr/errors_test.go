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
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslate_PassesThroughTypedError(t *testing.T) {
	orig := New(Timeout, "deadline exceeded")
	got := Translate(orig)
	require.Same(t, orig, got)
}

func TestTranslate_MapsContextCancellation(t *testing.T) {
	got := Translate(context.Canceled)
	require.Equal(t, Aborted, got.Kind)

	got = Translate(context.DeadlineExceeded)
	require.Equal(t, Aborted, got.Kind)
}

func TestTranslate_DefaultsToUnknown(t *testing.T) {
	got := Translate(errors.New("boom"))
	require.Equal(t, Unknown, got.Kind)
	require.Equal(t, "boom", got.Description)
}

func TestTranslate_Nil(t *testing.T) {
	require.Nil(t, Translate(nil))
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusOK, StatusFor(nil))
	require.Equal(t, http.StatusServiceUnavailable, StatusFor(New(Timeout, "")))
	require.Equal(t, http.StatusInternalServerError, StatusFor(New(Aborted, "")))
	require.Equal(t, http.StatusInternalServerError, StatusFor(New(Unknown, "")))
}

func TestError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := Wrap(Unknown, cause)

	require.ErrorIs(t, wrapped, cause)
	require.Equal(t, "UNKNOWN: underlying", wrapped.Error())
}
