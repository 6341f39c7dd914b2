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
	stdcontext "context"
	"testing"

	"github.com/stretchr/testify/require"

	"corehttp.dev/corehttp/content"
)

func TestCtx_WithValueIsScopedNotMutating(t *testing.T) {
	op := newTestOperation(false)
	base := NewCtx(op)

	child := base.WithValue("auth.principal", "alice")

	_, ok := base.Value("auth.principal")
	require.False(t, ok)

	v, ok := child.Value("auth.principal")
	require.True(t, ok)
	require.Equal(t, "alice", v)
}

func TestCtx_WithValueChaining(t *testing.T) {
	op := newTestOperation(false)
	c := NewCtx(op).WithValue("a", 1).WithValue("b", 2)

	va, _ := c.Value("a")
	vb, _ := c.Value("b")
	require.Equal(t, 1, va)
	require.Equal(t, 2, vb)
}

func TestCtx_WithHandlerAndPriority(t *testing.T) {
	op := newTestOperation(false)
	c := NewCtx(op)

	h := func(*Ctx) *content.Response { return content.NewResponse(200, nil, nil) }
	withHandler := c.WithHandler(h)
	require.Nil(t, c.Handler)
	require.NotNil(t, withHandler.Handler)

	withPriority := c.WithPriority(7)
	require.Equal(t, 7, withPriority.Priority)
	require.Equal(t, 0, c.Priority)
}

func TestAmbientContext_RoundTrips(t *testing.T) {
	op := newTestOperation(false)
	c := NewCtx(op)

	ctx := WithAmbient(stdcontext.Background(), c)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Same(t, c, got)
}

func TestAmbientContext_AbsentWhenNotSet(t *testing.T) {
	_, ok := FromContext(stdcontext.Background())
	require.False(t, ok)
}
