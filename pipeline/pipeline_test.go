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

package pipeline

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"corehttp.dev/corehttp/content"
	"corehttp.dev/corehttp/operation"
	"corehttp.dev/corehttp/router"
)

func newTestRequest(method content.Method, path string) *content.Request {
	return content.NewRequest(method, content.ParsePath(path), content.ParseQuery(""), content.NewHeader(), content.HTTP2, nil)
}

func newTestOperation(method content.Method, path string) *operation.Operation {
	_, sp := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "test")

	return operation.New(newTestRequest(method, path), sp)
}

func echoHandler(status int) operation.HandlerFunc {
	return func(ctx *operation.Ctx) *content.Response {
		return content.NewResponse(status, nil, nil)
	}
}

func TestPipeline_HappyPathReachesHandler(t *testing.T) {
	r := router.New()
	require.NoError(t, r.AddHandler("/widgets", content.MethodGet, echoHandler(http.StatusOK)))

	p := New(Config{Router: r}, nil)
	op := newTestOperation(content.MethodGet, "/widgets")

	p.Process(op)

	require.Equal(t, operation.Completed, op.State())
	require.Equal(t, http.StatusOK, op.Response().Status)
}

func TestPipeline_UnmatchedRouteReturnsNotFound(t *testing.T) {
	r := router.New()
	p := New(Config{Router: r}, nil)
	op := newTestOperation(content.MethodGet, "/missing")

	p.Process(op)

	require.Equal(t, operation.Completed, op.State())
	require.Equal(t, http.StatusNotFound, op.Response().Status)
}

func TestPipeline_BeforeRequestShortCircuitSkipsHandlerButRunsAfter(t *testing.T) {
	r := router.New()
	handlerCalled := false
	require.NoError(t, r.AddHandler("/widgets", content.MethodGet, func(ctx *operation.Ctx) *content.Response {
		handlerCalled = true

		return content.NewResponse(http.StatusOK, nil, nil)
	}))

	afterCalled := false
	mw := MiddlewareFuncs{
		Before: func(ctx *operation.Ctx) *operation.Ctx {
			return ctx.WithResponse(content.NewResponse(http.StatusUnauthorized, nil, nil))
		},
		After: func(ctx *operation.Ctx) *operation.Ctx {
			afterCalled = true

			return ctx
		},
	}

	p := New(Config{Router: r, Middleware: []Middleware{mw}}, nil)
	op := newTestOperation(content.MethodGet, "/widgets")

	p.Process(op)

	require.False(t, handlerCalled)
	require.True(t, afterCalled)
	require.Equal(t, http.StatusUnauthorized, op.Response().Status)
}

func TestPipeline_AuthenticationStageShortCircuitSkipsAfterResponse(t *testing.T) {
	r := router.New()
	require.NoError(t, r.AddHandler("/widgets", content.MethodGet, echoHandler(http.StatusOK)))

	afterCalled := false
	mw := MiddlewareFuncs{After: func(ctx *operation.Ctx) *operation.Ctx {
		afterCalled = true

		return ctx
	}}

	deny := func(ctx *operation.Ctx) (*operation.Ctx, bool) {
		ctx.Operation.Complete(content.NewResponse(http.StatusForbidden, nil, nil))

		return ctx, false
	}

	p := New(Config{Router: r, Authenticate: deny, Middleware: []Middleware{mw}}, nil)
	op := newTestOperation(content.MethodGet, "/widgets")

	p.Process(op)

	require.False(t, afterCalled)
	require.Equal(t, http.StatusForbidden, op.Response().Status)
}

func TestPipeline_LoadShedderRejectsBeyondCapacity(t *testing.T) {
	r := router.New()
	release := make(chan struct{})
	require.NoError(t, r.AddHandler("/widgets", content.MethodGet, func(ctx *operation.Ctx) *content.Response {
		<-release

		return content.NewResponse(http.StatusOK, nil, nil)
	}))

	p := New(Config{Router: r, LoadShedder: LoadShedderConfig{MaxOutstandingRequests: 1}}, nil)

	const total = 3
	ops := make([]*operation.Operation, total)
	done := make(chan struct{}, total)
	for i := 0; i < total; i++ {
		ops[i] = newTestOperation(content.MethodGet, "/widgets")
	}

	for i := 0; i < total; i++ {
		go func(op *operation.Operation) {
			p.Process(op)
			done <- struct{}{}
		}(ops[i])
	}

	time.Sleep(20 * time.Millisecond)
	close(release)

	for i := 0; i < total; i++ {
		<-done
	}

	ok, rejected := 0, 0
	for _, op := range ops {
		switch op.Response().Status {
		case http.StatusOK:
			ok++
		case http.StatusServiceUnavailable:
			rejected++
		}
	}

	require.Equal(t, 1, ok)
	require.Equal(t, total-1, rejected)
}

func TestPipeline_PauseShedsNewOperationsAndResumeRestores(t *testing.T) {
	r := router.New()
	require.NoError(t, r.AddHandler("/widgets", content.MethodGet, echoHandler(http.StatusOK)))

	p := New(Config{Router: r}, nil)

	p.Pause()
	op := newTestOperation(content.MethodGet, "/widgets")
	p.Process(op)
	require.Equal(t, http.StatusServiceUnavailable, op.Response().Status)

	p.Resume()
	op2 := newTestOperation(content.MethodGet, "/widgets")
	p.Process(op2)
	require.Equal(t, http.StatusOK, op2.Response().Status)
}

func TestPipeline_StopWaitsForInFlightOperations(t *testing.T) {
	r := router.New()
	release := make(chan struct{})
	require.NoError(t, r.AddHandler("/widgets", content.MethodGet, func(ctx *operation.Ctx) *content.Response {
		<-release

		return content.NewResponse(http.StatusOK, nil, nil)
	}))

	p := New(Config{Router: r}, nil)
	op := newTestOperation(content.MethodGet, "/widgets")

	go p.Process(op)
	time.Sleep(10 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned before in-flight operation finished")
	case <-time.After(10 * time.Millisecond):
	}

	close(release)
	<-stopped

	require.Equal(t, http.StatusOK, op.Response().Status)
}

func TestPipeline_NoHandlerFailsOperation(t *testing.T) {
	r := router.New()
	require.NoError(t, r.AddHandler("/widgets", content.MethodGet, nil))

	p := New(Config{Router: r}, nil)
	op := newTestOperation(content.MethodGet, "/widgets")

	p.Process(op)

	require.Equal(t, operation.Aborted, op.State())
}

func TestPipeline_DrainsUnreadRequestBodyBeforeComplete(t *testing.T) {
	mt, _ := content.ParseMediaType("application/json")
	body := content.NewBody(mt, io.NopCloser(strings.NewReader("")))

	r := router.New()
	require.NoError(t, r.AddHandler("/widgets", content.MethodPost, echoHandler(http.StatusCreated)))

	p := New(Config{Router: r}, nil)
	_, sp := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "test")
	req := content.NewRequest(content.MethodPost, content.ParsePath("/widgets"), content.ParseQuery(""), content.NewHeader(), content.HTTP2, body)
	op := operation.New(req, sp)

	p.Process(op)

	require.Equal(t, operation.Completed, op.State())
	require.Equal(t, http.StatusCreated, op.Response().Status)
}
