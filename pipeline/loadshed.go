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
	"io"
	"net/http"

	"corehttp.dev/corehttp/content"
	"corehttp.dev/corehttp/operation"
)

// PriorityFunc resolves the priority recorded on a request's Ctx at
// LOAD_SHEDDING. The default is pure FIFO (every request priority 0); the
// resolved-Open-Question choice is that a caller-supplied PriorityFunc is
// the single producer of this value, matching the explicit KeyFunc
// functional-option pattern used elsewhere for per-request policy.
type PriorityFunc func(req *content.Request) int

// DefaultPriority assigns every request priority 0.
func DefaultPriority(*content.Request) int { return 0 }

// LoadShedderConfig configures the LOAD_SHEDDING stage.
type LoadShedderConfig struct {
	MaxOutstandingRequests int
	Priority               PriorityFunc
}

// loadShedder is the admission gate for LOAD_SHEDDING: a configurable
// maxOutstandingRequests slot pool. An operation that arrives while every
// slot is held is shed at once with SERVICE_UNAVAILABLE rather than
// queued. A non-positive
// MaxOutstandingRequests disables shedding entirely (slots is nil) rather
// than admitting nobody, matching HandlerConcurrency's "0 means
// unbounded" convention elsewhere in this package.
type loadShedder struct {
	slots    *boundedSemaphore
	priority PriorityFunc
}

func newLoadShedder(cfg LoadShedderConfig, metrics *Metrics) *loadShedder {
	priority := cfg.Priority
	if priority == nil {
		priority = DefaultPriority
	}

	if cfg.MaxOutstandingRequests <= 0 {
		return &loadShedder{priority: priority}
	}

	slots := newBoundedSemaphore(cfg.MaxOutstandingRequests)
	slots.setSuspendHook(func() { metrics.backpressureSuspended(StageLoadShedding) })

	return &loadShedder{
		slots:    slots,
		priority: priority,
	}
}

// admit records ctx's priority and takes a slot for its operation without
// waiting. If every slot is held, a SERVICE_UNAVAILABLE response is bound
// and the caller should treat the operation as finished.
func (l *loadShedder) admit(ctx *operation.Ctx) (*operation.Ctx, bool) {
	priority := l.priority(ctx.Operation.Request())
	ctx = ctx.WithPriority(priority)

	if l.slots == nil {
		return ctx, true
	}

	l.slots.mu.Lock()
	free := l.slots.running < l.slots.limit
	if free {
		l.slots.running++
	}
	l.slots.mu.Unlock()

	if !free {
		shed(ctx)

		return ctx, false
	}

	return ctx, true
}

func (l *loadShedder) release() {
	if l.slots == nil {
		return
	}

	l.slots.release()
}

func shed(ctx *operation.Ctx) {
	if req := ctx.Operation.Request(); req.Body != nil && ctx.Operation.State() == operation.Reading {
		_, _ = io.Copy(io.Discard, req.Body.Stream)
		ctx.Operation.NotifyBodyDrained()
	}

	resp := content.NewResponse(http.StatusServiceUnavailable, nil, nil)
	ctx.Operation.Complete(resp)
}
