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
	"corehttp.dev/corehttp/operation"
)

// StageName identifies a position in the fixed pipeline order.
type StageName string

const (
	StageDequeue        StageName = "DEQUEUE"
	StageRouting        StageName = "ROUTING"
	StageLoadShedding    StageName = "LOAD_SHEDDING"
	StageAuthentication StageName = "AUTHENTICATION"
	StageRateLimiting   StageName = "RATE_LIMITING"
	StageAuthorization  StageName = "AUTHORIZATION"
	StageCaching        StageName = "CACHING"
	StageMiddlewareBefore StageName = "MIDDLEWARE_BEFORE"
	StageHandler        StageName = "HANDLER"
	StageMiddlewareAfter  StageName = "MIDDLEWARE_AFTER"
	StageComplete       StageName = "COMPLETE"
)

// Transform receives a Ctx and returns either the same (or an enriched)
// Ctx with proceed=true, or proceed=false to drop/short-circuit: the
// operation has already transitioned to a terminal state or bound a
// response for the writer to finalize.
type Transform func(ctx *operation.Ctx) (*operation.Ctx, bool)

// ConcurrencyMode gates how many operations may be inside a stage's
// Transform at once, and in what order queued operations are admitted.
type ConcurrencyMode interface {
	// wrap returns a Transform that applies the concurrency policy around
	// next: acquiring a slot (if bounded) before calling next and
	// releasing it afterward. It must honor ctx.Operation.Context()'s
	// cancellation.
	wrap(next Transform) Transform
}

// Parallel imposes no concurrency cap; any limiting comes from downstream
// backpressure.
type Parallel struct{}

func (Parallel) wrap(next Transform) Transform { return next }

// FixedConcurrency admits at most N operations into the wrapped Transform
// at once; additional callers block (honoring cancellation) until a slot
// frees up.
type FixedConcurrency struct {
	sem *boundedSemaphore
}

// NewFixedConcurrency builds a FixedConcurrency mode with the given limit.
func NewFixedConcurrency(n int) *FixedConcurrency {
	return &FixedConcurrency{sem: newBoundedSemaphore(n)}
}

func (f *FixedConcurrency) wrap(next Transform) Transform {
	return func(ctx *operation.Ctx) (*operation.Ctx, bool) {
		if !f.sem.acquire(ctx.Operation.Context(), 0) {
			return ctx, false
		}
		defer f.sem.release()

		return next(ctx)
	}
}

// Resize changes the number of concurrent admissions allowed.
func (f *FixedConcurrency) Resize(n int) { f.sem.resize(n) }

// PriorityFixed admits at most N operations at once, like
// FixedConcurrency, but releases queued slots to the highest-priority
// waiter first (FIFO within a priority tier), per ctx.Priority.
type PriorityFixed struct {
	sem *boundedSemaphore
}

// NewPriorityFixed builds a PriorityFixed mode with the given limit.
func NewPriorityFixed(n int) *PriorityFixed {
	return &PriorityFixed{sem: newBoundedSemaphore(n)}
}

func (p *PriorityFixed) wrap(next Transform) Transform {
	return func(ctx *operation.Ctx) (*operation.Ctx, bool) {
		if !p.sem.acquire(ctx.Operation.Context(), ctx.Priority) {
			return ctx, false
		}
		defer p.sem.release()

		return next(ctx)
	}
}

// Resize changes the number of concurrent admissions allowed.
func (p *PriorityFixed) Resize(n int) { p.sem.resize(n) }

// Waiting returns the number of operations currently queued for a slot.
func (p *PriorityFixed) Waiting() int { return p.sem.waiting() }
