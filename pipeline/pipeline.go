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
	"corehttp.dev/corehttp/httperr"
	"corehttp.dev/corehttp/operation"
	"corehttp.dev/corehttp/router"
)

// Config configures a Pipeline. Authenticate, RateLimit, Authorize, and
// Cache are optional, order-preserving stages; a nil Transform is treated
// as an always-proceed pass-through.
type Config struct {
	Router             *router.Router
	LoadShedder        LoadShedderConfig
	Authenticate       Transform
	RateLimit          Transform
	Authorize          Transform
	Cache              Transform
	Middleware         []Middleware
	HandlerConcurrency int // 0 means unbounded (Parallel)
}

// Pipeline composes the fixed DEQUEUE..COMPLETE stage chain described by
// the core design. A single Pipeline value is shared by every caller that
// decodes a request into an operation.Operation and hands it to Process —
// typically one Process(op) call per request, made directly from
// transport.Server.handleRequest. Process runs one operation through the
// full chain and is safe to call concurrently for distinct operations.
type Pipeline struct {
	router      *router.Router
	loadShedder *loadShedder
	authenticate Transform
	rateLimit   Transform
	authorize   Transform
	cache       Transform
	middleware  []Middleware
	handlerMode ConcurrencyMode

	metrics *Metrics

	state pausableState
}

// New builds a Pipeline from cfg.
func New(cfg Config, metrics *Metrics) *Pipeline {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	var handlerMode ConcurrencyMode = Parallel{}
	if cfg.HandlerConcurrency > 0 {
		fixed := NewFixedConcurrency(cfg.HandlerConcurrency)
		fixed.sem.setSuspendHook(func() { metrics.backpressureSuspended(StageHandler) })
		handlerMode = fixed
	}

	return &Pipeline{
		router:       cfg.Router,
		loadShedder:  newLoadShedder(cfg.LoadShedder, metrics),
		authenticate: cfg.Authenticate,
		rateLimit:    cfg.RateLimit,
		authorize:    cfg.Authorize,
		cache:        cfg.Cache,
		middleware:   cfg.Middleware,
		handlerMode:  handlerMode,
		metrics:      metrics,
	}
}

// Process drives op through DEQUEUE..COMPLETE. It returns once the
// operation has reached a terminal state. Callers typically invoke
// Process in its own goroutine per arriving operation, matching the
// Parallel concurrency of the DEQUEUE stage; backpressure at any bounded
// stage downstream simply blocks that goroutine.
func (p *Pipeline) Process(op *operation.Operation) {
	if !p.state.enter() {
		// Pipeline is paused/stopped: shed immediately.
		ctx := operation.NewCtx(op)
		ctx.Operation.Dequeue()
		p.drainUnreadRequestBody(ctx)
		shed(ctx)

		return
	}
	defer p.state.leave()

	ctx := operation.NewCtx(op)

	ctx, ok := p.dequeue(ctx)
	if !ok {
		return
	}

	ctx, ok = p.routing(ctx)
	if !ok {
		return
	}

	p.metrics.stageEntered(StageLoadShedding)

	ctx, ok = p.loadShedder.admit(ctx)
	if !ok {
		return
	}
	defer p.loadShedder.release()

	namedStages := []struct {
		name  StageName
		apply Transform
	}{
		{StageAuthentication, p.authenticate},
		{StageRateLimiting, p.rateLimit},
		{StageAuthorization, p.authorize},
		{StageCaching, p.cache},
	}
	for _, stage := range namedStages {
		if stage.apply == nil {
			continue
		}
		p.metrics.stageEntered(stage.name)
		ctx, ok = stage.apply(ctx)
		if !ok {
			return
		}
	}

	p.metrics.stageEntered(StageMiddlewareBefore)
	ctx = p.beforeRequest(ctx)

	if ctx.Response == nil {
		ctx, ok = p.handler(ctx)
		if !ok {
			return
		}
	}

	p.drainUnreadRequestBody(ctx)

	p.metrics.stageEntered(StageMiddlewareAfter)
	ctx = p.afterResponse(ctx)

	p.complete(ctx)
}

func (p *Pipeline) dequeue(ctx *operation.Ctx) (*operation.Ctx, bool) {
	ctx.Operation.Dequeue()
	p.metrics.stageEntered(StageDequeue)

	return ctx, true
}

func (p *Pipeline) routing(ctx *operation.Ctx) (*operation.Ctx, bool) {
	p.metrics.stageEntered(StageRouting)

	if p.router == nil {
		p.notFound(ctx)

		return ctx, false
	}

	req := ctx.Operation.Request()

	match, err := p.router.Lookup(req.Path, req.Method)
	if err != nil {
		p.notFound(ctx)

		return ctx, false
	}

	return ctx.WithHandler(match.Handler).WithValue("route.params", match.Parameters), true
}

func (p *Pipeline) notFound(ctx *operation.Ctx) {
	p.drainUnreadRequestBody(ctx)
	ctx.Operation.Complete(content.NewResponse(http.StatusNotFound, nil, nil))
}

func (p *Pipeline) beforeRequest(ctx *operation.Ctx) *operation.Ctx {
	for _, mw := range p.middleware {
		ctx = mw.BeforeRequest(ctx)
		if ctx.Response != nil {
			break
		}
	}

	return ctx
}

func (p *Pipeline) afterResponse(ctx *operation.Ctx) *operation.Ctx {
	for _, mw := range p.middleware {
		ctx = mw.AfterResponse(ctx)
	}

	return ctx
}

func (p *Pipeline) handler(ctx *operation.Ctx) (*operation.Ctx, bool) {
	p.metrics.stageEntered(StageHandler)

	if ctx.Handler == nil {
		ctx.Operation.Fail(httperr.New(httperr.Unknown, operation.ErrNoHandler.Error()))

		return ctx, false
	}

	run := p.handlerMode.wrap(func(c *operation.Ctx) (*operation.Ctx, bool) {
		resp := c.Handler(c)

		return c.WithResponse(resp), true
	})

	return run(ctx)
}

func (p *Pipeline) drainUnreadRequestBody(ctx *operation.Ctx) {
	req := ctx.Operation.Request()
	if req.Body == nil {
		return
	}

	if ctx.Operation.State() != operation.Reading {
		return
	}

	_, _ = io.Copy(io.Discard, req.Body.Stream)
	ctx.Operation.NotifyBodyDrained()
}

func (p *Pipeline) complete(ctx *operation.Ctx) {
	p.metrics.stageEntered(StageComplete)

	if ctx.Response != nil {
		ctx.Operation.Complete(ctx.Response)

		return
	}

	ctx.Operation.Fail(httperr.New(httperr.Unknown, "no response bound"))
}
