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

// Command corehttpd runs a demo server exercising every pipeline stage:
// routing, load shedding, a stub auth/ratelimit/authz/cache chain,
// before/after middleware, and the handler itself, fronted by the
// transport adapter's HTTP/1.1+h2c listener.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"corehttp.dev/corehttp/content"
	"corehttp.dev/corehttp/operation"
	"corehttp.dev/corehttp/pipeline"
	"corehttp.dev/corehttp/router"
	"corehttp.dev/corehttp/transport"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus scrape address")
	maxOutstanding := flag.Int("max-outstanding", 64, "load shedder capacity")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	telem, err := setupTelemetry(logger, *metricsAddr)
	if err != nil {
		logger.Error("telemetry setup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		telem.shutdown(shutdownCtx)
	}()

	r := buildRouter()

	p := pipeline.New(pipeline.Config{
		Router: r,
		LoadShedder: pipeline.LoadShedderConfig{
			MaxOutstandingRequests: *maxOutstanding,
		},
		Authenticate: stubStage(logger, "authenticate"),
		RateLimit:    stubStage(logger, "rate_limit"),
		Authorize:    stubStage(logger, "authorize"),
		Cache:        stubStage(logger, "cache"),
		Middleware: []pipeline.Middleware{
			pipeline.MiddlewareFuncs{
				Before: func(ctx *operation.Ctx) *operation.Ctx {
					logger.Info("request", "method", ctx.Operation.Request().Method, "path", ctx.Operation.Request().Path.Original)

					return ctx
				},
				After: func(ctx *operation.Ctx) *operation.Ctx {
					if ctx.Response != nil {
						logger.Info("response", "status", ctx.Response.Status, "duration", ctx.Operation.Duration())
					}

					return ctx
				},
			},
		},
		HandlerConcurrency: 256,
	}, pipeline.NewMetrics(nil))

	srv := transport.New(p, logger,
		transport.WithH2C(true),
		transport.WithRequestTimeout(5*time.Second),
	)
	srv.SetReady(true)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("corehttpd starting", "addr", *addr)
	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// buildRouter registers the demo routes exercising the router's grammar:
// a literal route, a named parameter, and a terminator route that echoes
// the request path.
func buildRouter() *router.Router {
	r := router.New()

	must(r.AddHandler("/hello", content.MethodGet, func(_ *operation.Ctx) *content.Response {
		return content.JSONResponse(http.StatusOK, []byte(`{"hello":"world"}`))
	}))

	must(r.AddHandler("/path/ends/with/:variable", content.MethodGet, func(c *operation.Ctx) *content.Response {
		params, _ := c.Value("route.params")
		payload, _ := json.Marshal(params)

		return content.JSONResponse(http.StatusOK, payload)
	}))

	must(r.AddHandler("/echo/**", content.MethodGet, func(c *operation.Ctx) *content.Response {
		path := c.Operation.Request().Path.Original

		return content.JSONResponse(http.StatusOK, []byte(`{"path":"`+path+`"}`))
	}))

	return r
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// stubStage builds a pass-through Transform that only records that the
// named optional stage ran; a real deployment replaces these with actual
// auth/rate-limit/authz/cache transforms.
func stubStage(logger *slog.Logger, name string) pipeline.Transform {
	return func(ctx *operation.Ctx) (*operation.Ctx, bool) {
		logger.Debug("stage", "name", name, "operation", ctx.Operation.ID())

		return ctx, true
	}
}
