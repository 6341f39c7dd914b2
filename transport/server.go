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

package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"corehttp.dev/corehttp/httperr"
	"corehttp.dev/corehttp/operation"
	"corehttp.dev/corehttp/pipeline"
)

// Server is the HTTP/1.1 + HTTP/2 transport adapter described by spec.md
// §4.6: it decodes raw requests into operation.Operation values, hands
// each to a bound pipeline.Pipeline, and serializes the result. It
// bypasses the pipeline entirely for the health and readiness endpoints,
// per spec.md §6, and tracks a single atomic ready flag (§5, "read-
// compatible", single writer at a time).
//
// Grounded on rivaas.dev/app's App.Start/StartTLS/runServer lifecycle and
// rivaas.dev/app's Gate/ReadinessManager split between liveness and
// readiness.
type Server struct {
	cfg      *config
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
	tracer   trace.Tracer

	ready atomic.Bool

	httpServer *http.Server
	problems   *httperr.ProblemFormatter
}

// New builds a Server that dispatches decoded operations to p.
func New(p *pipeline.Pipeline, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      newConfig(opts...),
		pipeline: p,
		logger:   logger,
		tracer:   otelTracer(),
		problems: &httperr.ProblemFormatter{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.healthPath, s.handleHealth)
	mux.HandleFunc(s.cfg.readyPath, s.handleReady)
	mux.HandleFunc("/", s.handleRequest)

	var handler http.Handler = mux
	if s.cfg.enableH2C && s.cfg.tls == nil {
		handler = h2c.NewHandler(mux, &http2.Server{})
	}

	s.httpServer = &http.Server{
		Handler:   handler,
		TLSConfig: s.cfg.tls,
	}

	if s.cfg.tls != nil {
		if err := http2.ConfigureServer(s.httpServer, &http2.Server{}); err != nil {
			s.logger.Warn("failed to configure HTTP/2 over TLS", "error", err)
		}
	}

	return s
}

// SetReady flips the readiness flag consulted by GET /ready.
func (s *Server) SetReady(ready bool) { s.ready.Store(ready) }

// ListenAndServe starts serving addr, blocking until ctx is cancelled or a
// fatal listener error occurs. On cancellation it gracefully shuts down,
// bounded by the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer.Addr = addr

	return s.run(ctx, func() error {
		if s.cfg.tls != nil {
			return s.httpServer.ListenAndServeTLS("", "")
		}

		return s.httpServer.ListenAndServe()
	})
}

// Serve starts serving on an already-open listener, following the same
// lifecycle as ListenAndServe.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	return s.run(ctx, func() error {
		if s.cfg.tls != nil {
			return s.httpServer.ServeTLS(ln, "", "")
		}

		return s.httpServer.Serve(ln)
	})
}

func (s *Server) run(ctx context.Context, start func() error) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := start(); err != nil && err != http.ErrServerClosed {
			serveErr <- err

			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		s.logger.Info("transport shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.shutdownTimeout)
	defer cancel()

	s.pipeline.Stop()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("transport forced to shutdown: %w", err)
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.ready.Load() {
		w.WriteHeader(http.StatusNoContent)

		return
	}

	w.WriteHeader(http.StatusBadGateway)
}

// handleRequest decodes r into an Operation, drives it through the bound
// pipeline, and serializes the outcome. pipeline.Process is synchronous —
// it returns once the operation has left every pre-WRITING state — so by
// the time it returns either a response is bound (possibly still
// streaming its body) or the operation failed before one could be.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	req := decodeRequest(r)

	_, span := s.tracer.Start(r.Context(), string(req.Method)+" "+req.Path.Original)
	defer span.End()

	op := operation.New(req, span)
	op.SetTimeout(s.cfg.requestTimeout)

	s.pipeline.Process(op)

	s.writeResponse(w, op)
}

// writeResponse serializes the operation's terminal outcome to w, per
// spec.md §7's transport-to-wire status mapping: a bound response is
// written as provided; TIMEOUT maps to 503; any other terminal state
// without a bound response maps to 500 (ABORTED before headers sent is
// indistinguishable from an internal error at this layer — a true
// mid-stream client abort simply fails subsequent writes, which net/http
// already handles by discarding them).
func (s *Server) writeResponse(w http.ResponseWriter, op *operation.Operation) {
	resp := op.Response()
	if resp == nil {
		problem := s.problems.Format(op.Request().Path.Original, op.Err())
		w.Header().Set("Content-Type", problem.ContentType)
		w.WriteHeader(problem.Status)
		_ = json.NewEncoder(w).Encode(problem.Body)

		return
	}

	writeHeaders(w.Header(), resp.Headers)
	w.WriteHeader(resp.Status)

	if resp.Body == nil {
		return
	}

	defer resp.Body.Stream.Close()

	if _, err := io.Copy(w, resp.Body.Stream); err != nil {
		s.logger.Warn("response body write failed", "operation", op.ID(), "error", err)

		return
	}

	op.NotifyResponseDrained()
}
