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
	"crypto/tls"
	"time"
)

// defaultRequestTimeout is the 5s default from spec.md §6.
const defaultRequestTimeout = 5 * time.Second

// config holds the adapter's construction-time settings, built by Option
// values, matching the teacher's functional-options style
// (rivaas.dev/router's router.Option, rivaas.dev/app's app.Option).
type config struct {
	tls             *tls.Config
	requestTimeout  time.Duration
	enableH2C       bool
	shutdownTimeout time.Duration
	healthPath      string
	readyPath       string
}

func newConfig(opts ...Option) *config {
	c := &config{
		requestTimeout:  defaultRequestTimeout,
		shutdownTimeout: 10 * time.Second,
		healthPath:      "/health",
		readyPath:       "/ready",
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Option configures a Server at construction time.
type Option func(*config)

// WithTLS installs a TLS configuration; the server serves HTTPS with
// HTTP/2 negotiated via ALPN.
func WithTLS(cfg *tls.Config) Option {
	return func(c *config) { c.tls = cfg }
}

// WithRequestTimeout overrides the per-request deadline armed at dequeue.
// The default is 5 seconds per spec.md §6.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *config) { c.requestTimeout = d }
}

// WithH2C enables cleartext HTTP/2 (h2c), for development or when a
// trusted load balancer in front of the server already terminates TLS.
func WithH2C(enabled bool) Option {
	return func(c *config) { c.enableH2C = enabled }
}

// WithShutdownTimeout sets the deadline, counted from the start of
// shutdown, for the underlying HTTP server's graceful Shutdown. The
// pipeline drain that runs first waits for every in-flight operation and
// is not cut short by this deadline.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) { c.shutdownTimeout = d }
}

// WithHealthPath overrides the liveness path, default "/health".
func WithHealthPath(path string) Option {
	return func(c *config) { c.healthPath = path }
}

// WithReadyPath overrides the readiness path, default "/ready".
func WithReadyPath(path string) Option {
	return func(c *config) { c.readyPath = path }
}
