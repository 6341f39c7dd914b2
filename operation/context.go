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
	"context"

	"corehttp.dev/corehttp/content"
)

// HandlerFunc is the user handler bound to an operation by routing. It
// receives the operation so it can read the request, honor the abort
// signal, and return a response.
type HandlerFunc func(ctx *Ctx) *content.Response

// Ctx is the per-operation scoped carrier threaded through every pipeline
// stage. It is an explicit, immutable-by-convention value: stages that
// need to enrich it call WithValue, which returns a new Ctx sharing the
// same operation but an extended value chain. A Ctx is never shared
// across operations.
type Ctx struct {
	Operation *Operation
	Response  *content.Response
	Handler   HandlerFunc
	Priority  int
	values    map[string]any
}

// NewCtx builds the initial Ctx for an operation, before DEQUEUE runs.
func NewCtx(op *Operation) *Ctx {
	return &Ctx{Operation: op}
}

// WithValue returns a copy of c with key bound to value. Existing keys are
// shadowed, not mutated in place, so that callers holding an earlier Ctx
// continue to see their own snapshot.
func (c *Ctx) WithValue(key string, value any) *Ctx {
	next := *c
	next.values = make(map[string]any, len(c.values)+1)
	for k, v := range c.values {
		next.values[k] = v
	}
	next.values[key] = value

	return &next
}

// WithHandler returns a copy of c with the resolved handler bound.
func (c *Ctx) WithHandler(h HandlerFunc) *Ctx {
	next := *c
	next.Handler = h

	return &next
}

// WithResponse returns a copy of c with a response bound, for the
// HANDLER/MIDDLEWARE.afterResponse stages to assign or mutate before the
// COMPLETE stage finalizes it on the operation.
func (c *Ctx) WithResponse(resp *content.Response) *Ctx {
	next := *c
	next.Response = resp

	return &next
}

// WithPriority returns a copy of c with the load-shedding priority bound.
func (c *Ctx) WithPriority(p int) *Ctx {
	next := *c
	next.Priority = p

	return &next
}

// Value looks up a stage-specific value by key.
func (c *Ctx) Value(key string) (any, bool) {
	v, ok := c.values[key]

	return v, ok
}

// contextKey is the ambient-storage key used by WithAmbient/FromContext so
// that code invoked during a suspended handler (which only receives a
// context.Context, not a *Ctx) can still reach the operation's scope.
type contextKey struct{}

// WithAmbient returns a context.Context carrying c, scoped to exactly this
// operation, for handlers that must integrate with context.Context-typed
// APIs without threading *Ctx explicitly.
func WithAmbient(parent context.Context, c *Ctx) context.Context {
	return context.WithValue(parent, contextKey{}, c)
}

// FromContext recovers the Ctx stashed by WithAmbient, if any.
func FromContext(ctx context.Context) (*Ctx, bool) {
	c, ok := ctx.Value(contextKey{}).(*Ctx)

	return c, ok
}
