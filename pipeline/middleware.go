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

import "corehttp.dev/corehttp/operation"

// Middleware participates in both the MIDDLEWARE.beforeRequest and
// MIDDLEWARE.afterResponse stages. BeforeRequest may return a Ctx carrying
// a response (ctx.WithResponse) to short-circuit later middlewares and the
// handler;
// afterResponse still runs regardless. AfterResponse may mutate the bound
// response in place before finalization.
type Middleware interface {
	BeforeRequest(ctx *operation.Ctx) *operation.Ctx
	AfterResponse(ctx *operation.Ctx) *operation.Ctx
}

// MiddlewareFuncs adapts two plain functions into a Middleware.
type MiddlewareFuncs struct {
	Before func(ctx *operation.Ctx) *operation.Ctx
	After  func(ctx *operation.Ctx) *operation.Ctx
}

func (m MiddlewareFuncs) BeforeRequest(ctx *operation.Ctx) *operation.Ctx {
	if m.Before == nil {
		return ctx
	}

	return m.Before(ctx)
}

func (m MiddlewareFuncs) AfterResponse(ctx *operation.Ctx) *operation.Ctx {
	if m.After == nil {
		return ctx
	}

	return m.After(ctx)
}
