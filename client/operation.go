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

package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"corehttp.dev/corehttp/content"
	"corehttp.dev/corehttp/httperr"
)

// Operation is the client-side mirror of operation.Operation: it owns one
// outbound request and at most one response, carries an abort signal, and
// emits the same changed/started/finished/response/error event shape.
type Operation struct {
	id      uuid.UUID
	request *content.Request

	mu       sync.Mutex
	state    State
	response *content.Response
	err      *httperr.Error

	started  time.Time
	duration time.Duration

	abortCtx    context.Context
	abortCancel context.CancelCauseFunc

	timeoutTimer *time.Timer
	timeoutOnce  sync.Once

	onChanged  []func(previous State)
	onFinished []func()
}

// newOperation creates an Operation in state Queued for req.
func newOperation(req *content.Request) *Operation {
	ctx, cancel := context.WithCancelCause(context.Background())

	return &Operation{
		id:          req.ID,
		request:     req,
		state:       Queued,
		started:     time.Now(),
		abortCtx:    ctx,
		abortCancel: cancel,
	}
}

// ID returns the outbound request identifier.
func (o *Operation) ID() uuid.UUID { return o.id }

// State returns the current state.
func (o *Operation) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state
}

// Response returns the bound response, or nil.
func (o *Operation) Response() *content.Response {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.response
}

// Err returns the error bound by fail, or nil.
func (o *Operation) Err() *httperr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.err
}

// Duration returns the elapsed time since creation, frozen once terminal.
func (o *Operation) Duration() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Terminal() {
		return o.duration
	}

	return time.Since(o.started)
}

// Done returns the abort/cancellation signal for this operation.
func (o *Operation) Done() <-chan struct{} {
	return o.abortCtx.Done()
}

// OnChanged registers a callback fired after every successful transition.
func (o *Operation) OnChanged(fn func(previous State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onChanged = append(o.onChanged, fn)
}

// OnFinished registers a callback fired exactly once, upon entering any
// terminal state.
func (o *Operation) OnFinished(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onFinished = append(o.onFinished, fn)
}

func (o *Operation) setTimeout(d time.Duration) {
	if d <= 0 {
		return
	}

	o.mu.Lock()
	if o.state.Terminal() {
		o.mu.Unlock()

		return
	}
	o.timeoutTimer = time.AfterFunc(d, func() {
		o.fail(httperr.New(httperr.Timeout, "submit deadline exceeded"))
	})
	o.mu.Unlock()
}

func (o *Operation) cancelTimer() {
	o.timeoutOnce.Do(func() {
		if o.timeoutTimer != nil {
			o.timeoutTimer.Stop()
		}
	})
}

func (o *Operation) transition(target State) bool {
	o.mu.Lock()

	cur := o.state
	if !canTransition(cur, target) {
		o.mu.Unlock()

		return false
	}

	o.state = target

	enteringTerminal := target.Terminal()
	if enteringTerminal {
		o.duration = time.Since(o.started)
	}

	o.mu.Unlock()

	if enteringTerminal {
		o.cancelTimer()
	}

	o.fireChanged(cur)
	if enteringTerminal {
		o.fireFinished()
	}

	return true
}

func (o *Operation) fireChanged(previous State) {
	o.mu.Lock()
	cbs := append([]func(State){}, o.onChanged...)
	o.mu.Unlock()

	for _, cb := range cbs {
		cb(previous)
	}
}

func (o *Operation) fireFinished() {
	o.mu.Lock()
	cbs := append([]func(){}, o.onFinished...)
	o.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

// complete binds resp and advances to Completed.
func (o *Operation) complete(resp *content.Response) bool {
	o.mu.Lock()
	if o.response != nil {
		o.mu.Unlock()

		return false
	}
	o.response = resp
	o.mu.Unlock()

	return o.transition(Completed)
}

// fail transitions to Timeout (if cause is Timeout-kind) or Aborted
// otherwise, recording cause and cancelling the abort signal.
func (o *Operation) fail(cause *httperr.Error) bool {
	target := Aborted
	if cause != nil && cause.Kind == httperr.Timeout {
		target = Timeout
	}

	ok := o.transition(target)
	if !ok {
		return false
	}

	reason := "submit failed"
	if cause != nil {
		reason = cause.Error()
		o.mu.Lock()
		o.err = cause
		o.mu.Unlock()
	}
	o.abortCancel(errReason(reason))

	return true
}

type errReason string

func (e errReason) Error() string { return string(e) }
