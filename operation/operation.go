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
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"corehttp.dev/corehttp/content"
	"corehttp.dev/corehttp/httperr"
)

// ChangedFunc is invoked after every successful state transition with the
// state the operation just left.
type ChangedFunc func(previous State)

// ResponseFunc is invoked exactly once, when a response is bound.
type ResponseFunc func(resp *content.Response)

// ErrorFunc is invoked when Fail is called with a non-nil cause.
type ErrorFunc func(err *httperr.Error)

// Operation is the per-request state machine described by the core design:
// it owns one request and at most one response, carries an abort signal,
// an optional timeout timer, and emits lifecycle events. A single Operation
// must never be driven by two goroutines concurrently; the pipeline
// guarantees this by handing it to one stage at a time.
type Operation struct {
	id      uuid.UUID
	request *content.Request
	span    trace.Span

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

	onChanged  []ChangedFunc
	onStarted  []func()
	onFinished []func()
	onResponse []ResponseFunc
	onError    []ErrorFunc

	bodyDrainHook func()
}

// New creates an Operation in state Queued for the given request.
func New(req *content.Request, span trace.Span) *Operation {
	ctx, cancel := context.WithCancelCause(context.Background())

	return &Operation{
		id:          req.ID,
		request:     req,
		span:        span,
		state:       Queued,
		started:     time.Now(),
		abortCtx:    ctx,
		abortCancel: cancel,
	}
}

// ID returns the request identifier.
func (o *Operation) ID() uuid.UUID { return o.id }

// Request returns the bound request.
func (o *Operation) Request() *content.Request { return o.request }

// Span returns the opaque telemetry span handle.
func (o *Operation) Span() trace.Span { return o.span }

// State returns the current state.
func (o *Operation) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state
}

// Response returns the bound response, or nil if none has been bound yet.
func (o *Operation) Response() *content.Response {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.response
}

// Err returns the error bound by Fail, or nil.
func (o *Operation) Err() *httperr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.err
}

// Duration returns the elapsed time since creation, frozen once the
// operation enters a terminal state.
func (o *Operation) Duration() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Terminal() {
		return o.duration
	}

	return time.Since(o.started)
}

// Done returns the abort/cancellation signal. It is closed when the
// operation is aborted, times out, or its context ancestor is cancelled.
func (o *Operation) Done() <-chan struct{} {
	return o.abortCtx.Done()
}

// Context returns the operation's cancellation context, suitable for
// passing to handlers and middleware so they observe the abort signal.
func (o *Operation) Context() context.Context {
	return o.abortCtx
}

// OnChanged registers a callback fired after every successful transition.
func (o *Operation) OnChanged(fn ChangedFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onChanged = append(o.onChanged, fn)
}

// OnStarted registers a callback fired once, on the first transition out
// of Queued.
func (o *Operation) OnStarted(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onStarted = append(o.onStarted, fn)
}

// OnFinished registers a callback fired exactly once, upon entering any
// terminal state.
func (o *Operation) OnFinished(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onFinished = append(o.onFinished, fn)
}

// OnResponse registers a callback fired exactly once, when a response is
// bound.
func (o *Operation) OnResponse(fn ResponseFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onResponse = append(o.onResponse, fn)
}

// OnError registers a callback fired when Fail is called with a cause.
func (o *Operation) OnError(fn ErrorFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onError = append(o.onError, fn)
}

// SetTimeout arms a one-shot timer that fails the operation with a Timeout
// error if it has not left every non-terminal state by d. The timer is
// cancelled automatically once the operation enters a terminal state.
func (o *Operation) SetTimeout(d time.Duration) {
	o.mu.Lock()
	if o.state.Terminal() {
		o.mu.Unlock()

		return
	}
	o.timeoutTimer = time.AfterFunc(d, func() {
		o.Fail(httperr.New(httperr.Timeout, "operation deadline exceeded"))
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

// transition attempts cur->target under the lock, returning false (a
// no-op) if disallowed. Callers must hold no lock; transition fires the
// relevant callbacks outside the lock once the state has been updated.
func (o *Operation) transition(target State) bool {
	o.mu.Lock()

	cur := o.state
	if !canTransition(cur, target) {
		o.mu.Unlock()

		return false
	}

	o.state = target

	wasQueued := cur == Queued
	enteringTerminal := target.Terminal()
	if enteringTerminal {
		o.duration = time.Since(o.started)
	}

	o.mu.Unlock()

	// Entering a terminal state cancels the timeout timer before any
	// event fires.
	if enteringTerminal {
		o.cancelTimer()
	}

	o.fireChanged(cur)
	if wasQueued {
		o.fireStarted()
	}
	if enteringTerminal {
		o.fireFinished()
	}

	return true
}

func (o *Operation) fireChanged(previous State) {
	o.mu.Lock()
	cbs := append([]ChangedFunc(nil), o.onChanged...)
	o.mu.Unlock()

	for _, cb := range cbs {
		cb(previous)
	}
}

func (o *Operation) fireStarted() {
	o.mu.Lock()
	cbs := append([]func(), o.onStarted...)
	o.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

func (o *Operation) fireFinished() {
	o.mu.Lock()
	cbs := append([]func(), o.onFinished...)
	o.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

func (o *Operation) fireResponse(resp *content.Response) {
	o.mu.Lock()
	cbs := append([]ResponseFunc(nil), o.onResponse...)
	o.mu.Unlock()

	for _, cb := range cbs {
		cb(resp)
	}
}

func (o *Operation) fireError(err *httperr.Error) {
	o.mu.Lock()
	cbs := append([]ErrorFunc(nil), o.onError...)
	o.mu.Unlock()

	for _, cb := range cbs {
		cb(err)
	}
}

// Dequeue advances Queued -> Reading. If the request carries no body, it
// immediately advances Reading -> Processing; otherwise it arms a one-shot
// hook that the pipeline invokes once the body has been fully drained.
func (o *Operation) Dequeue() bool {
	if !o.transition(Reading) {
		return false
	}

	if o.request.Body == nil {
		o.transition(Processing)

		return true
	}

	o.bodyDrainHook = func() { o.transition(Processing) }

	return true
}

// NotifyBodyDrained invokes the hook armed by Dequeue when the request
// body stream ends. It is a no-op if no hook is pending.
func (o *Operation) NotifyBodyDrained() {
	o.mu.Lock()
	hook := o.bodyDrainHook
	o.bodyDrainHook = nil
	o.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Complete binds resp (rejecting a second call) and advances Processing ->
// Writing. If resp carries no body it immediately advances Writing ->
// Completed; otherwise the caller must call NotifyResponseDrained once the
// response body stream ends.
func (o *Operation) Complete(resp *content.Response) bool {
	o.mu.Lock()
	if o.response != nil {
		o.mu.Unlock()

		return false
	}
	o.response = resp
	o.mu.Unlock()

	if !o.transition(Writing) {
		return false
	}

	o.fireResponse(resp)

	if resp.Body == nil {
		o.transition(Completed)
	}

	return true
}

// NotifyResponseDrained advances Writing -> Completed once the response
// body stream has been fully written to the wire.
func (o *Operation) NotifyResponseDrained() bool {
	return o.transition(Completed)
}

// Fail transitions the operation to Timeout (if cause is a Timeout-kind
// error) or Aborted otherwise. It is a no-op, returning false, if the
// operation is already Writing or terminal. The abort signal is always
// cancelled with the cause's description, and error callbacks fire when a
// non-nil cause is supplied.
func (o *Operation) Fail(cause *httperr.Error) bool {
	target := Aborted
	if cause != nil && cause.Kind == httperr.Timeout {
		target = Timeout
	}

	ok := o.transition(target)
	if !ok {
		return false
	}

	reason := "operation failed"
	if cause != nil {
		reason = cause.Error()
		o.mu.Lock()
		o.err = cause
		o.mu.Unlock()
		o.fireError(cause)
	}
	o.abortCancel(errReason(reason))

	return true
}

type errReason string

func (e errReason) Error() string { return string(e) }
