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

package httperr

import (
	"context"
	stderrors "errors"
	"fmt"
)

// Kind classifies an Error without committing to a concrete Go type per
// failure mode.
type Kind int

const (
	// Unknown is the default kind for errors with no more specific cause.
	Unknown Kind = iota
	// Aborted means the operation was cancelled, either explicitly or by
	// an upstream signal (client disconnect, pipeline shutdown).
	Aborted
	// Timeout means a deadline elapsed before the operation completed.
	Timeout
	// Closed means the underlying stream or connection was closed.
	Closed
)

// String renders the kind name.
func (k Kind) String() string {
	switch k {
	case Aborted:
		return "ABORTED"
	case Timeout:
		return "TIMEOUT"
	case Closed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Error is the concrete error type carried by operations and surfaced to
// clients. It wraps an optional underlying cause without losing the kind.
type Error struct {
	Kind        Kind
	Description string
	Cause       error
}

// New builds an Error of the given kind with a description.
func New(kind Kind, description string) *Error {
	return &Error{Kind: kind, Description: description}
}

// Wrap builds an Error of the given kind around an existing cause.
func Wrap(kind Kind, cause error) *Error {
	if cause == nil {
		return New(kind, "")
	}

	return &Error{Kind: kind, Description: cause.Error(), Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Description)
	}

	return e.Kind.String()
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrRouteNotFound is returned by the router when no registered template
// matches a lookup path.
var ErrRouteNotFound = stderrors.New("route not found")

// ErrMethodNotAllowed is returned when a path matches a template but not
// the requested method.
var ErrMethodNotAllowed = stderrors.New("method not allowed")

// ErrRoutingConflict is returned by trie mutation when a new registration
// cannot be reconciled with the existing tree (parameter name conflict,
// wildcard/parameter collision, duplicate handler, non-final terminator).
var ErrRoutingConflict = stderrors.New("routing conflict")

// ErrInvalidTemplate is returned when a route template fails the grammar
// described in the router package.
var ErrInvalidTemplate = stderrors.New("invalid route template")

// ErrResponseAlreadyBound describes a second attempt to assign a response
// to an operation. Operation.Complete reports that case by returning false
// rather than this error.
var ErrResponseAlreadyBound = stderrors.New("response already bound")

// Translate converts an arbitrary error into an *Error, preserving an
// existing *Error unchanged, mapping context cancellation to Aborted, and
// falling back to Unknown with the original message retained.
func Translate(err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if stderrors.As(err, &typed) {
		return typed
	}

	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return Wrap(Aborted, err)
	}

	return Wrap(Unknown, err)
}
