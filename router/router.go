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

package router

import (
	"fmt"
	"sync"

	"corehttp.dev/corehttp/content"
	"corehttp.dev/corehttp/httperr"
	"corehttp.dev/corehttp/operation"
)

// Router is the trie-based route table. Mutations (AddHandler, AddRouter)
// are intended for a single-threaded configuration phase; Lookup is safe
// for concurrent use and takes only a read lock.
type Router struct {
	mu   sync.RWMutex
	root *node
}

// New creates an empty Router.
func New() *Router {
	return &Router{root: newNode()}
}

// Match is the result of a successful Lookup.
type Match struct {
	Template   string
	Handler    operation.HandlerFunc
	Parameters map[string]any
}

// AddHandler registers handler at template for method. An empty method
// registers the handler for every method not otherwise registered at this
// position. Duplicate (method, template) registration fails with
// ErrRoutingConflict and leaves the tree unchanged; so does any template
// that fails to parse or conflicts with an existing parameter/wildcard at
// the same trie position. A node that already carries a sub-router cannot
// also carry a handler.
func (r *Router) AddHandler(template string, method content.Method, handler operation.HandlerFunc) error {
	segments, err := parseTemplate(template)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	target, err := r.root.walk(segments)
	if err != nil {
		return err
	}

	if target.subrouter != nil {
		return fmt.Errorf("%w: a router is already mounted at %q", httperr.ErrRoutingConflict, template)
	}

	if target.handlers == nil {
		target.handlers = make(handlerTable)
	}
	if _, exists := target.handlers[method]; exists {
		return fmt.Errorf("%w: duplicate handler for %q %v", httperr.ErrRoutingConflict, template, method)
	}

	target.handlers[method] = handler
	target.template = template

	return nil
}

// AddRouter mounts sub at template. A root-level "/" sub-router may be
// mounted only once. A node that already carries a handler cannot also
// carry a sub-router.
func (r *Router) AddRouter(template string, sub *Router) error {
	segments, err := parseTemplate(template)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	target, err := r.root.walk(segments)
	if err != nil {
		return err
	}

	if target.handlers != nil {
		return fmt.Errorf("%w: a handler is already registered at %q", httperr.ErrRoutingConflict, template)
	}
	if target.subrouter != nil {
		return fmt.Errorf("%w: a router is already mounted at %q", httperr.ErrRoutingConflict, template)
	}

	target.subrouter = sub

	return nil
}

// Lookup descends the trie for path and method, returning the matched
// handler and extracted parameters, or ErrRouteNotFound /
// ErrMethodNotAllowed.
func (r *Router) Lookup(path content.Path, method content.Method) (Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	params := make(map[string]any)

	match, err := descend(r.root, path.Segments, 0, method, params)
	if err != nil {
		return Match{}, err
	}

	return match, nil
}

// descend walks segments[idx:] from n, trying literal children first, then
// the parameter child, then the wildcard child, then a terminator, in that
// priority order (static > param/wildcard; terminator only when no other
// descent consumes the path). A sub-router mounted at n is tried against
// the remaining path before any of n's own children, merging its resolved
// parameters over any collected so far.
func descend(n *node, segments []string, idx int, method content.Method, params map[string]any) (Match, error) {
	if n.subrouter != nil {
		m, err := n.subrouter.Lookup(content.Path{Segments: segments[idx:]}, method)
		if err == nil {
			for k, v := range m.Parameters {
				params[k] = v
			}

			return Match{Template: m.Template, Handler: m.Handler, Parameters: params}, nil
		}
	}

	if idx == len(segments) {
		return matchAt(n, method, params)
	}

	seg := segments[idx]

	if child := n.literalChild(seg); child != nil {
		if m, err := descend(child, segments, idx+1, method, params); err == nil {
			return m, nil
		}
	}

	if n.param != nil {
		params[n.param.name] = ParseValue(seg)
		if m, err := descend(n.param.node, segments, idx+1, method, params); err == nil {
			return m, nil
		}
		delete(params, n.param.name)
	}

	if n.wildcard != nil {
		if m, err := descend(n.wildcard.node, segments, idx+1, method, params); err == nil {
			return m, nil
		}
	}

	if n.terminator != nil {
		return matchAt(n.terminator, method, params)
	}

	return Match{}, httperr.ErrRouteNotFound
}

func matchAt(n *node, method content.Method, params map[string]any) (Match, error) {
	if n == nil || n.handlers == nil {
		return Match{}, httperr.ErrRouteNotFound
	}

	h, ok := n.handlers[method]
	if !ok {
		h, ok = n.handlers[allMethods]
	}
	if !ok {
		return Match{}, httperr.ErrMethodNotAllowed
	}

	return Match{Template: n.template, Handler: h, Parameters: params}, nil
}
