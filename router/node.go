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

	"corehttp.dev/corehttp/content"
	"corehttp.dev/corehttp/httperr"
	"corehttp.dev/corehttp/operation"
)

// handlerTable maps method to handler. A nil method key ("") is used when
// a handler is registered for all methods.
type handlerTable map[content.Method]operation.HandlerFunc

const allMethods content.Method = ""

// paramChild is the single parameter child of a node, if any.
type paramChild struct {
	name string
	node *node
}

// wildcardChild is the single wildcard child of a node, if any.
type wildcardChild struct {
	node *node
}

// node is one position in the route trie. Per the design notes, "is
// router" / "is handler" are independent boolean queries on the same node
// shape rather than disjoint node types: a node may carry a handler table,
// a nested sub-router, both, or neither.
type node struct {
	// literal children, keyed by exact segment text.
	literals map[string]*node

	param      *paramChild
	wildcard   *wildcardChild
	terminator *node // non-nil if a "**" is registered at this position

	handlers handlerTable
	subrouter *Router

	template string // the template this node's handlers (if any) were registered under
}

func newNode() *node {
	return &node{}
}

func (n *node) literalChild(segment string) *node {
	if n.literals == nil {
		return nil
	}

	return n.literals[segment]
}

func (n *node) literalOrCreate(segment string) *node {
	if n.literals == nil {
		n.literals = make(map[string]*node)
	}
	child, ok := n.literals[segment]
	if !ok {
		child = newNode()
		n.literals[segment] = child
	}

	return child
}

// walk descends the trie along segments, creating literal/param/wildcard
// children as needed and enforcing mutual exclusivity of param, wildcard
// and terminator at each position. It returns the terminal node, or an error if a conflict
// is found (e.g. a param with a different name already registered at this
// position, or a wildcard/terminator collision).
func (n *node) walk(segments []templateSegment) (*node, error) {
	cur := n

	for i, seg := range segments {
		switch seg.kind {
		case segmentLiteral:
			cur = cur.literalOrCreate(seg.value)

		case segmentParam:
			if cur.wildcard != nil {
				return nil, fmt.Errorf("%w: parameter conflicts with existing wildcard at this position", httperr.ErrRoutingConflict)
			}
			if cur.terminator != nil {
				return nil, fmt.Errorf("%w: parameter conflicts with existing terminator at this position", httperr.ErrRoutingConflict)
			}
			if cur.param != nil && cur.param.name != seg.value {
				return nil, fmt.Errorf("%w: parameter name mismatch at same position: %q vs %q",
					httperr.ErrRoutingConflict, cur.param.name, seg.value)
			}
			if cur.param == nil {
				cur.param = &paramChild{name: seg.value, node: newNode()}
			}
			cur = cur.param.node

		case segmentWildcard:
			if cur.param != nil {
				return nil, fmt.Errorf("%w: wildcard conflicts with existing parameter at this position", httperr.ErrRoutingConflict)
			}
			if cur.terminator != nil {
				return nil, fmt.Errorf("%w: wildcard conflicts with existing terminator at this position", httperr.ErrRoutingConflict)
			}
			if cur.wildcard == nil {
				cur.wildcard = &wildcardChild{node: newNode()}
			}
			cur = cur.wildcard.node

		case segmentTerminator:
			if i != len(segments)-1 {
				return nil, fmt.Errorf("%w: terminator must be final segment", httperr.ErrRoutingConflict)
			}
			if cur.param != nil || cur.wildcard != nil {
				return nil, fmt.Errorf("%w: terminator conflicts with existing parameter or wildcard at this position", httperr.ErrRoutingConflict)
			}
			if cur.terminator == nil {
				cur.terminator = newNode()
			}
			cur = cur.terminator
		}
	}

	return cur, nil
}
