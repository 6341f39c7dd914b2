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
	"strings"

	"corehttp.dev/corehttp/httperr"
)

// segmentKind tags a parsed template segment.
type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentParam
	segmentWildcard
	segmentTerminator
)

// templateSegment is one `/`-delimited piece of a parsed route template.
type templateSegment struct {
	kind  segmentKind
	value string // literal text, or the parameter name (without ':')
}

func isLiteralByte(c byte) bool {
	return c == '_' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isParamNameByte(c byte, first bool) bool {
	if first {
		return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}

	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// parseTemplate validates and splits a route template per the grammar:
// it must start with "/"; segments are "/"-separated; each segment is a
// literal `[A-Za-z0-9_-]+`, a parameter `:name`, a single wildcard `*`, or
// a terminator `**` (only as the final segment). "/**/" in the interior is
// rejected; "/**" alone at root is allowed; "/" alone is allowed.
func parseTemplate(template string) ([]templateSegment, error) {
	if template == "" || template[0] != '/' {
		return nil, fmt.Errorf("%w: template must start with '/': %q", httperr.ErrInvalidTemplate, template)
	}

	if template == "/" {
		return nil, nil
	}

	raw := strings.Split(strings.TrimPrefix(template, "/"), "/")
	segments := make([]templateSegment, 0, len(raw))

	for i, s := range raw {
		if s == "" {
			return nil, fmt.Errorf("%w: empty segment in template: %q", httperr.ErrInvalidTemplate, template)
		}

		seg, err := parseSegment(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", httperr.ErrInvalidTemplate, template, err)
		}

		if seg.kind == segmentTerminator && i != len(raw)-1 {
			return nil, fmt.Errorf("%w: terminator '**' must be the final segment: %q", httperr.ErrInvalidTemplate, template)
		}

		segments = append(segments, seg)
	}

	return segments, nil
}

func parseSegment(s string) (templateSegment, error) {
	switch {
	case s == "**":
		return templateSegment{kind: segmentTerminator}, nil
	case s == "*":
		return templateSegment{kind: segmentWildcard}, nil
	case strings.HasPrefix(s, ":"):
		name := s[1:]
		if name == "" {
			return templateSegment{}, fmt.Errorf("parameter segment missing name: %q", s)
		}
		for i := 0; i < len(name); i++ {
			if !isParamNameByte(name[i], i == 0) {
				return templateSegment{}, fmt.Errorf("invalid parameter name: %q", s)
			}
		}

		return templateSegment{kind: segmentParam, value: name}, nil
	default:
		for i := 0; i < len(s); i++ {
			if !isLiteralByte(s[i]) {
				return templateSegment{}, fmt.Errorf("invalid literal segment: %q", s)
			}
		}

		return templateSegment{kind: segmentLiteral, value: s}, nil
	}
}
