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

package content

import (
	"net/url"
	"strings"
)

// Path is a request path: the original wire string plus its decoded
// segments.
type Path struct {
	Original string
	Segments []string
}

// ParsePath splits original on '/' into URI-decoded segments, leaving
// Original untouched so that ParsePath(p).Original == p always holds.
func ParsePath(original string) Path {
	trimmed := strings.Trim(original, "/")

	var segments []string
	if trimmed != "" {
		for _, s := range strings.Split(trimmed, "/") {
			if decoded, err := url.PathUnescape(s); err == nil {
				segments = append(segments, decoded)
			} else {
				segments = append(segments, s)
			}
		}
	}

	return Path{Original: original, Segments: segments}
}

// Query is the parsed query string: the original text plus a multi-valued
// parameter mapping preserving encounter order per key.
type Query struct {
	Original string
	Values   map[string][]string
}

// ParseQuery splits raw (the portion after '?', without the '?' itself) on
// '&', coalescing repeated keys into an ordered sequence of values.
func ParseQuery(raw string) Query {
	q := Query{Original: raw, Values: make(map[string][]string)}
	if raw == "" {
		return q
	}

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		if decodedKey, err := url.QueryUnescape(key); err == nil {
			key = decodedKey
		}
		if decodedValue, err := url.QueryUnescape(value); err == nil {
			value = decodedValue
		}

		q.Values[key] = append(q.Values[key], value)
	}

	return q
}

// Get returns the first value for key, or "" if absent.
func (q Query) Get(key string) string {
	vals := q.Values[key]
	if len(vals) == 0 {
		return ""
	}

	return vals[0]
}
