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

import "github.com/google/uuid"

// Request is an immutable-after-creation HTTP request, as decoded by a
// transport adapter.
type Request struct {
	ID      uuid.UUID
	Method  Method
	Path    Path
	Query   Query
	Headers *Header
	Version Version
	Body    *Body // nil when the request carries no body
}

// NewRequest builds a Request, stamping a fresh identifier.
func NewRequest(method Method, path Path, query Query, headers *Header, version Version, body *Body) *Request {
	return &Request{
		ID:      uuid.New(),
		Method:  method,
		Path:    path,
		Query:   query,
		Headers: headers,
		Version: version,
		Body:    body,
	}
}

// ContentType parses the request's Content-Type header, if present.
func (r *Request) ContentType() (MediaType, bool) {
	raw := r.Headers.Get("content-type")
	if raw == "" {
		return MediaType{}, false
	}

	mt, err := ParseMediaType(raw)
	if err != nil {
		return MediaType{}, false
	}

	return mt, true
}
