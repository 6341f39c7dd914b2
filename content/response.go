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
	"bytes"
	"io"
)

// Response is the outcome bound to an operation by the pipeline's COMPLETE
// stage or by a short-circuiting transform.
type Response struct {
	Status  int
	Message string // optional reason phrase; "" uses the status's default
	Headers *Header
	Body    *Body // nil when the response carries no body
}

// NewResponse builds a Response with an initialized header set.
func NewResponse(status int, headers *Header, body *Body) *Response {
	if headers == nil {
		headers = NewHeader()
	}

	return &Response{Status: status, Headers: headers, Body: body}
}

// JSONResponse builds a Response whose body is the given bytes, tagged
// application/json.
func JSONResponse(status int, payload []byte) *Response {
	h := NewHeader()
	h.Set("content-type", "application/json")

	mt, _ := ParseMediaType("application/json")

	return NewResponse(status, h, NewBody(mt, io.NopCloser(bytes.NewReader(payload))))
}
