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

package transport

import (
	"net/http"

	"corehttp.dev/corehttp/content"
)

// decodeRequest builds a content.Request from a decoded net/http request,
// per spec.md §6: path is URI-decoded, query is split and coalesced,
// headers fold case-insensitively, and the body (if any) is wrapped with
// its parsed media type.
func decodeRequest(r *http.Request) *content.Request {
	method := content.Method(r.Method)

	path := content.ParsePath(r.URL.EscapedPath())

	query := content.ParseQuery(r.URL.RawQuery)

	headers := content.NewHeader()
	for name, values := range r.Header {
		for _, v := range values {
			headers.Add(name, v)
		}
	}

	version := content.HTTP1_1
	if r.ProtoMajor >= 2 {
		version = content.HTTP2
	}

	var body *content.Body
	if hasBody(r) {
		mt, err := content.ParseMediaType(headers.Get("content-type"))
		if err != nil {
			mt, _ = content.ParseMediaType("application/octet-stream")
		}

		body = content.NewBody(mt, r.Body)
	}

	req := content.NewRequest(method, path, query, headers, version, body)

	return req
}

// hasBody reports whether r carries a request body worth handing to the
// operation as a stream. GET/HEAD requests and requests with neither a
// known length nor chunked encoding are treated as bodiless, matching the
// teacher's request decoding in rivaas.dev/router.
func hasBody(r *http.Request) bool {
	switch content.Method(r.Method) {
	case content.MethodGet, content.MethodHead:
		return false
	}

	if r.ContentLength > 0 {
		return true
	}

	for _, v := range r.TransferEncoding {
		if v == "chunked" {
			return true
		}
	}

	return false
}

// writeHeaders copies a content.Header onto an http.Header, preserving
// every value for every name.
func writeHeaders(dst http.Header, src *content.Header) {
	if src == nil {
		return
	}

	for _, name := range src.Names() {
		for _, v := range src.Values(name) {
			dst.Add(name, v)
		}
	}
}
