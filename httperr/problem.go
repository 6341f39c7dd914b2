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
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ProblemDetail is an RFC 9457 problem details object. Extensions are
// merged inline at marshal time rather than nested under a field.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON merges Extensions into the top-level object, protecting the
// reserved RFC 9457 field names from being overwritten by an extension.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}

	for k, v := range p.Extensions {
		if k != "type" && k != "title" && k != "status" && k != "detail" && k != "instance" {
			m[k] = v
		}
	}

	return json.Marshal(m)
}

// ProblemResponse pairs a status code and content type with the body ready
// to encode.
type ProblemResponse struct {
	Status      int
	ContentType string
	Body        ProblemDetail
}

// ProblemFormatter builds RFC 9457 Problem Details documents from errors.
// BaseURL, when set, is prepended to the problem type slug.
type ProblemFormatter struct {
	BaseURL         string
	DisableErrorID  bool
	ErrorIDGenerator func() string
}

// Format converts err into a ProblemResponse for the given request path.
func (f *ProblemFormatter) Format(requestPath string, err *Error) ProblemResponse {
	status := StatusFor(err)

	p := ProblemDetail{
		Type:       f.typeFor(err),
		Title:      http.StatusText(status),
		Status:     status,
		Instance:   requestPath,
		Extensions: make(map[string]any),
	}
	if err != nil {
		p.Detail = err.Description
	}

	if !f.DisableErrorID {
		gen := f.ErrorIDGenerator
		if gen == nil {
			gen = generateErrorID
		}
		p.Extensions["error_id"] = gen()
	}

	return ProblemResponse{
		Status:      status,
		ContentType: "application/problem+json; charset=utf-8",
		Body:        p,
	}
}

func (f *ProblemFormatter) typeFor(err *Error) string {
	slug := "about:blank"
	if err != nil {
		slug = err.Kind.String()
	}

	if f.BaseURL == "" || slug == "about:blank" {
		return slug
	}

	return f.BaseURL + "/" + slug
}

func generateErrorID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("err-%d", time.Now().UnixNano())
	}

	return "err-" + hex.EncodeToString(buf)
}
