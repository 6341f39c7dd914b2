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

package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"corehttp.dev/corehttp/content"
	"corehttp.dev/corehttp/httperr"
)

// Client submits outbound requests against a base URL, driving each
// through a client-side Operation. Grounded on the teacher's own
// outbound HTTP usage (a *http.Client wrapped with explicit per-call
// timeouts, as seen in rivaas.dev/app's health/readiness check callers),
// generalized here into the explicit state machine required by spec.md
// §4.7.
type Client struct {
	http    *http.Client
	baseURL string
}

// New builds a Client against baseURL (scheme://host[:port], no trailing
// slash). A nil http.Client uses http.DefaultClient's transport with no
// client-wide timeout; per-Submit timeouts are enforced independently by
// the Operation's own timer.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// Submit drives req through QUEUED -> WRITING -> PROCESSING -> READING ->
// COMPLETED over the wire, realizing spec.md §4.7's "future" as a
// synchronous call: the idiomatic Go rendering of a promise the caller
// already holds a goroutine to await. Callers wanting concurrent submits
// call Submit from their own goroutines, as the corpus does for outbound
// calls. A zero timeout disables the per-submit deadline.
//
// On success it returns the decoded response. On failure it returns a
// translated *httperr.Error of kind ABORTED, TIMEOUT, or UNKNOWN, per
// spec.md §4.7.
func (c *Client) Submit(ctx context.Context, req *content.Request, timeout time.Duration) (*content.Response, *httperr.Error) {
	op := newOperation(req)
	op.setTimeout(timeout)

	sendCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-op.Done():
			cancel()
		case <-sendCtx.Done():
		}
	}()

	if !op.transition(Writing) {
		return nil, op.Err()
	}

	httpReq, err := encodeRequest(sendCtx, c.baseURL, req)
	if err != nil {
		op.fail(httperr.Wrap(httperr.Unknown, err))

		return nil, op.Err()
	}

	if !op.transition(Processing) {
		return nil, op.Err()
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		// The operation's own timer may already have failed it and
		// cancelled sendCtx, which is what made Do return; prefer that
		// recorded cause over reclassifying the resulting wrapped error.
		if existing := op.Err(); existing != nil {
			return nil, existing
		}

		op.fail(classify(err))

		return nil, op.Err()
	}

	if !op.transition(Reading) {
		resp.Body.Close()

		return nil, op.Err()
	}

	decoded := decodeResponse(resp)

	op.complete(decoded)

	return decoded, nil
}

// classify maps a transport-level error from http.Client.Do to the
// ABORTED/TIMEOUT/UNKNOWN taxonomy.
func classify(err error) *httperr.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return httperr.New(httperr.Timeout, err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return httperr.New(httperr.Aborted, err.Error())
	}

	return httperr.Wrap(httperr.Unknown, err)
}

// encodeRequest builds a *http.Request from a content.Request against
// baseURL, preserving method, path, query, headers, and body.
func encodeRequest(ctx context.Context, baseURL string, req *content.Request) (*http.Request, error) {
	u, err := url.Parse(baseURL + req.Path.Original)
	if err != nil {
		return nil, err
	}
	u.RawQuery = req.Query.Original

	var body io.Reader
	if req.Body != nil {
		body = req.Body.Stream
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), u.String(), body)
	if err != nil {
		return nil, err
	}

	if req.Headers != nil {
		for _, name := range req.Headers.Names() {
			for _, v := range req.Headers.Values(name) {
				httpReq.Header.Add(name, v)
			}
		}
	}

	return httpReq, nil
}

// decodeResponse builds a content.Response from an *http.Response. The
// body is buffered eagerly so the connection can be released back to the
// transport's pool before the caller reads the decoded body, matching
// net/http's own documented close-when-drained contract.
func decodeResponse(resp *http.Response) *content.Response {
	defer resp.Body.Close()

	headers := content.NewHeader()
	for name, values := range resp.Header {
		for _, v := range values {
			headers.Add(name, v)
		}
	}

	buf, _ := io.ReadAll(resp.Body)

	var body *content.Body
	if len(buf) > 0 {
		mt, err := content.ParseMediaType(headers.Get("content-type"))
		if err != nil {
			mt, _ = content.ParseMediaType("application/octet-stream")
		}

		body = content.NewBody(mt, io.NopCloser(bytes.NewReader(buf)))
	}

	return content.NewResponse(resp.StatusCode, headers, body)
}
