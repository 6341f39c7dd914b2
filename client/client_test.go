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
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corehttp.dev/corehttp/content"
	"corehttp.dev/corehttp/httperr"
)

func TestClientSubmitSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hello", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"hello":"world"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())

	req := content.NewRequest(content.MethodGet, content.ParsePath("/hello"), content.ParseQuery(""), content.NewHeader(), content.HTTP1_1, nil)

	resp, err := c.Submit(context.Background(), req, time.Second)
	require.Nil(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.Status)

	body, readErr := io.ReadAll(resp.Body.Stream)
	require.NoError(t, readErr)
	assert.JSONEq(t, `{"hello":"world"}`, string(body))
}

func TestClientSubmitTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	c := New(srv.URL, srv.Client())

	req := content.NewRequest(content.MethodGet, content.ParsePath("/slow"), content.ParseQuery(""), content.NewHeader(), content.HTTP1_1, nil)

	_, err := c.Submit(context.Background(), req, 20*time.Millisecond)
	require.NotNil(t, err)
	assert.Equal(t, httperr.Timeout, err.Kind)
}

func TestClientSubmitAborted(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	c := New(srv.URL, srv.Client())

	ctx, cancel := context.WithCancel(context.Background())
	req := content.NewRequest(content.MethodGet, content.ParsePath("/slow"), content.ParseQuery(""), content.NewHeader(), content.HTTP1_1, nil)

	done := make(chan struct{})
	var err *httperr.Error
	go func() {
		_, err = c.Submit(ctx, req, 0)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("submit never returned after cancellation")
	}

	require.NotNil(t, err)
	assert.Equal(t, httperr.Aborted, err.Kind)
}
