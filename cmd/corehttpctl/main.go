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

// Command corehttpctl submits a single request against a corehttpd
// instance (or any server) through the client package's mirrored
// operation state machine, printing the resolved status/body or the
// translated error kind.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"corehttp.dev/corehttp/client"
	"corehttp.dev/corehttp/content"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the server")
	path := flag.String("path", "/hello", "request path")
	method := flag.String("method", "GET", "HTTP method")
	timeout := flag.Duration("timeout", 5*time.Second, "submit timeout")
	flag.Parse()

	c := client.New(*baseURL, nil)

	req := content.NewRequest(
		content.Method(*method),
		content.ParsePath(*path),
		content.ParseQuery(""),
		content.NewHeader(),
		content.HTTP1_1,
		nil,
	)

	resp, err := c.Submit(context.Background(), req, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "submit failed: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("status: %d\n", resp.Status)

	if resp.Body != nil {
		body, readErr := io.ReadAll(resp.Body.Stream)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "read body failed: %s\n", readErr)
			os.Exit(1)
		}
		fmt.Println(string(body))
	}
}
