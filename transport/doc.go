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

// Package transport is the external collaborator that decodes raw HTTP
// traffic into operation.Operation values, hands each to a bound
// pipeline.Pipeline, and serializes the resulting response back to the
// wire. It owns TLS/HTTP2 socket setup; the core pipeline never touches
// net.Conn or http.ResponseWriter directly.
package transport
