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

import "io"

// Body is a lazily-consumed byte stream tagged with its media type. The
// stream is single-consumer: once fully read, the owning operation may
// advance state (see the operation package's drain hooks).
type Body struct {
	MediaType MediaType
	Stream    io.ReadCloser
}

// NewBody wraps an io.ReadCloser with its media type.
func NewBody(mt MediaType, stream io.ReadCloser) *Body {
	return &Body{MediaType: mt, Stream: stream}
}
