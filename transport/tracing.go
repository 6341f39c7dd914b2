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
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// otelTracer returns the tracer this adapter stamps onto every Operation
// as its opaque span handle (spec.md §3). Falls back to a no-op tracer
// until the caller installs a TracerProvider via otel.SetTracerProvider,
// matching otel.Tracer's own deferred-registration behavior.
func otelTracer() trace.Tracer {
	return otel.Tracer("corehttp.dev/corehttp/transport")
}
