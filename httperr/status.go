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

import "net/http"

// StatusFor maps a terminal operation error to the wire status the
// transport adapter sends when headers have not yet been written.
// ABORTED has no natural HTTP status (the connection is simply dropped);
// callers that must still emit a response use the 500 fallback.
func StatusFor(err *Error) int {
	if err == nil {
		return http.StatusOK
	}

	switch err.Kind {
	case Timeout:
		return http.StatusServiceUnavailable
	case Aborted:
		return http.StatusInternalServerError
	case Closed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
