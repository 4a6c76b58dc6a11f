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

// Package requestid assigns every request an ID and carries it, together
// with the active trace ID, in the request context.
//
// Handlers never pass the IDs around explicitly. Logging with the request
// context is enough:
//
//	log.InfoContext(r.Context(), "Root endpoint called")
//	// {"level":"INFO","message":"Root endpoint called","request_id":"...","trace_id":"..."}
//
// The ID is taken from the inbound X-Request-ID header when present and
// echoed on the response. Otherwise a UUID v4 is generated.
package requestid
