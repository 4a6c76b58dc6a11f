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

// Package httperr turns Go errors into HTTP error responses.
//
// A [Formatter] maps an error to a [Response]; [Write] sends it. Two
// formatters are provided:
//
//   - [Simple]: {"error": "...", "code": "..."}
//   - [RFC9457]: application/problem+json problem details
//
// Errors carry their HTTP status and machine-readable code through the
// optional [ErrorType] and [ErrorCode] interfaces, which [WithStatus] and
// [WithCode] attach to any error:
//
//	err := httperr.WithCode(httperr.WithStatus(errors.New("Internal server error"), 500), "INTERNAL_ERROR")
//	httperr.Write(w, r, httperr.NewSimple(), err)
package httperr
