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

package semconv

// Resource attributes.
const (
	// ServiceName identifies the service that produced the telemetry.
	ServiceName = "service.name"

	// Environment is the deployment environment name (dev, staging, prod).
	// It is written as a plain "environment" key on the resource and in logs.
	Environment = "environment"
)

// Correlation fields present on log records emitted with a request context.
const (
	// RequestID is the X-Request-ID value of the request being served.
	RequestID = "request_id"

	// TraceID is the 32-character lowercase hex trace ID.
	TraceID = "trace_id"
)

// Access log fields.
const (
	HTTPMethod     = "method"
	HTTPPath       = "path"
	HTTPQuery      = "query"
	HTTPStatusCode = "status"
	HTTPProtocol   = "proto"
	DurationMS     = "duration_ms"
	BytesSent      = "bytes_sent"
	UserAgent      = "user_agent"

	// ClientIP is the remote address of the direct peer.
	ClientIP = "client_ip"

	// Slow marks requests slower than the configured threshold.
	Slow = "slow"
)

// Error fields.
const (
	Error = "error"
	Stack = "stack"

	// Exception attributes follow the OpenTelemetry exception conventions
	// and are set on spans, not logs.
	ExceptionType       = "exception.type"
	ExceptionMessage    = "exception.message"
	ExceptionStacktrace = "exception.stacktrace"
)
