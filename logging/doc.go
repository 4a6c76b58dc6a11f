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

// Package logging provides the process log sink.
//
// Records are written to standard output as one JSON object per line:
//
//	{"@timestamp":"2025-01-02T15:04:05.123Z","level":"INFO","message":"Root endpoint called",
//	 "name":"server","request_id":"3f6c...","trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"}
//
// The level is always upper-case, the timestamp has millisecond precision
// and "name" is "root" unless the logger was named with [Logger.Named] or
// [Named].
//
// # Basic Usage
//
//	logger := logging.MustNew(logging.WithGlobalLogger())
//	logger.Logger().Info("Application starting up", "environment", "dev")
//
// # Correlation
//
// Request and trace IDs are not passed as attributes. They are read from
// the context given to the *Context logging methods:
//
//	ctx = logging.ContextWithCorrelation(ctx, logging.Correlation{RequestID: id})
//	log.InfoContext(ctx, "processing") // carries request_id
//
// When the context holds a valid OpenTelemetry span and no trace ID was
// stored, the span's trace ID is used.
//
// # Sensitive Data Redaction
//
// Values of the keys password, token, secret, api_key and authorization
// are replaced with "***REDACTED***". Additional rewriting can be
// configured using [WithReplaceAttr].
//
// # Formats
//
// [FormatJSON] is the default. [FormatText] and [FormatConsole] are meant
// for local development and keep the same field names.
package logging
