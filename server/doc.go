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

// Package server exposes the HTTP surface of the service.
//
// It serves four routes:
//
//	GET /health/live   {"status":"alive"}
//	GET /health/ready  {"status":"ready"}, or 503 when a readiness check fails
//	GET /metrics       {"status":"OTLP Export Enabled"}
//	GET /              {"message":"Hello from Backend Service"}
//
// The middleware pipeline is composed once in [New]:
//
//	otelhttp (telemetry enabled) → requestid → accesslog (enabled) → recovery → routes
//
// so every handler runs inside its span and logs carry request_id and
// trace_id.
//
// Basic usage:
//
//	srv, err := server.New(
//	    server.WithLogger(logger.Logger()),
//	    server.WithTelemetry(providers),
//	    server.WithAddr(":8000"),
//	)
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx) // until ctx is cancelled
package server
