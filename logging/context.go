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

package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Correlation holds the per-request identifiers attached to every log
// record emitted with the request context.
type Correlation struct {
	// RequestID is the X-Request-ID of the request being served.
	RequestID string
	// TraceID is the 32-character lowercase hex trace ID, if a valid span exists.
	TraceID string
}

type correlationKey struct{}

// ContextWithCorrelation returns a copy of ctx carrying c.
func ContextWithCorrelation(ctx context.Context, c Correlation) context.Context {
	return context.WithValue(ctx, correlationKey{}, c)
}

// CorrelationFromContext returns the correlation stored in ctx.
//
// When ctx carries no trace ID but holds a valid OpenTelemetry span,
// the span's trace ID is used instead. A nil ctx yields the zero value.
func CorrelationFromContext(ctx context.Context) Correlation {
	if ctx == nil {
		return Correlation{}
	}

	c, _ := ctx.Value(correlationKey{}).(Correlation)
	if c.TraceID == "" {
		c.TraceID = TraceIDFromContext(ctx)
	}

	return c
}

// TraceIDFromContext returns the trace ID of the span in ctx, or "" when
// the span context is not valid.
func TraceIDFromContext(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}

	return ""
}
