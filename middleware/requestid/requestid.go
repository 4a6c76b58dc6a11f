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

package requestid

import (
	"context"
	"crypto/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rivaas-dev/backend-service/logging"
	"github.com/rivaas-dev/backend-service/middleware"
	"github.com/rivaas-dev/backend-service/telemetry/semconv"
)

// DefaultHeader is the request and response header carrying the request ID.
const DefaultHeader = "X-Request-ID"

// Option defines functional options for requestid middleware configuration.
type Option func(*config)

type config struct {
	// headerName is the name of the header to use for the request ID
	headerName string

	// generator is the function used to generate new request IDs
	generator func() string

	// allowClientID allows using request IDs provided by clients
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    DefaultHeader,
		generator:     uuid.NewString,
		allowClientID: true,
	}
}

var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

// generateULID returns a 26-character, time-ordered ULID.
func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// New returns a middleware that establishes the request's correlation.
//
// For every request it:
//
//  1. takes the inbound X-Request-ID, or generates a UUID v4 when the header
//     is absent or empty
//  2. takes the trace ID of the active span, when its context is valid
//  3. sets X-Request-ID on the response
//  4. stores both IDs in the request context as a [logging.Correlation]
//
// The response header is set before the next handler runs, because net/http
// sends headers on the first write. It is therefore present on every
// response, including error responses written by inner middleware.
//
// New must run inside the tracing middleware to see its span.
func New(opts ...Option) middleware.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var requestID string
			if cfg.allowClientID {
				requestID = r.Header.Get(cfg.headerName)
			}
			if requestID == "" {
				requestID = cfg.generator()
			}

			ctx := r.Context()
			span := trace.SpanFromContext(ctx)

			var traceID string
			if sc := span.SpanContext(); sc.IsValid() {
				traceID = sc.TraceID().String()
			}
			if span.IsRecording() {
				span.SetAttributes(attribute.String(semconv.RequestID, requestID))
			}

			w.Header().Set(cfg.headerName, requestID)

			ctx = logging.ContextWithCorrelation(ctx, logging.Correlation{
				RequestID: requestID,
				TraceID:   traceID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Get returns the request ID stored by [New], or "".
func Get(ctx context.Context) string {
	return logging.CorrelationFromContext(ctx).RequestID
}

// TraceID returns the trace ID of the request, or "" when no valid span exists.
func TraceID(ctx context.Context) string {
	return logging.CorrelationFromContext(ctx).TraceID
}
