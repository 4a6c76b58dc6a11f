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

// Package recovery turns handler panics into 500 responses.
//
// A recovered panic marks the active span as failed, is logged at ERROR
// with the request context (so the record carries request_id and
// trace_id) and answers:
//
//	{"error":"Internal server error","code":"INTERNAL_ERROR"}
//
// [http.ErrAbortHandler] is re-raised so net/http can abort the connection.
package recovery

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rivaas-dev/backend-service/httperr"
	"github.com/rivaas-dev/backend-service/middleware"
	"github.com/rivaas-dev/backend-service/telemetry/semconv"
)

// Option defines functional options for recovery middleware configuration.
type Option func(*config)

type config struct {
	// stackTrace enables capturing the stack of the panicking goroutine
	stackTrace bool

	// stackSize caps the captured stack in bytes (0 = unlimited)
	stackSize int

	logger *slog.Logger

	// formatter renders the 500 response when no handler is set
	formatter httperr.Formatter

	handler func(w http.ResponseWriter, r *http.Request, err any)
}

// ErrInternal is the error rendered for a recovered panic. The panic value
// itself is never sent to the client.
var ErrInternal = httperr.WithCode(
	httperr.WithStatus(errors.New("Internal server error"), http.StatusInternalServerError),
	"INTERNAL_ERROR",
)

func defaultConfig() *config {
	return &config{
		stackTrace: true,
		stackSize:  4 << 10, // 4KB
		logger:     slog.Default(),
		formatter:  httperr.NewSimple(),
	}
}

func (cfg *config) respond(w http.ResponseWriter, r *http.Request, err any) {
	if cfg.handler != nil {
		cfg.handler(w, r, err)
		return
	}
	if writeErr := httperr.Write(w, r, cfg.formatter, ErrInternal); writeErr != nil && cfg.logger != nil {
		cfg.logger.ErrorContext(r.Context(), "failed to write recovery response", semconv.Error, writeErr)
	}
}

// New returns a middleware that recovers from panics in next.
//
// When the response has already been started, only logging and span
// marking happen; no response is written.
func New(opts ...Option) middleware.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := middleware.WrapResponseWriter(w)

			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if e, ok := err.(error); ok && errors.Is(e, http.ErrAbortHandler) {
					panic(err)
				}

				var stack []byte
				if cfg.stackTrace {
					stack = debug.Stack()
					if cfg.stackSize > 0 && len(stack) > cfg.stackSize {
						stack = stack[:cfg.stackSize]
					}
				}

				markSpan(trace.SpanFromContext(r.Context()), err, stack)

				if cfg.logger != nil {
					attrs := []any{
						semconv.Error, fmt.Sprint(err),
						semconv.HTTPMethod, r.Method,
						semconv.HTTPPath, r.URL.Path,
					}
					if len(stack) > 0 {
						attrs = append(attrs, semconv.Stack, string(stack))
					}
					cfg.logger.ErrorContext(r.Context(), "Panic recovered", attrs...)
				}

				if !rw.Written() {
					cfg.respond(rw, r, err)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

// markSpan records the panic on span as an escaped exception.
func markSpan(span trace.Span, err any, stack []byte) {
	if !span.IsRecording() {
		return
	}

	span.SetStatus(codes.Error, "panic recovered")
	attrs := []attribute.KeyValue{
		attribute.Bool("exception.escaped", true),
		attribute.String(semconv.ExceptionType, fmt.Sprintf("%T", err)),
		attribute.String(semconv.ExceptionMessage, fmt.Sprint(err)),
	}
	if len(stack) > 0 {
		attrs = append(attrs, attribute.String(semconv.ExceptionStacktrace, string(stack)))
	}
	span.SetAttributes(attrs...)

	if actualErr, ok := err.(error); ok {
		span.RecordError(actualErr)
	}
}
