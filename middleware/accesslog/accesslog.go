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

// Package accesslog writes one structured record per HTTP request.
//
// Records carry the message "access" and are logged with the request
// context, so a correlation-aware logger adds request_id and trace_id. The
// logger name comes from the caller; the server names it "accesslog". 5xx responses are
// logged at ERROR, 4xx and slow requests at WARN, everything else at INFO.
//
// Place the middleware inside the requestid middleware and outside the recovery
// middleware, so recovered panics are logged with their 500 status.
package accesslog

import (
	"crypto/sha256"
	"encoding/binary"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rivaas-dev/backend-service/logging"
	"github.com/rivaas-dev/backend-service/middleware"
	"github.com/rivaas-dev/backend-service/telemetry/semconv"
)

// Message is the message of every access record.
const Message = "access"

// New returns an access log middleware.
// Without [WithLogger] it passes requests through untouched.
func New(opts ...Option) middleware.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		if cfg.logger == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if cfg.excluded(path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := middleware.WrapResponseWriter(w)

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			status := rw.StatusCode()

			isError := status >= 400
			isSlow := cfg.slowThreshold > 0 && duration >= cfg.slowThreshold

			if !isError && !isSlow {
				if cfg.logErrorsOnly {
					return
				}
				if cfg.sampleRate < 1.0 {
					requestID := logging.CorrelationFromContext(r.Context()).RequestID
					if !sampleByHash(requestID, cfg.sampleRate) {
						return
					}
				}
			}

			fields := []any{
				semconv.HTTPMethod, r.Method,
				semconv.HTTPPath, path,
				semconv.HTTPStatusCode, status,
				semconv.DurationMS, duration.Milliseconds(),
				semconv.BytesSent, rw.Size(),
				semconv.UserAgent, r.UserAgent(),
				semconv.ClientIP, clientIP(r),
				"host", r.Host,
				semconv.HTTPProtocol, r.Proto,
			}
			if r.URL.RawQuery != "" {
				fields = append(fields, semconv.HTTPQuery, r.URL.RawQuery)
			}
			if r.Pattern != "" {
				fields = append(fields, "route", r.Pattern)
			}
			if isSlow {
				fields = append(fields, semconv.Slow, true)
			}

			ctx := r.Context()
			switch {
			case status >= 500:
				cfg.logger.ErrorContext(ctx, Message, fields...)
			case status >= 400, isSlow:
				cfg.logger.WarnContext(ctx, Message, fields...)
			default:
				cfg.logger.InfoContext(ctx, Message, fields...)
			}
		})
	}
}

func (cfg *config) excluded(path string) bool {
	if cfg.excludePaths[path] {
		return true
	}
	for _, prefix := range cfg.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// sampleByHash keeps a stable fraction of request IDs: the same ID always
// gets the same decision. Requests without an ID are always kept.
func sampleByHash(id string, rate float64) bool {
	if id == "" {
		return true
	}

	h := sha256.Sum256([]byte(id))
	hashValue := binary.BigEndian.Uint64(h[:8])
	threshold := uint64(rate * float64(^uint64(0)))

	return hashValue <= threshold
}

// clientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
