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

// Package middleware holds the net/http middleware that wraps every route.
//
// Each subpackage returns a [Middleware]; [Chain] composes them so the
// first argument is the outermost layer:
//
//	h := middleware.Chain(
//	    requestid.New(),
//	    recovery.New(recovery.WithLogger(logger)),
//	)(mux)
package middleware

import "net/http"

// Middleware wraps an [http.Handler].
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares left to right: Chain(m1, m2)(h) == m1(m2(h)).
// Nil entries are skipped.
func Chain(middlewares ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			if middlewares[i] == nil {
				continue
			}
			next = middlewares[i](next)
		}

		return next
	}
}
