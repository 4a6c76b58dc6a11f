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

package server

import (
	"context"
	"net/http"
	"time"
)

// CheckFunc reports whether a dependency is ready. It must honor ctx.
type CheckFunc func(ctx context.Context) error

// readinessResponse is the 503 body of GET /health/ready.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "alive"})
}

// handleReady answers ready unless a registered check fails.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	if len(s.cfg.readiness) > 0 {
		failures := runChecks(r.Context(), s.cfg.readiness, s.cfg.readinessTimeout)
		if len(failures) > 0 {
			s.logger.WarnContext(r.Context(), "Readiness check failed", "checks", failures)
			s.writeJSON(w, http.StatusServiceUnavailable, readinessResponse{
				Status: "not ready",
				Checks: failures,
			})

			return
		}
	}

	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}

// runChecks runs every check concurrently, each bounded by timeout, and
// returns the failures keyed by check name.
func runChecks(ctx context.Context, checks map[string]CheckFunc, timeout time.Duration) map[string]string {
	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(checks))

	for name, fn := range checks {
		go func() {
			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			results <- result{name, fn(checkCtx)}
		}()
	}

	failures := make(map[string]string)
	for range len(checks) {
		r := <-results
		if r.err != nil {
			failures[r.name] = r.err.Error()
		}
	}

	return failures
}
