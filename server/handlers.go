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
	"net/http"

	"github.com/rivaas-dev/backend-service/middleware"
)

// Route paths.
const (
	PathLive    = "/health/live"
	PathReady   = "/health/ready"
	PathMetrics = "/metrics"
	PathRoot    = "/"
)

type statusResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// routes registers every endpoint on mux.
func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET "+PathLive, s.handleLive)
	mux.HandleFunc("GET "+PathReady, s.handleReady)
	mux.HandleFunc("GET "+PathMetrics, s.handleMetrics)
	mux.HandleFunc("GET /{$}", s.handleRoot)
}

// handleMetrics is a static marker: metrics are pushed over OTLP, never scraped.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "OTLP Export Enabled"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.logger.InfoContext(r.Context(), "Root endpoint called")
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Hello from Backend Service"})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	if err := middleware.JSON(w, code, v); err != nil {
		s.logger.Error("failed to write JSON response", "error", err)
	}
}
