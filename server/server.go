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
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rivaas-dev/backend-service/logging"
	"github.com/rivaas-dev/backend-service/middleware"
	"github.com/rivaas-dev/backend-service/middleware/accesslog"
	"github.com/rivaas-dev/backend-service/middleware/recovery"
	"github.com/rivaas-dev/backend-service/middleware/requestid"
)

// LoggerName is the logger name used by the route handlers.
const LoggerName = "server"

// Server is the HTTP surface of the service.
// A Server is immutable after [New] and safe for concurrent use.
type Server struct {
	cfg     *config
	logger  *slog.Logger
	handler http.Handler
}

// New builds a Server and composes its middleware pipeline.
func New(opts ...Option) (*Server, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	base := cfg.logger
	if base == nil {
		base = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		logger: logging.Named(base, LoggerName),
	}

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = s.compose(mux, base)

	return s, nil
}

// MustNew creates a new Server or panics on error.
func MustNew(opts ...Option) *Server {
	s, err := New(opts...)
	if err != nil {
		panic("server initialization failed: " + err.Error())
	}

	return s
}

// compose wraps routes, outermost first:
// otelhttp → requestid → accesslog → recovery → routes.
func (s *Server) compose(routes http.Handler, base *slog.Logger) http.Handler {
	var accessLog middleware.Middleware
	if s.cfg.accessLog {
		accessLog = accesslog.New(
			accesslog.WithLogger(logging.Named(base, "accesslog")),
			accesslog.WithExcludePaths(PathLive, PathReady),
		)
	}

	h := middleware.Chain(
		requestid.New(),
		accessLog,
		recovery.New(recovery.WithLogger(logging.Named(base, "recovery"))),
	)(routes)

	if p := s.cfg.telemetry; p != nil && p.Enabled() {
		h = otelhttp.NewHandler(h, "http.server",
			otelhttp.WithTracerProvider(p.TracerProvider()),
			otelhttp.WithMeterProvider(p.MeterProvider()),
			otelhttp.WithPropagators(p.Propagator()),
			otelhttp.WithSpanNameFormatter(spanName),
		)
	}

	return h
}

func spanName(_ string, r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

// Handler returns the composed pipeline.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.addr
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.cfg.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled or the server fails.
//
// On cancellation in-flight requests get the shutdown timeout to finish.
// Serve takes ownership of ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		MaxHeaderBytes:    DefaultMaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	s.logger.InfoContext(ctx, "Server starting", "address", ln.Addr().String())

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.logger.Info("Server shutting down", "reason", context.Cause(ctx).Error())
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exited")

	return nil
}
