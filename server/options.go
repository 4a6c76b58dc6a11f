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
	"fmt"
	"log/slog"
	"time"

	"github.com/rivaas-dev/backend-service/telemetry"
)

// Default server settings.
const (
	DefaultAddr              = ":8000"
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultReadinessTimeout  = time.Second
	DefaultReadTimeout       = 10 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultMaxHeaderBytes    = 1 << 20 // 1MB
)

// Option configures a [Server].
type Option func(*config)

type config struct {
	addr             string
	shutdownTimeout  time.Duration
	readinessTimeout time.Duration
	readiness        map[string]CheckFunc
	logger           *slog.Logger
	telemetry        *telemetry.Providers
	accessLog        bool
}

func defaultConfig() *config {
	return &config{
		addr:             DefaultAddr,
		shutdownTimeout:  DefaultShutdownTimeout,
		readinessTimeout: DefaultReadinessTimeout,
		readiness:        make(map[string]CheckFunc),
	}
}

func (c *config) validate() error {
	if c.addr == "" {
		return ErrEmptyAddr
	}
	if c.shutdownTimeout <= 0 {
		return fmt.Errorf("shutdown %w: %s", ErrInvalidTimeout, c.shutdownTimeout)
	}
	if c.readinessTimeout <= 0 {
		return fmt.Errorf("readiness %w: %s", ErrInvalidTimeout, c.readinessTimeout)
	}
	for name, check := range c.readiness {
		if check == nil {
			return fmt.Errorf("%w: %q", ErrNilCheck, name)
		}
	}

	return nil
}

// WithLogger sets the logger. Handlers log under the name "server",
// middleware under "accesslog" and "recovery". Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTelemetry instruments the server with the given providers.
// Disabled providers, or none, leave the pipeline uninstrumented.
func WithTelemetry(p *telemetry.Providers) Option {
	return func(c *config) {
		c.telemetry = p
	}
}

// WithAddr sets the listen address. Default: [DefaultAddr].
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithShutdownTimeout bounds graceful shutdown. Default: [DefaultShutdownTimeout].
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		c.shutdownTimeout = d
	}
}

// WithReadinessCheck adds a named dependency check to GET /health/ready.
// Registering the same name twice keeps the last check.
//
// Example:
//
//	server.WithReadinessCheck("database", func(ctx context.Context) error {
//	    return db.PingContext(ctx)
//	})
func WithReadinessCheck(name string, check CheckFunc) Option {
	return func(c *config) {
		c.readiness[name] = check
	}
}

// WithReadinessTimeout bounds each readiness check. Default: [DefaultReadinessTimeout].
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *config) {
		c.readinessTimeout = d
	}
}

// WithAccessLog enables one log record per request.
// The health check endpoints are excluded.
func WithAccessLog(enabled bool) Option {
	return func(c *config) {
		c.accessLog = enabled
	}
}
