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

package recovery

import (
	"log/slog"
	"net/http"

	"github.com/rivaas-dev/backend-service/httperr"
)

// WithLogger sets the logger for recovered panics. Default: slog.Default().
// Pass a named logger to tag the records, e.g. logger.Named("recovery").
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithoutLogging disables panic logging.
func WithoutLogging() Option {
	return func(cfg *config) {
		cfg.logger = nil
	}
}

// WithFormatter sets how [ErrInternal] is rendered.
// Default: [httperr.Simple]. Ignored when [WithHandler] is set.
func WithFormatter(f httperr.Formatter) Option {
	return func(cfg *config) {
		if f != nil {
			cfg.formatter = f
		}
	}
}

// WithHandler replaces the 500 JSON response.
// The handler is only called when nothing has been written yet.
func WithHandler(handler func(w http.ResponseWriter, r *http.Request, err any)) Option {
	return func(cfg *config) {
		cfg.handler = handler
	}
}

// WithStackTrace enables or disables stack capture. Default: true.
func WithStackTrace(enabled bool) Option {
	return func(cfg *config) {
		cfg.stackTrace = enabled
	}
}

// WithStackSize caps the captured stack in bytes. Default: 4KB.
// Zero keeps the full stack.
func WithStackSize(size int) Option {
	return func(cfg *config) {
		cfg.stackSize = size
	}
}
