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

package accesslog

import (
	"log/slog"
	"time"
)

// Option defines functional options for accesslog middleware configuration.
type Option func(*config)

type config struct {
	logger *slog.Logger

	// excludePaths are exact paths that are never logged
	excludePaths map[string]bool

	// excludePrefixes are path prefixes that are never logged
	excludePrefixes []string

	// sampleRate is the fraction of successful requests logged (0.0 to 1.0)
	sampleRate float64

	logErrorsOnly bool

	// slowThreshold marks requests at or above it as slow (0 = disabled)
	slowThreshold time.Duration
}

func defaultConfig() *config {
	return &config{
		excludePaths: make(map[string]bool),
		sampleRate:   1.0,
	}
}

// WithLogger sets the logger for access records.
// Pass a named logger to tag them, e.g. logger.Named("accesslog").
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithExcludePaths skips logging for the given exact paths,
// e.g. WithExcludePaths("/health/live", "/health/ready").
func WithExcludePaths(paths ...string) Option {
	return func(c *config) {
		for _, path := range paths {
			c.excludePaths[path] = true
		}
	}
}

// WithExcludePrefixes skips logging for paths starting with any prefix.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(c *config) {
		c.excludePrefixes = append(c.excludePrefixes, prefixes...)
	}
}

// WithSampleRate logs only a fraction of successful requests.
// Errors and slow requests are always logged. The rate is clamped to [0, 1].
func WithSampleRate(rate float64) Option {
	return func(c *config) {
		c.sampleRate = max(0.0, min(rate, 1.0))
	}
}

// WithErrorsOnly logs only 4xx/5xx and slow requests.
func WithErrorsOnly() Option {
	return func(c *config) {
		c.logErrorsOnly = true
	}
}

// WithSlowThreshold marks requests taking at least threshold as slow.
func WithSlowThreshold(threshold time.Duration) Option {
	return func(c *config) {
		c.slowThreshold = threshold
	}
}
