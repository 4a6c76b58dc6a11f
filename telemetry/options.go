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

package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporter selects where enabled pipelines send their data.
type Exporter string

const (
	// OTLPExporter pushes traces and metrics to an OTLP/gRPC collector.
	OTLPExporter Exporter = "otlp"
	// StdoutExporter writes traces and metrics as pretty-printed JSON.
	StdoutExporter Exporter = "stdout"
)

// DefaultEndpoint is the collector address used when none is configured.
const DefaultEndpoint = "localhost:4317"

// ParseExporter returns the [Exporter] named by s, ignoring case.
func ParseExporter(s string) (Exporter, error) {
	switch e := Exporter(strings.ToLower(strings.TrimSpace(s))); e {
	case OTLPExporter, StdoutExporter:
		return e, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidExporter, s)
	}
}

// Option configures [Setup].
type Option func(*config)

type config struct {
	enabled        bool
	environment    string
	endpoint       string
	exporter       Exporter
	stdout         io.Writer
	spanExporter   sdktrace.SpanExporter
	metricReader   sdkmetric.Reader
	exportInterval time.Duration
	logger         *slog.Logger
	registerGlobal bool
}

func defaultConfig() *config {
	return &config{
		enabled:  false,
		endpoint: DefaultEndpoint,
		exporter: OTLPExporter,
		stdout:   os.Stderr,
	}
}

// WithEnabled turns the trace and metric pipelines on. Default: false.
func WithEnabled(enabled bool) Option {
	return func(c *config) { c.enabled = enabled }
}

// WithEnvironment sets the "environment" resource attribute.
func WithEnvironment(env string) Option {
	return func(c *config) { c.environment = env }
}

// WithEndpoint sets the OTLP/gRPC collector endpoint.
// "http://host:port", "https://host:port" and "host:port" are accepted;
// the connection is always insecure.
func WithEndpoint(endpoint string) Option {
	return func(c *config) { c.endpoint = endpoint }
}

// WithExporter selects the exporter. Default: [OTLPExporter].
func WithExporter(e Exporter) Option {
	return func(c *config) { c.exporter = e }
}

// WithStdoutWriter sets where [StdoutExporter] writes. Default: os.Stderr.
func WithStdoutWriter(w io.Writer) Option {
	return func(c *config) { c.stdout = w }
}

// WithSpanExporter replaces the configured span exporter.
// Spans are still batched.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(c *config) { c.spanExporter = exp }
}

// WithMetricReader replaces the periodic reader built from the configured
// exporter.
func WithMetricReader(r sdkmetric.Reader) Option {
	return func(c *config) { c.metricReader = r }
}

// WithExportInterval overrides the periodic metric export interval.
// Zero keeps the SDK default.
func WithExportInterval(d time.Duration) Option {
	return func(c *config) { c.exportInterval = d }
}

// WithLogger routes OpenTelemetry errors (failed exports, dropped data)
// to logger at WARN. The OTel error handler is process-wide.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithGlobalRegistration also installs the providers and a W3C
// trace-context propagator as the OpenTelemetry globals.
func WithGlobalRegistration() Option {
	return func(c *config) { c.registerGlobal = true }
}

func (c *config) validate(serviceName string) error {
	if strings.TrimSpace(serviceName) == "" {
		return ErrEmptyServiceName
	}
	if _, err := ParseExporter(string(c.exporter)); err != nil {
		return err
	}
	if c.exporter == StdoutExporter && c.stdout == nil {
		return ErrNilWriter
	}
	if c.exportInterval < 0 {
		return fmt.Errorf("export interval must be non-negative, got %s", c.exportInterval)
	}

	return nil
}
