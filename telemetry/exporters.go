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
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newSpanExporter returns the injected exporter or builds one for the
// configured [Exporter].
func (p *Providers) newSpanExporter(ctx context.Context, cfg *config) (sdktrace.SpanExporter, error) {
	if cfg.spanExporter != nil {
		return cfg.spanExporter, nil
	}

	switch cfg.exporter {
	case StdoutExporter:
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(cfg.stdout),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}

		return exporter, nil
	default:
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(p.endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP gRPC trace exporter: %w", err)
		}

		return exporter, nil
	}
}

// newMetricReader returns the injected reader or a periodic reader around
// an exporter for the configured [Exporter].
func (p *Providers) newMetricReader(ctx context.Context, cfg *config) (sdkmetric.Reader, error) {
	if cfg.metricReader != nil {
		return cfg.metricReader, nil
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.exportInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.exportInterval))
	}

	switch cfg.exporter {
	case StdoutExporter:
		exporter, err := stdoutmetric.New(
			stdoutmetric.WithWriter(cfg.stdout),
			stdoutmetric.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}

		return sdkmetric.NewPeriodicReader(exporter, readerOpts...), nil
	default:
		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(p.endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP gRPC metric exporter: %w", err)
		}

		return sdkmetric.NewPeriodicReader(exporter, readerOpts...), nil
	}
}

// parseEndpoint reduces "http://host:port/path" to "host:port".
func parseEndpoint(raw string) (string, error) {
	endpoint := strings.TrimSpace(raw)

	if trimmed, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint = trimmed
	} else if trimmed, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint = trimmed
	}

	if idx := strings.Index(endpoint, "/"); idx != -1 {
		endpoint = endpoint[:idx]
	}

	if endpoint == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, raw)
	}

	return endpoint, nil
}
