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
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	otelsemconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/rivaas-dev/backend-service/telemetry/semconv"
)

// InstrumentationName is the tracer and meter name used by this service.
const InstrumentationName = "github.com/rivaas-dev/backend-service"

// Providers holds the tracer and meter providers for one process.
//
// When telemetry is disabled both providers are no-ops and nothing is
// exported. Providers are passed explicitly to the components that need
// them; see [WithGlobalRegistration] for code that only reads the globals.
type Providers struct {
	enabled     bool
	serviceName string
	exporter    Exporter
	endpoint    string

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	propagator     propagation.TextMapPropagator

	sdkTracer *sdktrace.TracerProvider
	sdkMeter  *sdkmetric.MeterProvider

	shutdownOnce sync.Once
	shutdownErr  error
}

// Setup builds the trace and metric pipelines for serviceName.
//
// Disabled (the default) returns no-op providers without creating any
// exporter or opening any connection. Enabled builds:
//
//   - a resource with service.name and environment
//   - a tracer provider with a batching span processor
//   - a meter provider with a periodic reader
//
// both exporting over insecure OTLP/gRPC to the configured endpoint, or to
// stdout with [StdoutExporter]. Export happens in the background; Setup
// never waits for the collector.
func Setup(ctx context.Context, serviceName string, opts ...Option) (*Providers, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.validate(serviceName); err != nil {
		return nil, fmt.Errorf("invalid telemetry configuration: %w", err)
	}

	p := &Providers{
		enabled:     cfg.enabled,
		serviceName: serviceName,
		exporter:    cfg.exporter,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}

	if !cfg.enabled {
		p.tracerProvider = tracenoop.NewTracerProvider()
		p.meterProvider = metricnoop.NewMeterProvider()
		emitDebug(cfg.logger, "Telemetry disabled", "service", serviceName)

		return p, nil
	}

	if cfg.exporter == OTLPExporter {
		endpoint, err := parseEndpoint(cfg.endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid telemetry configuration: %w", err)
		}
		p.endpoint = endpoint
	}

	if cfg.logger != nil {
		logger := cfg.logger
		otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
			logger.Warn("Telemetry export error", semconv.Error, err.Error())
		}))
	}

	res := newResource(serviceName, cfg.environment)

	spanExporter, err := p.newSpanExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reader, err := p.newMetricReader(ctx, cfg)
	if err != nil {
		// Release the span exporter's connection.
		_ = spanExporter.Shutdown(ctx)
		return nil, err
	}

	p.sdkTracer = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(spanExporter),
	)
	p.sdkMeter = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	p.tracerProvider = p.sdkTracer
	p.meterProvider = p.sdkMeter

	if cfg.registerGlobal {
		otel.SetTracerProvider(p.sdkTracer)
		otel.SetMeterProvider(p.sdkMeter)
		otel.SetTextMapPropagator(p.propagator)
	}

	emitInfo(cfg.logger, "Telemetry initialized",
		"service", serviceName,
		"exporter", string(cfg.exporter),
		"endpoint", p.endpoint,
	)

	return p, nil
}

// newResource describes the service to the backend.
func newResource(serviceName, environment string) *resource.Resource {
	return resource.NewWithAttributes(
		otelsemconv.SchemaURL,
		otelsemconv.ServiceName(serviceName),
		attribute.String(semconv.Environment, environment),
	)
}

// Enabled reports whether real pipelines were built.
func (p *Providers) Enabled() bool {
	return p.enabled
}

// ServiceName returns the service.name resource value.
func (p *Providers) ServiceName() string {
	return p.serviceName
}

// Exporter returns the configured exporter kind.
func (p *Providers) Exporter() Exporter {
	return p.exporter
}

// Endpoint returns the collector host:port, or "" when not exporting over OTLP.
func (p *Providers) Endpoint() string {
	return p.endpoint
}

// TracerProvider returns the tracer provider; never nil.
func (p *Providers) TracerProvider() trace.TracerProvider {
	return p.tracerProvider
}

// MeterProvider returns the meter provider; never nil.
func (p *Providers) MeterProvider() metric.MeterProvider {
	return p.meterProvider
}

// Propagator returns the W3C trace-context and baggage propagator.
func (p *Providers) Propagator() propagation.TextMapPropagator {
	return p.propagator
}

// Tracer returns a named tracer from [Providers.TracerProvider].
func (p *Providers) Tracer(name string) trace.Tracer {
	return p.tracerProvider.Tracer(name)
}

// Meter returns a named meter from [Providers.MeterProvider].
func (p *Providers) Meter(name string) metric.Meter {
	return p.meterProvider.Meter(name)
}

// ForceFlush exports everything buffered so far.
func (p *Providers) ForceFlush(ctx context.Context) error {
	if !p.enabled {
		return nil
	}

	return errors.Join(
		p.sdkTracer.ForceFlush(ctx),
		p.sdkMeter.ForceFlush(ctx),
	)
}

// Shutdown flushes and stops both pipelines. Only the first call does any
// work; later calls return the first result.
func (p *Providers) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() {
		if !p.enabled {
			return
		}

		var errs []error
		if err := p.sdkTracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
		if err := p.sdkMeter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
		p.shutdownErr = errors.Join(errs...)
	})

	return p.shutdownErr
}

func emitDebug(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

func emitInfo(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}
