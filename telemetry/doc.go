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

// Package telemetry bootstraps OpenTelemetry tracing and metrics.
//
// # Basic Usage
//
//	providers, err := telemetry.Setup(ctx, settings.AppName,
//	    telemetry.WithEnabled(settings.EnableTelemetry),
//	    telemetry.WithEnvironment(settings.Environment),
//	    telemetry.WithEndpoint(settings.OTLPGRPCEndpoint),
//	    telemetry.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	defer providers.Shutdown(context.Background())
//
// # Disabled Mode
//
// With telemetry disabled, [Setup] returns no-op providers. No exporter is
// created and no connection is attempted; spans created from the no-op
// tracer carry an invalid span context, so logs omit trace_id.
//
// # Exporters
//
// [OTLPExporter] pushes to a collector over insecure gRPC. [StdoutExporter]
// pretty-prints spans and metrics, which is handy without a collector.
// Tests inject exporters with [WithSpanExporter] and [WithMetricReader].
//
// Export failures never reach request handling. They are reported through
// the OpenTelemetry error handler, which [WithLogger] routes to a logger.
package telemetry
