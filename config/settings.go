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

package config

import (
	"log/slog"
	"time"

	"github.com/rivaas-dev/backend-service/logging"
)

// Default values applied before the env file and the environment.
const (
	DefaultAppName           = "backend-service"
	DefaultEnvironment       = "dev"
	DefaultLogLevel          = "INFO"
	DefaultLogFormat         = "json"
	DefaultOTLPGRPCEndpoint  = "http://localhost:4317"
	DefaultTelemetryExporter = "otlp"
	DefaultHTTPAddr          = ":8000"
	DefaultShutdownTimeout   = 10 * time.Second
)

// Settings is the fully resolved service configuration.
//
// A Settings value is created once by [Load] and never mutated afterwards;
// share the pointer, do not copy-and-modify it at runtime.
type Settings struct {
	// AppName identifies the service in logs and telemetry (service.name).
	AppName string `mapstructure:"app_name" validate:"required"`

	// Environment is the deployment environment name (dev, staging, prod, ...).
	Environment string `mapstructure:"environment" validate:"required"`

	// LogLevel is the minimum severity, normalized to DEBUG, INFO, WARN or ERROR.
	LogLevel string `mapstructure:"log_level" validate:"oneof=DEBUG INFO WARN ERROR"`

	// LogFormat selects the log sink encoding.
	LogFormat string `mapstructure:"log_format" validate:"oneof=json text console"`

	// OTLPGRPCEndpoint is the collector endpoint for traces and metrics.
	OTLPGRPCEndpoint string `mapstructure:"otlp_grpc_endpoint" validate:"required,uri"`

	// EnableTelemetry turns the trace and metric pipelines on.
	EnableTelemetry bool `mapstructure:"enable_telemetry"`

	// TelemetryExporter picks where enabled pipelines export to.
	TelemetryExporter string `mapstructure:"telemetry_exporter" validate:"oneof=otlp stdout"`

	// HTTPAddr is the listen address of the HTTP server.
	HTTPAddr string `mapstructure:"http_addr" validate:"required,hostname_port"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`

	// AccessLog enables one log line per request.
	AccessLog bool `mapstructure:"access_log"`
}

// Default returns the settings used when neither the env file nor the
// environment provides a value.
func Default() *Settings {
	return &Settings{
		AppName:           DefaultAppName,
		Environment:       DefaultEnvironment,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		OTLPGRPCEndpoint:  DefaultOTLPGRPCEndpoint,
		EnableTelemetry:   false,
		TelemetryExporter: DefaultTelemetryExporter,
		HTTPAddr:          DefaultHTTPAddr,
		ShutdownTimeout:   DefaultShutdownTimeout,
		AccessLog:         false,
	}
}

// Level returns LogLevel as a [slog.Level].
// Unknown values map to [slog.LevelInfo]; [Load] never produces them.
func (s *Settings) Level() slog.Level {
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}

	return level
}
