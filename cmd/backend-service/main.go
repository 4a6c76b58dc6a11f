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

// Command backend-service runs the HTTP backend.
//
// Settings come from the process environment and an optional .env file in
// the working directory; see package config for the keys.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rivaas-dev/backend-service/config"
	"github.com/rivaas-dev/backend-service/logging"
	"github.com/rivaas-dev/backend-service/server"
	"github.com/rivaas-dev/backend-service/telemetry"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "backend-service: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	format, err := logging.ParseFormat(settings.LogFormat)
	if err != nil {
		return err
	}

	logger, err := logging.New(
		logging.WithFormat(format),
		logging.WithLevel(settings.Level()),
		logging.WithGlobalLogger(),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	exporter, err := telemetry.ParseExporter(settings.TelemetryExporter)
	if err != nil {
		return err
	}

	providers, err := telemetry.Setup(ctx, settings.AppName,
		telemetry.WithEnabled(settings.EnableTelemetry),
		telemetry.WithEnvironment(settings.Environment),
		telemetry.WithEndpoint(settings.OTLPGRPCEndpoint),
		telemetry.WithExporter(exporter),
		telemetry.WithLogger(logger.Named("telemetry")),
		telemetry.WithGlobalRegistration(),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	app := logger.Named("main")
	defer func() {
		app.Info("Application shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settings.ShutdownTimeout)
		defer cancel()
		if shutdownErr := providers.Shutdown(shutdownCtx); shutdownErr != nil {
			app.Warn("Telemetry shutdown failed", "error", shutdownErr)
			err = errors.Join(err, shutdownErr)
		}
	}()

	srv, err := server.New(
		server.WithLogger(logger.Logger()),
		server.WithTelemetry(providers),
		server.WithAddr(settings.HTTPAddr),
		server.WithShutdownTimeout(settings.ShutdownTimeout),
		server.WithAccessLog(settings.AccessLog),
	)
	if err != nil {
		return err
	}

	app.Info("Application starting up",
		"environment", settings.Environment,
		"telemetry_enabled", providers.Enabled(),
	)

	return srv.Start(ctx)
}
