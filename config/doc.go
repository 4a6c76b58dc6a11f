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

// Package config loads the service settings.
//
// Settings are resolved once at startup from three layers, later layers
// overriding earlier ones:
//
//  1. Hard-coded defaults (see [Default])
//  2. An optional env file (".env" unless [WithEnvFile] says otherwise)
//  3. The process environment
//
// Keys are matched case-insensitively, so APP_NAME and app_name both set
// [Settings.AppName]. The env file is parsed but never exported into the
// process environment.
//
// # Basic Usage
//
//	settings, err := config.Load()
//	if err != nil {
//	    fmt.Fprintln(os.Stderr, err)
//	    os.Exit(1)
//	}
//
// # Errors
//
// A value that cannot be coerced to its declared type, or that fails
// validation, makes [Load] return a [*ValidationError] carrying one
// [*ConfigError] per offending key. The process is expected not to start.
//
//	ENABLE_TELEMETRY=maybe
//	// configuration error in enable_telemetry: cannot parse value (value: maybe): ...
//
// # Supported keys
//
//	app_name            string    backend-service
//	environment         string    dev
//	log_level           enum      INFO  (DEBUG, INFO, WARN/WARNING, ERROR)
//	log_format          enum      json  (json, text, console)
//	otlp_grpc_endpoint  URI       http://localhost:4317
//	enable_telemetry    bool      false
//	telemetry_exporter  enum      otlp  (otlp, stdout)
//	http_addr           host:port :8000
//	shutdown_timeout    duration  10s
//	access_log          bool      false
package config
