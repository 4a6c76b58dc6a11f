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

import "errors"

var (
	// ErrEmptyServiceName indicates [Setup] was called without a service name.
	ErrEmptyServiceName = errors.New("service name cannot be empty")

	// ErrInvalidExporter indicates an exporter other than otlp or stdout.
	ErrInvalidExporter = errors.New("invalid telemetry exporter")

	// ErrInvalidEndpoint indicates an endpoint without a host.
	ErrInvalidEndpoint = errors.New("invalid OTLP endpoint")

	// ErrNilWriter indicates [WithStdoutWriter] was given nil.
	ErrNilWriter = errors.New("stdout writer cannot be nil")
)
