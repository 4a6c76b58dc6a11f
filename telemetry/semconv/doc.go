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

// Package semconv defines the field names shared by logs and telemetry.
//
// Keys that exist in the OpenTelemetry semantic conventions use the OTel
// spelling (service.name, exception.*). Log record fields use the flat
// snake_case names log pipelines index on.
//
//	logger.InfoContext(ctx, "Request completed",
//	    semconv.HTTPMethod, r.Method,
//	    semconv.HTTPStatusCode, 200,
//	)
package semconv
