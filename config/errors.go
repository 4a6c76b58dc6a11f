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
	"fmt"
	"strings"
)

// ConfigError describes one setting that could not be coerced or validated.
type ConfigError struct {
	// Field is the settings key, e.g. "enable_telemetry".
	Field string
	// Value is the raw value that was provided (nil for missing values).
	Value any
	// Message explains the failure.
	Message string
	// Constraint is the violated rule, e.g. "oneof=DEBUG INFO WARN ERROR".
	Constraint string
	// Cause is the underlying decode error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("configuration error in %s: %s (constraint: %s, value: %v)",
			e.Field, e.Message, e.Constraint, e.Value)
	}
	if e.Cause != nil {
		return fmt.Sprintf("configuration error in %s: %s (value: %v): %v",
			e.Field, e.Message, e.Value, e.Cause)
	}
	if e.Value != nil {
		return fmt.Sprintf("configuration error in %s: %s (value: %v)",
			e.Field, e.Message, e.Value)
	}

	return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Message)
}

// Unwrap returns the decode error, if any.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ValidationError collects every [ConfigError] found while loading.
type ValidationError struct {
	Errors []*ConfigError
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation errors: (no errors)"
	}
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Error()
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "%d configuration errors:", len(ve.Errors))
	for _, err := range ve.Errors {
		msg.WriteString("\n  - ")
		msg.WriteString(err.Error())
	}

	return msg.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (ve *ValidationError) Unwrap() []error {
	errs := make([]error, len(ve.Errors))
	for i, err := range ve.Errors {
		errs[i] = err
	}

	return errs
}

// Has reports whether a [ConfigError] exists for field.
func (ve *ValidationError) Has(field string) bool {
	for _, err := range ve.Errors {
		if err.Field == field {
			return true
		}
	}

	return false
}

func (ve *ValidationError) add(err *ConfigError) {
	ve.Errors = append(ve.Errors, err)
}
