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
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// environ returns a fixed environment for WithEnviron.
func environ(kv ...string) func() []string {
	return func() []string { return kv }
}

// writeEnvFile writes content to a temporary env file and returns its path.
func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	s, err := Load(WithEnvFile(""), WithEnviron(environ()))
	require.NoError(t, err)

	assert.Equal(t, Default(), s)
	assert.Equal(t, "backend-service", s.AppName)
	assert.Equal(t, "dev", s.Environment)
	assert.Equal(t, "INFO", s.LogLevel)
	assert.Equal(t, "http://localhost:4317", s.OTLPGRPCEndpoint)
	assert.False(t, s.EnableTelemetry)
	assert.Equal(t, slog.LevelInfo, s.Level())
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	envFile := writeEnvFile(t, "APP_NAME=from-file\nENVIRONMENT=staging\nLOG_LEVEL=debug\n")

	tests := []struct {
		name        string
		env         []string
		wantAppName string
		wantEnv     string
		wantLevel   string
	}{
		{
			name:        "env file overrides defaults",
			wantAppName: "from-file",
			wantEnv:     "staging",
			wantLevel:   "DEBUG",
		},
		{
			name:        "environment overrides env file",
			env:         []string{"APP_NAME=from-env"},
			wantAppName: "from-env",
			wantEnv:     "staging",
			wantLevel:   "DEBUG",
		},
		{
			name:        "lower-case keys are accepted",
			env:         []string{"app_name=lower", "log_level=error"},
			wantAppName: "lower",
			wantEnv:     "staging",
			wantLevel:   "ERROR",
		},
		{
			name:        "surrounding whitespace is trimmed",
			env:         []string{"APP_NAME=  spaced  "},
			wantAppName: "spaced",
			wantEnv:     "staging",
			wantLevel:   "DEBUG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := Load(WithEnvFile(envFile), WithEnviron(environ(tt.env...)))
			require.NoError(t, err)

			assert.Equal(t, tt.wantAppName, s.AppName)
			assert.Equal(t, tt.wantEnv, s.Environment)
			assert.Equal(t, tt.wantLevel, s.LogLevel)
		})
	}
}

func TestLoad_EnvFileIsNotExported(t *testing.T) {
	envFile := writeEnvFile(t, "APP_NAME=file-only\n")
	t.Setenv("APP_NAME", "")
	require.NoError(t, os.Unsetenv("APP_NAME"))

	s, err := Load(WithEnvFile(envFile))
	require.NoError(t, err)

	assert.Equal(t, "file-only", s.AppName)
	assert.Empty(t, os.Getenv("APP_NAME"))
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Parallel()

	s, err := Load(
		WithEnvFile(filepath.Join(t.TempDir(), "does-not-exist.env")),
		WithEnviron(environ()),
	)
	require.NoError(t, err)
	assert.Equal(t, DefaultAppName, s.AppName)
}

func TestLoad_TypedValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		env   []string
		check func(t *testing.T, s *Settings)
	}{
		{
			name: "telemetry flag true",
			env:  []string{"ENABLE_TELEMETRY=true"},
			check: func(t *testing.T, s *Settings) {
				assert.True(t, s.EnableTelemetry)
			},
		},
		{
			name: "telemetry flag numeric",
			env:  []string{"ENABLE_TELEMETRY=1"},
			check: func(t *testing.T, s *Settings) {
				assert.True(t, s.EnableTelemetry)
			},
		},
		{
			name: "telemetry flag yes",
			env:  []string{"ENABLE_TELEMETRY=yes"},
			check: func(t *testing.T, s *Settings) {
				assert.True(t, s.EnableTelemetry)
			},
		},
		{
			name: "access log off",
			env:  []string{"ACCESS_LOG=off"},
			check: func(t *testing.T, s *Settings) {
				assert.False(t, s.AccessLog)
			},
		},
		{
			name: "shutdown timeout duration",
			env:  []string{"SHUTDOWN_TIMEOUT=3s"},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, 3*time.Second, s.ShutdownTimeout)
			},
		},
		{
			name: "warning level is normalized",
			env:  []string{"LOG_LEVEL=warning"},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "WARN", s.LogLevel)
				assert.Equal(t, slog.LevelWarn, s.Level())
			},
		},
		{
			name: "enums are case-insensitive",
			env:  []string{"LOG_FORMAT=Console", "TELEMETRY_EXPORTER=STDOUT"},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "console", s.LogFormat)
				assert.Equal(t, "stdout", s.TelemetryExporter)
			},
		},
		{
			name: "endpoint and address",
			env:  []string{"OTLP_GRPC_ENDPOINT=http://collector:4317", "HTTP_ADDR=127.0.0.1:9000"},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "http://collector:4317", s.OTLPGRPCEndpoint)
				assert.Equal(t, "127.0.0.1:9000", s.HTTPAddr)
			},
		},
		{
			name: "unrelated variables are ignored",
			env:  []string{"PATH=/usr/bin", "HOME=/root"},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, Default(), s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := Load(WithEnvFile(""), WithEnviron(environ(tt.env...)))
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestLoad_FailsFast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		env        []string
		wantFields []string
	}{
		{
			name:       "non-boolean telemetry flag",
			env:        []string{"ENABLE_TELEMETRY=maybe"},
			wantFields: []string{"enable_telemetry"},
		},
		{
			name:       "bad duration",
			env:        []string{"SHUTDOWN_TIMEOUT=soon"},
			wantFields: []string{"shutdown_timeout"},
		},
		{
			name:       "unknown log level",
			env:        []string{"LOG_LEVEL=VERBOSE"},
			wantFields: []string{"log_level"},
		},
		{
			name:       "unknown exporter",
			env:        []string{"TELEMETRY_EXPORTER=zipkin"},
			wantFields: []string{"telemetry_exporter"},
		},
		{
			name:       "bad listen address",
			env:        []string{"HTTP_ADDR=not-an-address"},
			wantFields: []string{"http_addr"},
		},
		{
			name:       "empty telemetry flag",
			env:        []string{"ENABLE_TELEMETRY="},
			wantFields: []string{"enable_telemetry"},
		},
		{
			name:       "blank access log flag",
			env:        []string{"access_log=  "},
			wantFields: []string{"access_log"},
		},
		{
			name:       "empty duration",
			env:        []string{"SHUTDOWN_TIMEOUT="},
			wantFields: []string{"shutdown_timeout"},
		},
		{
			name:       "empty strings do not fall back to defaults",
			env:        []string{"ENVIRONMENT=", "APP_NAME=", "LOG_LEVEL="},
			wantFields: []string{"environment", "app_name", "log_level"},
		},
		{
			name:       "errors are collected",
			env:        []string{"ENABLE_TELEMETRY=maybe", "LOG_FORMAT=xml"},
			wantFields: []string{"enable_telemetry", "log_format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := Load(WithEnvFile(""), WithEnviron(environ(tt.env...)))
			require.Error(t, err)
			assert.Nil(t, s)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Errors, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.True(t, verr.Has(field), "expected error for %s, got %v", field, err)
			}
		})
	}
}

func TestLoad_EmptyValueOverridesEnvFile(t *testing.T) {
	t.Parallel()

	envFile := writeEnvFile(t, "ENVIRONMENT=staging\nENABLE_TELEMETRY=true\n")

	_, err := Load(WithEnvFile(envFile), WithEnviron(environ("environment=", "ENABLE_TELEMETRY=")))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("environment"))
	assert.True(t, verr.Has("enable_telemetry"))
}

func TestLoad_DecodeErrorUnwraps(t *testing.T) {
	t.Parallel()

	_, err := Load(WithEnvFile(""), WithEnviron(environ("ENABLE_TELEMETRY=maybe")))
	require.Error(t, err)

	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "enable_telemetry", cerr.Field)
	assert.Equal(t, "maybe", cerr.Value)
	assert.Error(t, errors.Unwrap(cerr))
	assert.Contains(t, err.Error(), "enable_telemetry")
}

func TestLoad_MalformedEnvFile(t *testing.T) {
	t.Parallel()

	envFile := writeEnvFile(t, "APP_NAME='unterminated\n")

	_, err := Load(WithEnvFile(envFile), WithEnviron(environ()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), envFile)
}

func TestMustLoad_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustLoad(WithEnvFile(""), WithEnviron(environ("LOG_LEVEL=loud")))
	})
	assert.NotPanics(t, func() {
		MustLoad(WithEnvFile(""), WithEnviron(environ()))
	})
}

func TestSettings_Level(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()
			s := &Settings{LogLevel: tt.level}
			assert.Equal(t, tt.want, s.Level())
		})
	}
}

func TestValidationError_Format(t *testing.T) {
	t.Parallel()

	single := &ValidationError{Errors: []*ConfigError{
		{Field: "log_level", Value: "LOUD", Message: "invalid value", Constraint: "oneof=DEBUG INFO WARN ERROR"},
	}}
	assert.Equal(t,
		"configuration error in log_level: invalid value (constraint: oneof=DEBUG INFO WARN ERROR, value: LOUD)",
		single.Error())

	multi := &ValidationError{Errors: []*ConfigError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}}
	assert.Contains(t, multi.Error(), "2 configuration errors")
	assert.Contains(t, multi.Error(), "configuration error in a: bad")
	assert.Contains(t, multi.Error(), "configuration error in b: worse")

	assert.Equal(t, "validation errors: (no errors)", (&ValidationError{}).Error())
}
