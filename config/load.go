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
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// DefaultEnvFile is the env file consulted when [WithEnvFile] is not given.
const DefaultEnvFile = ".env"

// Option configures [Load].
type Option func(*options)

type options struct {
	envFile string
	environ func() []string
}

func defaultOptions() *options {
	return &options{
		envFile: DefaultEnvFile,
		environ: os.Environ,
	}
}

// WithEnvFile sets the env file path. An empty path disables the env file.
// A missing file is not an error; a malformed one is.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// WithEnviron replaces the process environment source, mainly for tests.
// The function must return "KEY=value" pairs like [os.Environ].
func WithEnviron(environ func() []string) Option {
	return func(o *options) { o.environ = environ }
}

// settingsValidator checks struct tags and reports fields by their
// mapstructure key.
var settingsValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})

	return v
}

// Load resolves settings from defaults, the env file and the environment.
//
// Errors:
//   - the env file exists but cannot be parsed
//   - [*ValidationError] when any value cannot be coerced or validated
func Load(opts ...Option) (*Settings, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	values, err := o.collect()
	if err != nil {
		return nil, err
	}

	s := Default()
	verr := &ValidationError{}

	for _, key := range settingKeys() {
		raw, ok := values[key]
		if !ok {
			continue
		}
		if err := decodeField(s, key, raw); err != nil {
			verr.add(&ConfigError{
				Field:   key,
				Value:   raw,
				Message: "cannot parse value",
				Cause:   err,
			})
		}
	}

	s.normalize()
	validateSettings(s, verr)

	if len(verr.Errors) > 0 {
		return nil, verr
	}

	return s, nil
}

// MustLoad is like [Load] but panics on error.
func MustLoad(opts ...Option) *Settings {
	s, err := Load(opts...)
	if err != nil {
		panic("config: " + err.Error())
	}

	return s
}

// collect merges env file values and environment values for known keys.
func (o *options) collect() (map[string]string, error) {
	known := make(map[string]bool)
	for _, key := range settingKeys() {
		known[key] = true
	}

	values := make(map[string]string)

	if o.envFile != "" {
		fileValues, err := godotenv.Read(o.envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read env file %s: %w", o.envFile, err)
		default:
			mergeKnown(values, fileValues, known)
		}
	}

	env := make(map[string]string)
	for _, kv := range o.environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	mergeKnown(values, env, known)

	return values, nil
}

// mergeKnown copies known keys from src into dst, lower-casing them.
// A key present with an empty value is kept and fails decoding or
// validation like any other bad value.
func mergeKnown(dst, src map[string]string, known map[string]bool) {
	for k, v := range src {
		key := strings.ToLower(strings.TrimSpace(k))
		if !known[key] {
			continue
		}
		dst[key] = strings.TrimSpace(v)
	}
}

// settingKeys returns the mapstructure keys of [Settings] in field order.
func settingKeys() []string {
	t := reflect.TypeFor[Settings]()
	keys := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		if key := t.Field(i).Tag.Get("mapstructure"); key != "" {
			keys = append(keys, key)
		}
	}

	return keys
}

// decodeField decodes a single raw value onto s, leaving other fields alone.
func decodeField(s *Settings, key, raw string) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           s,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToBoolHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}

	return dec.Decode(map[string]any{key: raw})
}

var errEmptyBool = errors.New("empty value is not a boolean")

// stringToBoolHookFunc accepts yes/no and on/off on top of what
// [cast.ToBoolE] understands.
func stringToBoolHookFunc() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
			return data, nil
		}

		s := strings.ToLower(strings.TrimSpace(data.(string)))
		switch s {
		case "":
			return nil, errEmptyBool
		case "yes", "y", "on":
			return true, nil
		case "no", "n", "off":
			return false, nil
		}

		return cast.ToBoolE(s)
	}
}

// normalize folds case-insensitive enums into their canonical spelling.
func (s *Settings) normalize() {
	s.LogLevel = strings.ToUpper(strings.TrimSpace(s.LogLevel))
	if s.LogLevel == "WARNING" {
		s.LogLevel = "WARN"
	}
	s.LogFormat = strings.ToLower(strings.TrimSpace(s.LogFormat))
	s.TelemetryExporter = strings.ToLower(strings.TrimSpace(s.TelemetryExporter))
}

// validateSettings appends tag violations to verr, skipping fields that
// already failed to decode.
func validateSettings(s *Settings, verr *ValidationError) {
	err := settingsValidator.Struct(s)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add(&ConfigError{Field: "settings", Message: err.Error()})
		return
	}

	for _, fe := range fieldErrs {
		if verr.Has(fe.Field()) {
			continue
		}
		constraint := fe.Tag()
		if fe.Param() != "" {
			constraint += "=" + fe.Param()
		}
		verr.add(&ConfigError{
			Field:      fe.Field(),
			Value:      fe.Value(),
			Message:    "invalid value",
			Constraint: constraint,
		})
	}
}
