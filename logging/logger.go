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

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format selects the record encoding.
type Format string

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
	// FormatText writes key=value lines.
	FormatText Format = "text"
	// FormatConsole writes human-readable colored lines.
	FormatConsole Format = "console"
)

// ParseFormat returns the [Format] named by s, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText, FormatConsole:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

// Level represents log level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// ParseLevel returns the [Level] named by s, ignoring case.
// "WARNING" is accepted as [LevelWarn].
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// Logger owns the process log sink.
//
// Every [slog.Logger] it hands out shares one encoder and one level, so
// changing the level with [Logger.SetLevel] affects all named loggers.
// All methods are safe for concurrent use.
type Logger struct {
	format      Format
	output      io.Writer
	level       *slog.LevelVar
	name        string
	addSource   bool
	color       *bool
	replaceAttr func(groups []string, a slog.Attr) slog.Attr

	registerGlobal bool

	handler *Handler
	slogger *slog.Logger
}

// Option is a functional option for configuring the logger.
type Option func(*Logger)

func defaultLogger() *Logger {
	level := new(slog.LevelVar)
	level.Set(LevelInfo)

	return &Logger{
		format: FormatJSON,
		output: os.Stdout,
		level:  level,
		name:   RootName,
	}
}

// New creates a Logger.
//
// By default the logger is NOT installed as the slog default; pass
// [WithGlobalLogger] for that. Calling New with [WithGlobalLogger] again
// replaces the previous default rather than adding a second sink.
func New(opts ...Option) (*Logger, error) {
	l := defaultLogger()

	for _, opt := range opts {
		opt(l)
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l.initialize()

	return l, nil
}

// MustNew creates a new Logger or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}

	return l
}

// Validate checks if the configuration is valid.
func (l *Logger) Validate() error {
	if l.output == nil {
		return ErrNilOutput
	}
	if l.name == "" {
		return ErrEmptyName
	}
	if _, err := ParseFormat(string(l.format)); err != nil {
		return err
	}

	return nil
}

func (l *Logger) initialize() {
	opts := &slog.HandlerOptions{
		Level:       l.level,
		AddSource:   l.addSource,
		ReplaceAttr: schemaReplaceAttr(l.replaceAttr),
	}

	var encoder slog.Handler
	switch l.format {
	case FormatText:
		encoder = slog.NewTextHandler(l.output, opts)
	case FormatConsole:
		encoder = newConsoleHandler(l.output, opts, l.useColor())
	default:
		encoder = slog.NewJSONHandler(l.output, opts)
	}

	l.handler = NewHandler(encoder, l.name)
	l.slogger = slog.New(l.handler)

	if l.registerGlobal {
		slog.SetDefault(l.slogger)
	}
}

// useColor reports whether console output should carry ANSI colors:
// the [WithColor] setting if given, otherwise whether output is a terminal.
func (l *Logger) useColor() bool {
	if l.color != nil {
		return *l.color
	}
	f, ok := l.output.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// Logger returns the root [slog.Logger].
func (l *Logger) Logger() *slog.Logger {
	return l.slogger
}

// Named returns a logger that reports name in the "name" field.
func (l *Logger) Named(name string) *slog.Logger {
	return slog.New(l.handler.WithName(name))
}

// With returns the root logger with additional attributes.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.slogger.With(args...)
}

// Handler returns the correlation-aware handler behind every logger.
func (l *Logger) Handler() *Handler {
	return l.handler
}

// Format returns the configured encoding.
func (l *Logger) Format() Format {
	return l.format
}

// Level returns the current minimum log level.
func (l *Logger) Level() Level {
	return l.level.Level()
}

// SetLevel changes the minimum log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level)
}
