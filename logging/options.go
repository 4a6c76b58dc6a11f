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
	"io"
	"log/slog"
)

// WithFormat sets the record encoding. Default: [FormatJSON].
func WithFormat(f Format) Option {
	return func(l *Logger) { l.format = f }
}

// WithJSONHandler is shorthand for WithFormat(FormatJSON).
func WithJSONHandler() Option {
	return WithFormat(FormatJSON)
}

// WithConsoleHandler is shorthand for WithFormat(FormatConsole).
func WithConsoleHandler() Option {
	return WithFormat(FormatConsole)
}

// WithColor forces ANSI colors on or off for [FormatConsole].
// By default colors are used only when the output is a terminal.
func WithColor(enabled bool) Option {
	return func(l *Logger) { l.color = &enabled }
}

// WithOutput sets the destination. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) { l.output = w }
}

// WithLevel sets the minimum level. Default: [LevelInfo].
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level.Set(level) }
}

// WithDebugLevel is shorthand for WithLevel(LevelDebug).
func WithDebugLevel() Option {
	return WithLevel(LevelDebug)
}

// WithName sets the root logger name. Default: [RootName].
func WithName(name string) Option {
	return func(l *Logger) { l.name = name }
}

// WithSource adds the caller's file and line to every record.
func WithSource(enabled bool) Option {
	return func(l *Logger) { l.addSource = enabled }
}

// WithReplaceAttr adds an attribute rewriter that runs after the
// built-in key renaming and redaction.
func WithReplaceAttr(fn func(groups []string, a slog.Attr) slog.Attr) Option {
	return func(l *Logger) { l.replaceAttr = fn }
}

// WithGlobalLogger installs the logger as [slog.Default].
func WithGlobalLogger() Option {
	return func(l *Logger) { l.registerGlobal = true }
}
