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
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[97m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// consoleHandler writes human-readable colored lines for local development:
//
//	15:04:05.000 INFO  [server] Root endpoint called request_id=... trace_id=...
//
// Safe for concurrent use.
type consoleHandler struct {
	opts   *slog.HandlerOptions
	color  bool
	mu     *sync.Mutex
	output io.Writer
	attrs  []slog.Attr
	groups []string
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions, color bool) *consoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &consoleHandler{
		opts:   opts,
		color:  color,
		mu:     &sync.Mutex{},
		output: w,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

// Handle formats and writes a log record.
func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(h.paint(colorDim))
	b.WriteString(r.Time.Format("15:04:05.000"))
	b.WriteString(h.paint(colorReset))
	b.WriteString(" ")

	b.WriteString(h.paint(h.levelColor(r.Level)))
	b.WriteString(h.paint(colorBold))
	fmt.Fprintf(&b, "%-5s", strings.ToUpper(r.Level.String()))
	b.WriteString(h.paint(colorReset))
	b.WriteString(" ")

	var rest []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == FieldName && len(h.groups) == 0 {
			b.WriteString(h.paint(colorCyan))
			b.WriteString("[" + a.Value.String() + "] ")
			b.WriteString(h.paint(colorReset))
			return true
		}
		rest = append(rest, a)
		return true
	})

	b.WriteString(h.paint(colorWhite))
	b.WriteString(r.Message)
	b.WriteString(h.paint(colorReset))

	for _, a := range h.attrs {
		h.appendAttr(&b, h.groups, a)
	}
	for _, a := range rest {
		h.appendAttr(&b, h.groups, a)
	}

	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.output, b.String())

	return err
}

// WithAttrs implements [slog.Handler].
func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	newAttrs = append(newAttrs, attrs...)

	clone := *h
	clone.attrs = newAttrs

	return &clone
}

// WithGroup implements [slog.Handler].
func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroups := make([]string, 0, len(h.groups)+1)
	newGroups = append(newGroups, h.groups...)
	newGroups = append(newGroups, name)

	clone := *h
	clone.groups = newGroups

	return &clone
}

// paint returns code, or "" when colors are off.
func (h *consoleHandler) paint(code string) string {
	if !h.color {
		return ""
	}

	return code
}

func (h *consoleHandler) levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

// appendAttr writes " key=value", qualifying the key with groups.
// Group values are expanded into one pair per member.
func (h *consoleHandler) appendAttr(b *strings.Builder, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		if len(members) == 0 {
			return
		}
		if a.Key != "" {
			groups = append(slices.Clip(groups), a.Key)
		}
		for _, m := range members {
			h.appendAttr(b, groups, m)
		}
		return
	}
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(groups, a)
	}
	if a.Equal(slog.Attr{}) {
		return
	}

	b.WriteString(" ")
	for _, g := range groups {
		b.WriteString(g)
		b.WriteString(".")
	}
	b.WriteString(a.Key)
	b.WriteString("=")

	switch v := a.Value.Resolve().Any().(type) {
	case string:
		b.WriteString(v)
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'f', 2, 64))
	case time.Duration:
		b.WriteString(v.String())
	case time.Time:
		b.WriteString(v.Format(time.RFC3339))
	case error:
		b.WriteString(v.Error())
	default:
		b.WriteString(fmt.Sprint(v))
	}
}
