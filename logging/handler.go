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
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/rivaas-dev/backend-service/telemetry/semconv"
)

// Record field names.
const (
	FieldTimestamp = "@timestamp"
	FieldLevel     = "level"
	FieldMessage   = "message"
	FieldName      = "name"
	FieldRequestID = semconv.RequestID
	FieldTraceID   = semconv.TraceID
)

// RootName is the logger name used when no name was given.
const RootName = "root"

// TimestampFormat is ISO-8601 with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

const redacted = "***REDACTED***"

// ExtraPrefix is prepended to top-level attributes whose key collides with
// a field the handler writes itself.
const ExtraPrefix = "extra."

// reservedKeys are written by the handler or the encoder and may not be
// set by callers at the top level.
var reservedKeys = map[string]bool{
	FieldTimestamp:  true,
	FieldLevel:      true,
	FieldMessage:    true,
	FieldName:       true,
	FieldRequestID:  true,
	FieldTraceID:    true,
	slog.TimeKey:    true,
	slog.MessageKey: true,
	slog.SourceKey:  true,
}

// Handler is a [slog.Handler] that prefixes every record with the logger
// name and the request correlation found in the record's context, then
// hands it to the wrapped encoder.
//
// Attributes and groups added through WithAttrs and WithGroup are kept by
// the Handler and not passed on to the encoder, so the schema fields always
// stay at the top level of the record.
type Handler struct {
	inner slog.Handler
	name  string
	goas  []groupOrAttrs
}

// groupOrAttrs holds either a group name or a list of attributes.
type groupOrAttrs struct {
	group string
	attrs []slog.Attr
}

// NewHandler wraps inner. An empty name means [RootName].
func NewHandler(inner slog.Handler, name string) *Handler {
	if name == "" {
		name = RootName
	}

	return &Handler{inner: inner, name: name}
}

// Name returns the logger name written to every record.
func (h *Handler) Name() string {
	return h.name
}

// Enabled implements [slog.Handler].
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements [slog.Handler].
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if r.Time.IsZero() {
		r.Time = time.Now()
	}

	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	out.AddAttrs(slog.String(FieldName, h.name))

	c := CorrelationFromContext(ctx)
	if c.RequestID != "" {
		out.AddAttrs(slog.String(FieldRequestID, c.RequestID))
	}
	if c.TraceID != "" {
		out.AddAttrs(slog.String(FieldTraceID, c.TraceID))
	}

	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	out.AddAttrs(h.nest(attrs)...)

	return h.inner.Handle(ctx, out)
}

// nest places the record attributes inside the open groups and returns the
// top-level attributes of the record with reserved keys moved aside.
func (h *Handler) nest(attrs []slog.Attr) []slog.Attr {
	first := len(h.goas)
	for i, g := range h.goas {
		if g.group != "" {
			first = i
			break
		}
	}

	var top []slog.Attr
	for _, g := range h.goas[:first] {
		top = append(top, g.attrs...)
	}

	content := attrs
	for i := len(h.goas) - 1; i >= first; i-- {
		g := h.goas[i]
		if g.group == "" {
			content = append(slices.Clone(g.attrs), content...)
			continue
		}
		if len(content) == 0 {
			continue
		}
		content = []slog.Attr{{Key: g.group, Value: slog.GroupValue(content...)}}
	}

	out := make([]slog.Attr, 0, len(top)+len(content))
	for _, a := range append(top, content...) {
		out = appendGuarded(out, a)
	}

	return out
}

// appendGuarded appends a to dst, renaming it when its key is reserved.
// Inline groups are flattened first so their members are checked too.
func appendGuarded(dst []slog.Attr, a slog.Attr) []slog.Attr {
	if a.Key == "" && a.Value.Kind() == slog.KindGroup {
		for _, m := range a.Value.Group() {
			dst = appendGuarded(dst, m)
		}
		return dst
	}
	if reservedKeys[a.Key] {
		a.Key = ExtraPrefix + a.Key
	}

	return append(dst, a)
}

// WithAttrs implements [slog.Handler].
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	return h.with(groupOrAttrs{attrs: slices.Clone(attrs)})
}

// WithGroup implements [slog.Handler].
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return h.with(groupOrAttrs{group: name})
}

func (h *Handler) with(goa groupOrAttrs) *Handler {
	h2 := *h
	h2.goas = make([]groupOrAttrs, len(h.goas)+1)
	copy(h2.goas, h.goas)
	h2.goas[len(h.goas)] = goa

	return &h2
}

// WithName returns a copy of h that writes name instead. Attributes and
// groups already added are kept.
func (h *Handler) WithName(name string) *Handler {
	h2 := NewHandler(h.inner, name)
	h2.goas = h.goas

	return h2
}

// Named returns a logger that writes name in every record.
//
// Loggers built by this package keep their encoder and only swap the name;
// any other logger gets a plain "name" attribute.
func Named(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	if h, ok := l.Handler().(*Handler); ok {
		return slog.New(h.WithName(name))
	}

	return l.With(FieldName, name)
}

// schemaReplaceAttr renames the built-in keys, upper-cases the level and
// redacts sensitive values, then defers to next.
func schemaReplaceAttr(next func(groups []string, a slog.Attr) slog.Attr) func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 {
			switch a.Key {
			case slog.TimeKey:
				if a.Value.Kind() == slog.KindTime {
					return slog.String(FieldTimestamp, a.Value.Time().Format(TimestampFormat))
				}
			case slog.LevelKey:
				if level, ok := a.Value.Any().(slog.Level); ok {
					return slog.String(FieldLevel, strings.ToUpper(level.String()))
				}
			case slog.MessageKey:
				a.Key = FieldMessage
				return a
			}
		}

		switch strings.ToLower(a.Key) {
		case "password", "token", "secret", "api_key", "authorization":
			return slog.String(a.Key, redacted)
		}

		if next != nil {
			return next(groups, a)
		}

		return a
	}
}
