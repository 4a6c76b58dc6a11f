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
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// LogEntry represents a parsed JSON log record.
type LogEntry struct {
	Time      time.Time
	Level     string
	Name      string
	Message   string
	RequestID string
	TraceID   string
	// Attrs holds every other field, keyed as written.
	Attrs map[string]any
	// Raw holds the full decoded object, including the fields above.
	Raw map[string]any
}

// SyncBuffer is a [bytes.Buffer] safe for concurrent writes and reads.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

// Bytes returns a copy of the buffered data.
func (b *SyncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return bytes.Clone(b.buf.Bytes())
}

// String returns the buffered data as a string.
func (b *SyncBuffer) String() string {
	return string(b.Bytes())
}

// Reset discards the buffered data.
func (b *SyncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// NewTestLogger creates a JSON [Logger] at debug level writing to an
// in-memory buffer. Use [ParseJSONLogEntries] on buf.Bytes() to inspect it.
func NewTestLogger(opts ...Option) (*Logger, *SyncBuffer) {
	buf := &SyncBuffer{}
	base := []Option{
		WithJSONHandler(),
		WithOutput(buf),
		WithDebugLevel(),
	}

	return MustNew(append(base, opts...)...), buf
}

// ParseJSONLogEntries parses newline-delimited JSON records.
func ParseJSONLogEntries(data []byte) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var raw map[string]any
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse log line %q: %w", line, err)
		}

		le := LogEntry{Attrs: make(map[string]any), Raw: raw}
		for k, v := range raw {
			s, _ := v.(string)
			switch k {
			case FieldTimestamp:
				if ts, err := time.Parse(TimestampFormat, s); err == nil {
					le.Time = ts
				}
			case FieldLevel:
				le.Level = s
			case FieldName:
				le.Name = s
			case FieldMessage:
				le.Message = s
			case FieldRequestID:
				le.RequestID = s
			case FieldTraceID:
				le.TraceID = s
			default:
				le.Attrs[k] = v
			}
		}

		entries = append(entries, le)
	}

	return entries, scanner.Err()
}

// TestHelper provides utilities for testing with the logging package.
type TestHelper struct {
	Logger *Logger
	Buffer *SyncBuffer
}

// NewTestHelper creates a [TestHelper] with in-memory JSON logging.
// Additional [Option] values can be passed to customize the logger.
func NewTestHelper(t *testing.T, opts ...Option) *TestHelper {
	t.Helper()

	logger, buf := NewTestLogger(opts...)

	return &TestHelper{
		Logger: logger,
		Buffer: buf,
	}
}

// Logs returns all parsed log entries.
func (th *TestHelper) Logs() ([]LogEntry, error) {
	return ParseJSONLogEntries(th.Buffer.Bytes())
}

// LastLog returns the most recent log entry.
func (th *TestHelper) LastLog() (*LogEntry, error) {
	entries, err := th.Logs()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no log entries found")
	}

	return &entries[len(entries)-1], nil
}

// Find returns every entry with the given message.
func (th *TestHelper) Find(msg string) []LogEntry {
	entries, err := th.Logs()
	if err != nil {
		return nil
	}

	var found []LogEntry
	for _, entry := range entries {
		if entry.Message == msg {
			found = append(found, entry)
		}
	}

	return found
}

// ContainsLog checks if any log entry has the given message.
func (th *TestHelper) ContainsLog(msg string) bool {
	return len(th.Find(msg)) > 0
}

// CountLevel returns the number of log entries at the given level.
func (th *TestHelper) CountLevel(level string) int {
	entries, err := th.Logs()
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if entry.Level == level {
			count++
		}
	}

	return count
}

// Reset clears the buffer for fresh testing.
func (th *TestHelper) Reset() {
	th.Buffer.Reset()
}

// AssertLog checks that a log entry exists with the given level, message
// and fields. Fields are compared against the full record, so "name" and
// "request_id" may be asserted too. Numbers compare after JSON decoding.
func (th *TestHelper) AssertLog(t *testing.T, level, msg string, fields map[string]any) {
	t.Helper()

	entries, err := th.Logs()
	require.NoError(t, err, "failed to parse logs")

	for _, entry := range entries {
		if entry.Level != level || entry.Message != msg {
			continue
		}

		match := true
		for k, want := range fields {
			got, ok := entry.Raw[k]
			if !ok || !sameValue(got, want) {
				match = false
				break
			}
		}
		if match {
			return
		}
	}

	require.Fail(t, "log entry not found", "level=%s msg=%s fields=%v\nlogs:\n%s",
		level, msg, fields, th.Buffer.String())
}

// sameValue compares a decoded JSON value with an expected Go value.
func sameValue(got, want any) bool {
	if f, ok := got.(float64); ok {
		switch w := want.(type) {
		case int:
			return f == float64(w)
		case int64:
			return f == float64(w)
		case float64:
			return f == w
		}
	}

	return fmt.Sprint(got) == fmt.Sprint(want)
}
