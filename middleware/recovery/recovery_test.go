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

package recovery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/rivaas-dev/backend-service/httperr"
	"github.com/rivaas-dev/backend-service/logging"
	"github.com/rivaas-dev/backend-service/middleware"
	"github.com/rivaas-dev/backend-service/middleware/requestid"
)

func panicking(v any) http.Handler {
	return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(v)
	})
}

func TestRecovery_BasicPanic(t *testing.T) {
	t.Parallel()

	h := New(WithoutLogging())(panicking("test panic"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, middleware.ContentTypeJSON, w.Header().Get("Content-Type"))

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Internal server error", response["error"])
	assert.Equal(t, "INTERNAL_ERROR", response["code"])
}

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	h := New()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = middleware.JSON(w, http.StatusOK, map[string]string{"message": "success"})
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/safe", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"success"}`, w.Body.String())
}

func TestRecovery_CustomHandler(t *testing.T) {
	t.Parallel()

	var got any
	h := New(
		WithoutLogging(),
		WithHandler(func(w http.ResponseWriter, _ *http.Request, err any) {
			got = err
			_ = middleware.JSON(w, http.StatusServiceUnavailable, map[string]any{"custom_error": "Custom recovery"})
		}),
	)(panicking("custom panic"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, "custom panic", got)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"custom_error":"Custom recovery"}`, w.Body.String())
}

func TestRecovery_ProblemDetails(t *testing.T) {
	t.Parallel()

	h := middleware.Chain(
		requestid.New(),
		New(WithoutLogging(), WithFormatter(httperr.NewRFC9457("https://errors.example.com"))),
	)(panicking("problem panic"))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set(requestid.DefaultHeader, "problem-req")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "https://errors.example.com/INTERNAL_ERROR", problem["type"])
	assert.Equal(t, "Internal server error", problem["detail"])
	assert.Equal(t, "/orders", problem["instance"])
	assert.Equal(t, "problem-req", problem["request_id"])
	assert.NotContains(t, w.Body.String(), "problem panic", "the panic value is not exposed")
}

func TestRecovery_ResponseAlreadyStarted(t *testing.T) {
	t.Parallel()

	h := New(WithoutLogging())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late panic")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestRecovery_AbortHandlerRepanics(t *testing.T) {
	t.Parallel()

	h := New(WithoutLogging())(panicking(http.ErrAbortHandler))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRecovery_Logging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      []Option
		wantStack bool
		maxStack  int
	}{
		{name: "default stack", wantStack: true, maxStack: 4 << 10},
		{name: "small stack", opts: []Option{WithStackSize(64)}, wantStack: true, maxStack: 64},
		{name: "no stack", opts: []Option{WithStackTrace(false)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			th := logging.NewTestHelper(t)
			opts := append([]Option{WithLogger(th.Logger.Named("recovery"))}, tt.opts...)
			h := middleware.Chain(requestid.New(), New(opts...))(panicking("boom"))

			req := httptest.NewRequest(http.MethodGet, "/explode", nil)
			req.Header.Set(requestid.DefaultHeader, "req-42")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "req-42", w.Header().Get(requestid.DefaultHeader))

			th.AssertLog(t, "ERROR", "Panic recovered", map[string]any{
				"name":       "recovery",
				"error":      "boom",
				"method":     http.MethodGet,
				"path":       "/explode",
				"request_id": "req-42",
			})

			entries := th.Find("Panic recovered")
			require.Len(t, entries, 1)
			stack, ok := entries[0].Attrs["stack"].(string)
			if !tt.wantStack {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.NotEmpty(t, stack)
			assert.LessOrEqual(t, len(stack), tt.maxStack)
		})
	}
}

func TestRecovery_MarksSpan(t *testing.T) {
	t.Parallel()

	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	cause := errors.New("database gone")
	inner := New(WithoutLogging())(panicking(cause))
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tp.Tracer("test").Start(r.Context(), "request")
		defer span.End()
		inner.ServeHTTP(w, r.WithContext(ctx))
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	got := spans.GetSpans()
	require.Len(t, got, 1)
	assert.Equal(t, codes.Error, got[0].Status.Code)
	assert.Equal(t, "panic recovered", got[0].Status.Description)

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range got[0].Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.True(t, attrs["exception.escaped"].AsBool())
	assert.Equal(t, "database gone", attrs["exception.message"].AsString())
	assert.Equal(t, "*errors.errorString", attrs["exception.type"].AsString())
	assert.NotEmpty(t, attrs["exception.stacktrace"].AsString())

	require.NotEmpty(t, got[0].Events, "RecordError must add an exception event")
	assert.Equal(t, "exception", got[0].Events[0].Name)
}
