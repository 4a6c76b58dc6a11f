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

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(name string, order *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*order = append(*order, name+":in")
			next.ServeHTTP(w, r)
			*order = append(*order, name+":out")
		})
	}
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	h := Chain(tag("outer", &order), nil, tag("inner", &order))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer:in", "inner:in", "handler", "inner:out", "outer:out"}, order)
}

func TestChain_Empty(t *testing.T) {
	t.Parallel()

	called := false
	h := Chain()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
}

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    func(w http.ResponseWriter)
		wantStatus int
		wantSize   int64
		wantWrote  bool
	}{
		{
			name:       "nothing written",
			handler:    func(http.ResponseWriter) {},
			wantStatus: http.StatusOK,
		},
		{
			name: "implicit 200",
			handler: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte("hello"))
			},
			wantStatus: http.StatusOK,
			wantSize:   5,
			wantWrote:  true,
		},
		{
			name: "explicit status is kept",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("{}"))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantSize:   2,
			wantWrote:  true,
		},
		{
			name: "read from",
			handler: func(w http.ResponseWriter) {
				_, _ = w.(*ResponseWriter).ReadFrom(strings.NewReader("streamed"))
			},
			wantStatus: http.StatusOK,
			wantSize:   8,
			wantWrote:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			rw := WrapResponseWriter(rec)
			tt.handler(rw)

			assert.Equal(t, tt.wantStatus, rw.StatusCode())
			assert.Equal(t, tt.wantSize, rw.Size())
			assert.Equal(t, tt.wantWrote, rw.Written())
			if tt.wantWrote {
				assert.Equal(t, tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestWrapResponseWriter_Reuses(t *testing.T) {
	t.Parallel()

	rw := WrapResponseWriter(httptest.NewRecorder())
	require.Same(t, rw, WrapResponseWriter(rw))
	assert.NotNil(t, http.NewResponseController(rw))
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, JSON(rec, http.StatusCreated, map[string]string{"status": "alive"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, ContentTypeJSON, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestJSON_EncodingError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := JSON(rec, http.StatusOK, map[string]any{"ch": make(chan int)})

	require.Error(t, err)
	assert.Empty(t, rec.Header().Get("Content-Type"))
	assert.Zero(t, rec.Body.Len())
}
