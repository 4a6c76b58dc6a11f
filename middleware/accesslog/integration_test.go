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

//go:build integration

package accesslog_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rivaas-dev/backend-service/logging"
	"github.com/rivaas-dev/backend-service/middleware"
	"github.com/rivaas-dev/backend-service/middleware/accesslog"
	"github.com/rivaas-dev/backend-service/middleware/recovery"
	"github.com/rivaas-dev/backend-service/middleware/requestid"
)

var _ = Describe("AccessLog Integration", Label("integration", "accesslog"), func() {
	var (
		logger *logging.Logger
		buf    *logging.SyncBuffer
		mux    *http.ServeMux
	)

	entries := func(msg string) []logging.LogEntry {
		all, err := logging.ParseJSONLogEntries(buf.Bytes())
		Expect(err).NotTo(HaveOccurred())

		var out []logging.LogEntry
		for _, e := range all {
			if e.Message == msg {
				out = append(out, e)
			}
		}

		return out
	}

	BeforeEach(func() {
		logger, buf = logging.NewTestLogger()
		mux = http.NewServeMux()
		mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		mux.HandleFunc("GET /panic", func(http.ResponseWriter, *http.Request) {
			panic("integration panic")
		})
	})

	handler := func() http.Handler {
		return middleware.Chain(
			requestid.New(),
			accesslog.New(accesslog.WithLogger(logger.Named("accesslog"))),
			recovery.New(recovery.WithLogger(logger.Named("recovery"))),
		)(mux)
	}

	Describe("with RequestID and Recovery", func() {
		It("should log requests with RequestID available", func() {
			req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
			req.Header.Set(requestid.DefaultHeader, "integration-id")
			w := httptest.NewRecorder()
			handler().ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			logs := entries(accesslog.Message)
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].RequestID).To(Equal("integration-id"))
			Expect(logs[0].Name).To(Equal("accesslog"))
			Expect(logs[0].Attrs).To(HaveKeyWithValue("route", "GET /items/{id}"))
		})

		It("should log error status when Recovery catches panic", func() {
			w := httptest.NewRecorder()
			handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Header().Get(requestid.DefaultHeader)).NotTo(BeEmpty())

			access := entries(accesslog.Message)
			Expect(access).To(HaveLen(1))
			Expect(access[0].Level).To(Equal("ERROR"))
			Expect(access[0].Attrs).To(HaveKeyWithValue("status", BeNumerically("==", 500)))

			panics := entries("Panic recovered")
			Expect(panics).To(HaveLen(1))
			Expect(panics[0].RequestID).To(Equal(access[0].RequestID))
		})
	})
})
