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

package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"regexp"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rivaas-dev/backend-service/logging"
	"github.com/rivaas-dev/backend-service/server"
)

var uuidV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

var _ = Describe("Server", Label("integration"), func() {
	var (
		th      *logging.TestHelper
		baseURL string
		cancel  context.CancelFunc
		done    chan error
	)

	get := func(path string, header map[string]string) (*http.Response, map[string]any) {
		req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
		Expect(err).NotTo(HaveOccurred())
		for k, v := range header {
			req.Header.Set(k, v)
		}

		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())

		var body map[string]any
		Expect(json.Unmarshal(raw, &body)).To(Succeed())

		return resp, body
	}

	BeforeEach(func() {
		logger, buf := logging.NewTestLogger()
		th = &logging.TestHelper{Logger: logger, Buffer: buf}
		srv := server.MustNew(
			server.WithLogger(th.Logger.Logger()),
			server.WithShutdownTimeout(2*time.Second),
		)

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		baseURL = "http://" + ln.Addr().String()

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		done = make(chan error, 1)
		go func() { done <- srv.Serve(ctx, ln) }()
	})

	AfterEach(func() {
		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))
	})

	DescribeTable("endpoints",
		func(path, key, want string) {
			resp, body := get(path, nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
			Expect(body).To(HaveKeyWithValue(key, want))
			Expect(resp.Header.Get("X-Request-ID")).To(MatchRegexp(uuidV4.String()))
		},
		Entry("liveness", "/health/live", "status", "alive"),
		Entry("readiness", "/health/ready", "status", "ready"),
		Entry("metrics", "/metrics", "status", "OTLP Export Enabled"),
		Entry("root", "/", "message", "Hello from Backend Service"),
	)

	Describe("request correlation", func() {
		It("echoes a client request ID unchanged", func() {
			resp, _ := get("/", map[string]string{"X-Request-ID": "client-abc-123"})
			Expect(resp.Header.Get("X-Request-ID")).To(Equal("client-abc-123"))
		})

		It("generates distinct IDs per request", func() {
			first, _ := get("/health/live", nil)
			second, _ := get("/health/live", nil)
			Expect(first.Header.Get("X-Request-ID")).NotTo(Equal(second.Header.Get("X-Request-ID")))
		})

		It("logs the root call once with the request ID", func() {
			get("/", map[string]string{"X-Request-ID": "root-log-id"})

			entries := th.Find("Root endpoint called")
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Level).To(Equal("INFO"))
			Expect(entries[0].Name).To(Equal("server"))
			Expect(entries[0].RequestID).To(Equal("root-log-id"))
			Expect(entries[0].Raw).To(HaveKey("@timestamp"))
		})
	})
})
