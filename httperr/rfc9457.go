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

package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/rivaas-dev/backend-service/logging"
)

// RFC9457 formats errors as RFC 9457 problem details.
//
// The problem carries the request path as "instance" and the request ID as
// "request_id", so a client report can be matched to the server logs. A
// request without a correlation gets a fresh UUID.
//
// Example response:
//
//	{
//	  "type": "https://api.example.com/problems/INTERNAL_ERROR",
//	  "title": "Internal Server Error",
//	  "status": 500,
//	  "detail": "Internal server error",
//	  "instance": "/",
//	  "request_id": "5f0c...",
//	  "code": "INTERNAL_ERROR"
//	}
type RFC9457 struct {
	// BaseURL prefixes the error code to build the problem type URI.
	BaseURL string

	// TypeResolver overrides the problem type. Default: BaseURL/code, or
	// "about:blank" for errors without a code.
	TypeResolver func(err error) string

	// StatusResolver overrides the status. Default: [ErrorType] or 500.
	StatusResolver func(err error) int
}

// ProblemDetail is an RFC 9457 problem.
type ProblemDetail struct {
	Type       string
	Title      string
	Status     int
	Detail     string
	Instance   string
	Extensions map[string]any
}

// MarshalJSON inlines Extensions next to the standard members.
// Extensions cannot override a standard member.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		m[k] = v
	}

	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	delete(m, "detail")
	delete(m, "instance")
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}

	return json.Marshal(m)
}

// Format converts err into a [Response].
func (f *RFC9457) Format(req *http.Request, err error) Response {
	status := resolveStatus(f.StatusResolver, err)

	p := ProblemDetail{
		Type:       f.problemType(err),
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Instance:   req.URL.Path,
		Extensions: make(map[string]any),
	}

	requestID := logging.CorrelationFromContext(req.Context()).RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	p.Extensions["request_id"] = requestID

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		p.Extensions["errors"] = detailed.Details()
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		p.Extensions["code"] = coded.Code()
	}

	return Response{
		Status:      status,
		ContentType: "application/problem+json",
		Body:        p,
	}
}

func (f *RFC9457) problemType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		if f.BaseURL != "" {
			return f.BaseURL + "/" + coded.Code()
		}

		return coded.Code()
	}

	return "about:blank"
}
