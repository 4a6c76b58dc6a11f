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
	"bytes"
	"encoding/json"
	"net/http"
)

// Formatter converts an error into an HTTP response.
type Formatter interface {
	Format(req *http.Request, err error) Response
}

// Response is a formatted error response.
type Response struct {
	Status      int
	ContentType string
	Body        any
	Headers     http.Header
}

// ErrorType is implemented by errors that know their HTTP status.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails is implemented by errors with structured details,
// e.g. per-field validation failures.
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode is implemented by errors with a machine-readable code.
type ErrorCode interface {
	error
	Code() string
}

// NewSimple returns a [Simple] formatter.
func NewSimple() *Simple {
	return &Simple{}
}

// NewRFC9457 returns an [RFC9457] formatter resolving problem types
// against baseURL.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// WithStatus attaches an HTTP status to err.
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

// WithCode attaches a machine-readable code to err.
func WithCode(err error, code string) error {
	return &codeError{err: err, code: code}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}

	return e.err.Error()
}

func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) HTTPStatus() int { return e.status }

type codeError struct {
	err  error
	code string
}

func (e *codeError) Error() string {
	if e.err == nil {
		return e.code
	}

	return e.err.Error()
}

func (e *codeError) Unwrap() error { return e.err }
func (e *codeError) Code() string  { return e.code }

// Write formats err with f and writes the response.
// The body is encoded before any header is sent.
func Write(w http.ResponseWriter, r *http.Request, f Formatter, err error) error {
	resp := f.Format(r, err)

	var buf bytes.Buffer
	if encErr := json.NewEncoder(&buf).Encode(resp.Body); encErr != nil {
		return encErr
	}

	h := w.Header()
	for k, vs := range resp.Headers {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	h.Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)
	_, writeErr := w.Write(buf.Bytes())

	return writeErr
}
