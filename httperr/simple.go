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
	"errors"
	"net/http"
)

// Simple formats errors as {"error": message}, adding "code" and "details"
// when the error provides them.
//
// Example response:
//
//	{"error": "Internal server error", "code": "INTERNAL_ERROR"}
type Simple struct {
	// StatusResolver overrides the status. Default: [ErrorType] or 500.
	StatusResolver func(err error) int
}

// Format converts err into a [Response].
func (f *Simple) Format(_ *http.Request, err error) Response {
	body := map[string]any{
		"error": err.Error(),
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		body["details"] = detailed.Details()
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		body["code"] = coded.Code()
	}

	return Response{
		Status:      resolveStatus(f.StatusResolver, err),
		ContentType: "application/json",
		Body:        body,
	}
}

func resolveStatus(resolver func(error) int, err error) int {
	if resolver != nil {
		return resolver(err)
	}

	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}
