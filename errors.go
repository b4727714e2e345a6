/*
 * Copyright 2024 Hrana SDK Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package hrana

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrSessionClosed is returned when a closed Session is used.
	ErrSessionClosed = errors.New("session is closed")
	// ErrMixedArguments is returned by a strict RequestBuilder when a
	// statement binds both anonymous and named arguments.
	ErrMixedArguments = errors.New("statement mixes anonymous and named arguments")
)

// MissingPropertyError is returned by RequestBuilder.Build when a required
// property has not been set.
type MissingPropertyError struct {
	Property string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("missing required property: %s", e.Property)
}

// DecodeError is returned when a response body cannot be decoded into a
// PipelineResponse. Err holds the cause, which may be a JSON syntax error,
// a shape mismatch, an *UnknownColumnTypeError or a *MalformedCellError.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode pipeline response: %s", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UnknownColumnTypeError reports a declared column type the decoder has no
// coercion rule for.
type UnknownColumnTypeError struct {
	Column   string
	DeclType string
}

func (e *UnknownColumnTypeError) Error() string {
	return fmt.Sprintf("column %q: unknown declared type %q", e.Column, e.DeclType)
}

// MalformedCellError reports a cell whose value does not parse under its
// column's declared type.
type MalformedCellError struct {
	Column   string
	DeclType string
	Value    string
	Err      error
}

func (e *MalformedCellError) Error() string {
	return fmt.Sprintf("column %q: cannot read %q as %s: %s", e.Column, e.Value, e.DeclType, e.Err)
}

func (e *MalformedCellError) Unwrap() error {
	return e.Err
}

// StatementError is a failure the server reported for one statement of a
// pipeline.
type StatementError struct {
	// Index is the position of the failed statement in the pipeline.
	Index   int
	Message string
	Code    string
}

func (e *StatementError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("statement %d: %s", e.Index, e.Message)
	}
	return fmt.Sprintf("statement %d: %s: %s", e.Index, e.Code, e.Message)
}

// StatusError is returned by a Session when the server answers with a non-2xx
// status and a body that is not a pipeline response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Body)
}

func checkStatusCodeOK(reply *Reply) bool {
	return reply.StatusCode >= 200 && reply.StatusCode < 300
}

// sneakyBodyClose closes the body and ignores the error.
// This is useful to close the HTTP response body when we don't care about the error.
func sneakyBodyClose(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
