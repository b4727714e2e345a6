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
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

const (
	// DefaultHost is the domain databases are served under when no host is set.
	DefaultHost = "turso.io"
	// DefaultPath is the pipeline endpoint path when no path is set.
	DefaultPath = "/v2/pipeline"

	// ClientHeader identifies this library to the server.
	ClientHeader = "X-Libsql-Client-Version"
	// ClientVersion is sent in ClientHeader.
	ClientVersion = "hrana-go-0.1.0"
)

// Request describes the HTTP call for one pipeline. Building it performs no
// I/O; hand it to a Transport to send it.
type Request struct {
	Method string
	Scheme string
	Host   string
	Path   string
	Header http.Header
	Body   []byte
}

// URL returns the absolute URL of the request.
func (r *Request) URL() *url.URL {
	return &url.URL{
		Scheme: r.Scheme,
		Host:   r.Host,
		Path:   r.Path,
	}
}

// RequestBuilder accumulates the target coordinates, statements and baton of
// a pipeline request.
//
// A RequestBuilder is owned by a single caller and is not safe for concurrent
// use.
type RequestBuilder struct {
	database     *string
	organization *string
	host         *string
	path         *string
	token        *string
	baton        *string
	statements   []Statement

	strict bool
	logger *slog.Logger
}

// NewRequestBuilder creates an empty RequestBuilder.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

func (b *RequestBuilder) WithDatabase(database string) *RequestBuilder {
	b.database = &database
	return b
}

func (b *RequestBuilder) WithOrganization(organization string) *RequestBuilder {
	b.organization = &organization
	return b
}

// WithHost overrides DefaultHost.
func (b *RequestBuilder) WithHost(host string) *RequestBuilder {
	b.host = &host
	return b
}

// WithPath overrides DefaultPath.
func (b *RequestBuilder) WithPath(path string) *RequestBuilder {
	b.path = &path
	return b
}

func (b *RequestBuilder) WithToken(token string) *RequestBuilder {
	b.token = &token
	return b
}

// WithStatement appends s to the pipeline.
func (b *RequestBuilder) WithStatement(s Statement) *RequestBuilder {
	b.statements = append(b.statements, s)
	return b
}

// ClearStatements drops every statement appended so far.
func (b *RequestBuilder) ClearStatements() *RequestBuilder {
	b.statements = nil
	return b
}

// WithBaton sets the baton returned by the previous pipeline of the same
// stream.
func (b *RequestBuilder) WithBaton(baton string) *RequestBuilder {
	b.baton = &baton
	return b
}

// WithoutBaton clears the baton so the request opens a new stream.
func (b *RequestBuilder) WithoutBaton() *RequestBuilder {
	b.baton = nil
	return b
}

// StrictArguments makes Build fail with ErrMixedArguments when a statement
// mixes anonymous and named arguments. Otherwise such statements are only
// logged.
func (b *RequestBuilder) StrictArguments(strict bool) *RequestBuilder {
	b.strict = strict
	return b
}

// WithLogger sets the logger used for build warnings.
func (b *RequestBuilder) WithLogger(logger *slog.Logger) *RequestBuilder {
	b.logger = logger
	return b
}

// Len returns the number of statements appended so far.
func (b *RequestBuilder) Len() int {
	return len(b.statements)
}

type pipelineRequest struct {
	Baton    *string       `json:"baton"`
	Requests []wireRequest `json:"requests"`
}

// Build validates the builder and produces the HTTP request.
//
// Database, organization and token are required; a *MissingPropertyError
// names the first one missing.
func (b *RequestBuilder) Build() (*Request, error) {
	if b.database == nil {
		return nil, &MissingPropertyError{Property: "database"}
	}
	if b.organization == nil {
		return nil, &MissingPropertyError{Property: "organization"}
	}
	if b.token == nil {
		return nil, &MissingPropertyError{Property: "token"}
	}

	host := DefaultHost
	if b.host != nil {
		host = *b.host
	}
	path := DefaultPath
	if b.path != nil {
		path = *b.path
	}

	body, err := b.encodeBody()
	if err != nil {
		return nil, err
	}

	header := make(http.Header)
	header.Set("Authorization", "Bearer "+*b.token)
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json")
	header.Set(ClientHeader, ClientVersion)

	return &Request{
		Method: http.MethodPost,
		Scheme: "https",
		Host:   fmt.Sprintf("%s-%s.%s", *b.database, *b.organization, host),
		Path:   path,
		Header: header,
		Body:   body,
	}, nil
}

func (b *RequestBuilder) encodeBody() ([]byte, error) {
	requests := make([]wireRequest, 0, len(b.statements))
	for i, s := range b.statements {
		if exec, ok := s.(Execute); ok && exec.HasMixedArguments() {
			if b.strict {
				return nil, fmt.Errorf("statement %d: %w", i, ErrMixedArguments)
			}
			if b.logger != nil {
				b.logger.Warn("statement mixes anonymous and named arguments", slog.Int("index", i))
			}
		}

		req, err := encodeStatement(s)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		requests = append(requests, req)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&pipelineRequest{Baton: b.baton, Requests: requests}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
