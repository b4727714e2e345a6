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
	"context"
	"io"
	"net/http"
)

// Reply is what a Transport got back for a Request.
type Reply struct {
	StatusCode int
	Body       []byte
}

// Transport sends a pipeline Request and returns the raw reply.
//
// A Transport does not interpret the status code; the Session does.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Reply, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Reply, error)

func (f TransportFunc) Send(ctx context.Context, req *Request) (*Reply, error) {
	return f(ctx, req)
}

type httpTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a Transport backed by client. A nil client means
// http.DefaultClient.
func NewHTTPTransport(client *http.Client) Transport {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpTransport{client: client}
}

// Ensure httpTransport implements Transport.
var _ Transport = (*httpTransport)(nil)

func (t *httpTransport) Send(ctx context.Context, r *Request) (*Reply, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL().String(), bytes.NewReader(r.Body))
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer sneakyBodyClose(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Reply{StatusCode: resp.StatusCode, Body: data}, nil
}
