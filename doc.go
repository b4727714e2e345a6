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

/*
Package hrana provides a client for running SQL pipelines over the Hrana
over HTTP protocol.

# Build Requests

Use RequestBuilder to accumulate statements and produce the HTTP request of a
pipeline. No I/O happens while building:

	req, err := hrana.NewRequestBuilder().
		WithDatabase("app").
		WithOrganization("acme").
		WithToken(token).
		WithStatement(hrana.NewExecute("SELECT * FROM users WHERE id = ?",
			hrana.Anonymous(hrana.Integer(1)))).
		WithStatement(hrana.Close{}).
		Build()

The request is sent to https://app-acme.turso.io/v2/pipeline unless another
host or path is set.

# Decode Responses

Decode turns a response body into typed results. Cell values are read by the
declared type of their column:

	resp, err := hrana.Decode(body)
	if err != nil {
		return err
	}
	for _, result := range resp.Results {
		switch result := result.(type) {
		case hrana.ExecuteResponse:
			// result.Columns, result.Rows
		case hrana.CloseResponse:
		case hrana.ErrorResponse:
		}
	}

# Sessions

Session wires both halves to a Transport and carries the baton from one
pipeline to the next:

	s := hrana.NewSession(&hrana.Config{
		Database:     "app",
		Organization: "acme",
		Token:        token,
	}, nil)
	defer s.Close(ctx)

	rs, err := s.Query(ctx, "SELECT name FROM users WHERE id = :id",
		hrana.Named(":id", hrana.Integer(1)))
*/
package hrana
