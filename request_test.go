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

package hrana_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gkampitakis/go-snaps/snaps"
	hrana "github.com/hrana-sdk/hrana-go"
	"github.com/stretchr/testify/require"
)

func TestBuildPipelineBody(t *testing.T) {
	req, err := newBuilder().
		WithStatement(hrana.NewExecute("SELECT * FROM users WHERE id = ?", hrana.Anonymous(hrana.Integer(1)))).
		WithStatement(hrana.Close{}).
		Build()
	require.NoError(t, err)

	require.Equal(t,
		`{"baton":null,"requests":[{"type":"execute","stmt":{"sql":"SELECT * FROM users WHERE id = ?","args":[{"type":"integer","value":"1"}],"named_args":[]}},{"type":"close"}]}`,
		string(req.Body))
	snaps.MatchSnapshot(t, string(req.Body))
}

func TestBuildEmptyPipeline(t *testing.T) {
	req, err := newBuilder().Build()
	require.NoError(t, err)
	require.Equal(t, `{"baton":null,"requests":[]}`, string(req.Body))
}

func TestBuildEveryValueKind(t *testing.T) {
	req, err := newBuilder().
		WithBaton("baton-1").
		WithStatement(hrana.NewExecute("INSERT INTO t VALUES (?, ?, ?, ?, ?, ?, ?)",
			hrana.Anonymous(hrana.Integer(-7)),
			hrana.Anonymous(hrana.Real(0.25)),
			hrana.Anonymous(hrana.Boolean(true)),
			hrana.Anonymous(hrana.Text("a < b & c")),
			hrana.Anonymous(hrana.Datetime("2024-01-02 03:04:05")),
			hrana.Anonymous(hrana.Blob("AQID")),
			hrana.Anonymous(hrana.Null{}),
		)).
		WithStatement(hrana.NewExecute("UPDATE t SET a = :a WHERE b = @b",
			hrana.Named(":a", hrana.Boolean(false)),
			hrana.Named("@b", hrana.Text("x")),
		)).
		Build()
	require.NoError(t, err)
	snaps.MatchSnapshot(t, string(req.Body))
}

func TestBuildRequestDescriptor(t *testing.T) {
	req, err := newBuilder().Build()
	require.NoError(t, err)

	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "https", req.Scheme)
	require.Equal(t, "database-organization.turso.io", req.Host)
	require.Equal(t, "/v2/pipeline", req.Path)
	require.Equal(t, "https://database-organization.turso.io/v2/pipeline", req.URL().String())
	require.Equal(t, "Bearer token", req.Header.Get("Authorization"))
	require.Equal(t, "application/json", req.Header.Get("Content-Type"))
	require.Equal(t, "application/json", req.Header.Get("Accept"))
	require.Equal(t, hrana.ClientVersion, req.Header.Get(hrana.ClientHeader))
}

func TestBuildHostAndPathOverrides(t *testing.T) {
	req, err := newBuilder().
		WithHost("example.com").
		WithPath("/v3/pipeline").
		WithDatabase("other").
		Build()
	require.NoError(t, err)
	require.Equal(t, "other-organization.example.com", req.Host)
	require.Equal(t, "/v3/pipeline", req.Path)
}

func TestBuildMissingProperty(t *testing.T) {
	cases := []struct {
		property string
		builder  *hrana.RequestBuilder
	}{
		{"database", hrana.NewRequestBuilder().WithOrganization("o").WithToken("t")},
		{"organization", hrana.NewRequestBuilder().WithDatabase("d").WithToken("t")},
		{"token", hrana.NewRequestBuilder().WithDatabase("d").WithOrganization("o")},
		{"database", hrana.NewRequestBuilder()},
		{"organization", hrana.NewRequestBuilder().WithDatabase("d")},
	}

	for _, c := range cases {
		t.Run(c.property, func(t *testing.T) {
			req, err := c.builder.Build()
			require.Nil(t, req)

			var missing *hrana.MissingPropertyError
			require.ErrorAs(t, err, &missing)
			require.Equal(t, c.property, missing.Property)
			require.Equal(t, "missing required property: "+c.property, err.Error())
		})
	}
}

func TestBuildPreservesInsertionOrder(t *testing.T) {
	faker := gofakeit.New(7)

	for round := 0; round < 20; round++ {
		b := newBuilder()
		var want []string
		count := faker.Number(1, 30)
		for i := 0; i < count; i++ {
			if faker.Number(0, 4) == 0 {
				b.WithStatement(hrana.Close{})
				want = append(want, "close")
				continue
			}
			sql := fmt.Sprintf("SELECT %d, '%s'", i, faker.Word())
			b.WithStatement(hrana.NewExecute(sql))
			want = append(want, sql)
		}
		require.Equal(t, count, b.Len())

		req, err := b.Build()
		require.NoError(t, err)
		var out body
		require.NoError(t, json.Unmarshal(req.Body, &out))

		got := make([]string, 0, len(out.Requests))
		for _, r := range out.Requests {
			if r.Type == "close" {
				got = append(got, "close")
				continue
			}
			got = append(got, r.Stmt.SQL)
		}
		require.Equal(t, want, got)
	}
}

func TestBuildScalarsLastCallWins(t *testing.T) {
	req, err := hrana.NewRequestBuilder().
		WithDatabase("first").
		WithDatabase("second").
		WithOrganization("org").
		WithToken("a").
		WithToken("b").
		Build()
	require.NoError(t, err)
	require.Equal(t, "second-org.turso.io", req.Host)
	require.Equal(t, "Bearer b", req.Header.Get("Authorization"))
}

func TestClearStatements(t *testing.T) {
	b := newBuilder().
		WithStatement(hrana.NewExecute("SELECT 1")).
		WithStatement(hrana.Close{})
	require.Equal(t, 2, b.Len())

	b.ClearStatements()
	require.Zero(t, b.Len())

	req, err := b.WithStatement(hrana.NewExecute("SELECT 2")).Build()
	require.NoError(t, err)
	var out body
	require.NoError(t, json.Unmarshal(req.Body, &out))
	require.Len(t, out.Requests, 1)
	require.Equal(t, "SELECT 2", out.Requests[0].Stmt.SQL)
}

func TestBuildBaton(t *testing.T) {
	b := newBuilder().WithBaton("xyz")
	req, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, `{"baton":"xyz","requests":[]}`, string(req.Body))

	req, err = b.WithoutBaton().Build()
	require.NoError(t, err)
	require.Equal(t, `{"baton":null,"requests":[]}`, string(req.Body))
}

func TestBuildMixedArguments(t *testing.T) {
	mixed := hrana.NewExecute("SELECT ?, :a",
		hrana.Anonymous(hrana.Integer(1)),
		hrana.Named(":a", hrana.Integer(2)),
	)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	req, err := newBuilder().WithLogger(logger).WithStatement(mixed).Build()
	require.NoError(t, err)
	require.NotNil(t, req)
	require.Contains(t, logs.String(), "statement mixes anonymous and named arguments")

	req, err = newBuilder().
		StrictArguments(true).
		WithStatement(hrana.NewExecute("SELECT 1")).
		WithStatement(mixed).
		Build()
	require.Nil(t, req)
	require.True(t, errors.Is(err, hrana.ErrMixedArguments))
	require.Equal(t, "statement 1: statement mixes anonymous and named arguments", err.Error())
}

func TestBuildRejectsNilStatement(t *testing.T) {
	_, err := newBuilder().WithStatement(nil).Build()
	require.Error(t, err)

	var exec *hrana.Execute
	_, err = newBuilder().WithStatement(exec).Build()
	require.Error(t, err)
}

func TestBuildRejectsValuesOutsideUnion(t *testing.T) {
	v := hrana.Integer(1)
	req, err := newBuilder().
		WithStatement(hrana.NewExecute("SELECT 1")).
		WithStatement(hrana.NewExecute("SELECT ?, :v",
			hrana.Anonymous(hrana.Integer(2)),
			hrana.Named(":v", &v))).
		Build()
	require.Nil(t, req)
	require.EqualError(t, err, "statement 1: argument 1: unsupported value: *hrana.Integer")

	req, err = newBuilder().
		WithStatement(hrana.NewExecute("SELECT ?", hrana.Anonymous(hrana.Real(math.Inf(1))))).
		Build()
	require.Nil(t, req)
	require.EqualError(t, err, "statement 0: argument 0: real value +Inf is not finite")
}
