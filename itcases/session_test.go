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

package itcases

import (
	"context"
	"fmt"
	"testing"

	hrana "github.com/hrana-sdk/hrana-go"
	"github.com/stretchr/testify/require"
)

func TestRoundTripTypedColumns(t *testing.T) {
	s := NewSession(t)
	ctx := context.Background()
	table := RandomName(t)

	_, err := s.Query(ctx, fmt.Sprintf(
		"CREATE TABLE %s (id INTEGER, score REAL, active BOOLEAN, name TEXT, at DATETIME, data BLOB)", table))
	require.NoError(t, err)
	defer func() {
		_, err := s.Query(ctx, "DROP TABLE "+table)
		require.NoError(t, err)
	}()

	inserted, err := s.Query(ctx,
		fmt.Sprintf("INSERT INTO %s VALUES (?, ?, :active, :name, ?, ?)", table),
		hrana.Anonymous(hrana.Integer(1)),
		hrana.Anonymous(hrana.Real(2.5)),
		hrana.Named(":active", hrana.Boolean(true)),
		hrana.Named(":name", hrana.Text("ada")),
		hrana.Anonymous(hrana.Datetime("2024-01-02 03:04:05")),
		hrana.Anonymous(hrana.BlobFromBytes([]byte("hrana"))),
	)
	require.NoError(t, err)
	require.EqualValues(t, 1, inserted.AffectedRowCount)

	rs, err := s.Query(ctx, fmt.Sprintf("SELECT id, score, active, name, at, data FROM %s", table))
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	require.Equal(t, []hrana.Value{
		hrana.Integer(1),
		hrana.Real(2.5),
		hrana.Boolean(true),
		hrana.Text("ada"),
		hrana.Datetime("2024-01-02 03:04:05"),
		hrana.BlobFromBytes([]byte("hrana")),
	}, rs.Rows[0].Values)
}

func TestTransactionKeepsStream(t *testing.T) {
	s := NewSession(t)
	ctx := context.Background()
	table := RandomName(t)

	resp, err := s.Execute(ctx,
		hrana.NewExecute(fmt.Sprintf("CREATE TABLE %s (n INTEGER)", table)),
		hrana.NewExecute("BEGIN"),
		hrana.NewExecute(fmt.Sprintf("INSERT INTO %s VALUES (1)", table)),
	)
	require.NoError(t, err)
	require.NoError(t, resp.Err())
	_, ok := s.Baton()
	require.True(t, ok)

	rs, err := s.Query(ctx, "SELECT n FROM "+table)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	require.Equal(t, hrana.Integer(1), rs.Rows[0].Get(0))

	resp, err = s.Execute(ctx, hrana.NewExecute("ROLLBACK"), hrana.NewExecute("DROP TABLE "+table))
	require.NoError(t, err)
	require.NoError(t, resp.Err())
}

func TestComputedColumnHasNoDeclType(t *testing.T) {
	s := NewSession(t)

	_, err := s.Query(context.Background(), "SELECT 1 + 1")
	var decodeErr *hrana.DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestStatementFail(t *testing.T) {
	s := NewSession(t)
	ctx := context.Background()

	_, err := s.Query(ctx, "SELECT * FROM "+RandomName(t))
	var stmtErr *hrana.StatementError
	require.ErrorAs(t, err, &stmtErr)
	require.Contains(t, stmtErr.Message, "no such table")
}
