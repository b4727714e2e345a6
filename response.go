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
	"errors"
	"fmt"
	"strconv"
)

// PipelineResponse is the decoded reply to one pipeline request.
type PipelineResponse struct {
	// Baton continues the stream on the next request. Nil means the server
	// holds no stream for this client anymore.
	Baton *string
	// Results holds one entry per statement, in request order.
	Results []Response
}

// Err returns the first statement failure reported in the response, if any.
func (r *PipelineResponse) Err() error {
	for i, result := range r.Results {
		if e, ok := result.(ErrorResponse); ok {
			return &StatementError{Index: i, Message: e.Message, Code: e.Code}
		}
	}
	return nil
}

// Response is the result of one statement.
//
// The set of implementations is closed: ExecuteResponse, CloseResponse and
// ErrorResponse.
type Response interface {
	isResponse()
}

// Column describes one result column.
type Column struct {
	Name string
	// DeclType is the SQL type the server declared for the column.
	DeclType string
}

// Row is one result row. Values line up with the columns of the
// ExecuteResponse the row belongs to.
type Row struct {
	Values []Value
}

// Get returns the i-th value of the row.
func (r Row) Get(i int) Value {
	return r.Values[i]
}

// Len returns the number of values in the row.
func (r Row) Len() int {
	return len(r.Values)
}

// ExecuteResponse is the result of an Execute statement.
type ExecuteResponse struct {
	Columns []Column
	Rows    []Row
	// AffectedRowCount is the number of rows changed by a write statement.
	AffectedRowCount int64
	// LastInsertRowID is the rowid of the last inserted row, when reported.
	LastInsertRowID *int64
}

// Column returns the index of the first column called name, or -1.
func (r ExecuteResponse) Column(name string) int {
	for i, col := range r.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// CloseResponse is the result of a Close statement.
type CloseResponse struct{}

// ErrorResponse is a statement the server failed to execute.
type ErrorResponse struct {
	Message string
	Code    string
}

func (ExecuteResponse) isResponse() {}
func (CloseResponse) isResponse()   {}
func (ErrorResponse) isResponse()   {}

type wireResponse struct {
	Baton   *string       `json:"baton"`
	Results *[]wireResult `json:"results"`
}

type wireResult struct {
	Type     *string          `json:"type"`
	Response *wireStmtResult  `json:"response"`
	Error    *wireResultError `json:"error"`
}

type wireResultError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type wireStmtResult struct {
	Type   *string          `json:"type"`
	Result *wireQueryResult `json:"result"`
}

type wireQueryResult struct {
	Cols             []wireColumn `json:"cols"`
	Rows             [][]wireCell `json:"rows"`
	AffectedRowCount int64        `json:"affected_row_count"`
	LastInsertRowID  *string      `json:"last_insert_rowid"`
}

type wireColumn struct {
	Name     *string `json:"name"`
	DeclType *string `json:"decltype"`
}

// wireCell is a result cell before coercion. Value holds the textual form
// of the cell whether the server sent it as a JSON string or number.
type wireCell struct {
	Type   string
	Value  *string
	Base64 *string
}

func (c *wireCell) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   *string         `json:"type"`
		Value  json.RawMessage `json:"value"`
		Base64 *string         `json:"base64"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type == nil {
		return errors.New("cell has no type")
	}

	c.Type = *raw.Type
	c.Base64 = raw.Base64
	c.Value = nil

	value := bytes.TrimSpace(raw.Value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return nil
	}
	switch value[0] {
	case '"':
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return err
		}
		c.Value = &s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		s := string(value)
		c.Value = &s
	default:
		return fmt.Errorf("cell value is neither a string nor a number: %s", value)
	}
	return nil
}

// Decode parses a pipeline response body.
//
// Any failure is returned as a *DecodeError. Cell coercion failures are
// wrapped in it as *UnknownColumnTypeError or *MalformedCellError, and no
// partial response is returned.
func Decode(body []byte) (*PipelineResponse, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if wire.Results == nil {
		return nil, &DecodeError{Err: errors.New("missing results")}
	}

	results := make([]Response, 0, len(*wire.Results))
	for i, result := range *wire.Results {
		resp, err := projectResult(result)
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("result %d: %w", i, err)}
		}
		results = append(results, resp)
	}

	return &PipelineResponse{
		Baton:   wire.Baton,
		Results: results,
	}, nil
}

// DecodeString is Decode for a string body.
func DecodeString(body string) (*PipelineResponse, error) {
	return Decode([]byte(body))
}

const resultTypeError = "error"

func projectResult(result wireResult) (Response, error) {
	if result.Type == nil {
		return nil, errors.New("missing type")
	}
	if *result.Type == resultTypeError {
		if result.Error == nil {
			return nil, errors.New("error result without error")
		}
		return ErrorResponse{Message: result.Error.Message, Code: result.Error.Code}, nil
	}

	if result.Response == nil {
		return nil, errors.New("missing response")
	}
	if result.Response.Type == nil {
		return nil, errors.New("missing response type")
	}
	if result.Response.Result == nil {
		return CloseResponse{}, nil
	}
	return projectQueryResult(result.Response.Result)
}

func projectQueryResult(result *wireQueryResult) (ExecuteResponse, error) {
	columns := make([]Column, 0, len(result.Cols))
	for i, col := range result.Cols {
		if col.Name == nil {
			return ExecuteResponse{}, fmt.Errorf("column %d: missing name", i)
		}
		if col.DeclType == nil {
			return ExecuteResponse{}, fmt.Errorf("column %d: missing decltype", i)
		}
		columns = append(columns, Column{Name: *col.Name, DeclType: *col.DeclType})
	}

	rows := make([]Row, 0, len(result.Rows))
	for i, cells := range result.Rows {
		if len(cells) != len(columns) {
			return ExecuteResponse{}, fmt.Errorf("row %d has %d cells, expected %d", i, len(cells), len(columns))
		}
		values := make([]Value, 0, len(cells))
		for j, cell := range cells {
			v, err := coerceCell(columns[j], cell)
			if err != nil {
				return ExecuteResponse{}, fmt.Errorf("row %d: %w", i, err)
			}
			values = append(values, v)
		}
		rows = append(rows, Row{Values: values})
	}

	resp := ExecuteResponse{
		Columns:          columns,
		Rows:             rows,
		AffectedRowCount: result.AffectedRowCount,
	}
	if result.LastInsertRowID != nil {
		id, err := strconv.ParseInt(*result.LastInsertRowID, 10, 64)
		if err != nil {
			return ExecuteResponse{}, fmt.Errorf("last_insert_rowid: %w", err)
		}
		resp.LastInsertRowID = &id
	}
	return resp, nil
}
