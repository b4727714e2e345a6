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
	"fmt"
	"slices"
)

// Statement is one operation of a pipeline.
//
// The set of implementations is closed: Execute and Close.
type Statement interface {
	isStatement()
}

// Execute runs a SQL query with optional bound arguments.
//
// An Execute is immutable; WithArguments returns a copy.
type Execute struct {
	query     string
	arguments []Argument
}

// NewExecute creates an Execute for query with the given arguments. The SQL
// text is passed through verbatim.
func NewExecute(query string, args ...Argument) Execute {
	return Execute{
		query:     query,
		arguments: slices.Clone(args),
	}
}

// Query returns the SQL text.
func (e Execute) Query() string {
	return e.query
}

// Arguments returns a copy of the bound arguments.
func (e Execute) Arguments() []Argument {
	return slices.Clone(e.arguments)
}

// WithArguments returns a new Execute with args appended to the existing ones.
func (e Execute) WithArguments(args ...Argument) Execute {
	merged := make([]Argument, 0, len(e.arguments)+len(args))
	merged = append(merged, e.arguments...)
	merged = append(merged, args...)
	return Execute{query: e.query, arguments: merged}
}

// HasMixedArguments reports whether the statement binds both anonymous and
// named arguments. Such a statement is still encoded, each kind landing in
// its own wire list, but most engines reject mixed parameter styles.
func (e Execute) HasMixedArguments() bool {
	var anonymous, named bool
	for _, arg := range e.arguments {
		if arg.named {
			named = true
		} else {
			anonymous = true
		}
	}
	return anonymous && named
}

// Close ends the stream the pipeline runs on. The server drops the baton
// after executing it.
type Close struct{}

func (Execute) isStatement() {}
func (Close) isStatement()   {}

const (
	requestTypeExecute = "execute"
	requestTypeClose   = "close"
)

type wireStatement struct {
	SQL       string         `json:"sql"`
	Args      []wireValue    `json:"args"`
	NamedArgs []wireNamedArg `json:"named_args"`
}

type wireRequest struct {
	Type string         `json:"type"`
	Stmt *wireStatement `json:"stmt,omitempty"`
}

func encodeStatement(s Statement) (wireRequest, error) {
	switch s := s.(type) {
	case Execute:
		args, namedArgs, err := partitionArguments(s.arguments)
		if err != nil {
			return wireRequest{}, err
		}
		return wireRequest{
			Type: requestTypeExecute,
			Stmt: &wireStatement{
				SQL:       s.query,
				Args:      args,
				NamedArgs: namedArgs,
			},
		}, nil
	case *Execute:
		if s == nil {
			return wireRequest{}, fmt.Errorf("nil statement")
		}
		return encodeStatement(*s)
	case Close, *Close:
		return wireRequest{Type: requestTypeClose}, nil
	default:
		return wireRequest{}, fmt.Errorf("unsupported statement: %T", s)
	}
}
