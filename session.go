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
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash"
	"github.com/google/uuid"
)

// Session runs pipelines against one database and threads the baton from
// each response into the next request, so consecutive pipelines share one
// server-side stream.
//
// Pipelines of a Session are serialized; concurrent calls wait for each
// other. Use separate sessions for independent streams.
type Session struct {
	config    *Config
	transport Transport
	logger    *slog.Logger
	id        uuid.UUID

	mu     sync.Mutex
	baton  *string
	closed bool
}

// NewSession creates a session. A nil transport means NewHTTPTransport(nil).
func NewSession(config *Config, transport Transport) *Session {
	if transport == nil {
		transport = NewHTTPTransport(nil)
	}
	id := uuid.New()
	logger := config.logger().With(slog.String("session", id.String()))

	if expiry, ok, err := config.TokenExpiry(); err != nil {
		logger.Debug("token is not a JWT, expiry unknown", slog.Any("error", err))
	} else if ok && time.Now().After(expiry) {
		logger.Warn("token has expired", slog.Time("expiry", expiry))
	}

	return &Session{
		config:    config,
		transport: transport,
		logger:    logger,
		id:        id,
	}
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Baton returns the baton the next pipeline will carry, if any.
func (s *Session) Baton() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baton == nil {
		return "", false
	}
	return *s.baton, true
}

// Execute sends stmts as one pipeline and returns the decoded response.
//
// Statement failures reported by the server are not returned as an error;
// inspect the ErrorResponse results or call PipelineResponse.Err.
func (s *Session) Execute(ctx context.Context, stmts ...Statement) (*PipelineResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.execute(ctx, stmts)
}

// Query executes a single statement and returns its result.
func (s *Session) Query(ctx context.Context, query string, args ...Argument) (*ExecuteResponse, error) {
	resp, err := s.Execute(ctx, NewExecute(query, args...))
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	if len(resp.Results) != 1 {
		return nil, fmt.Errorf("expected 1 result, got %d", len(resp.Results))
	}
	result, ok := resp.Results[0].(ExecuteResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected result: %T", resp.Results[0])
	}
	return &result, nil
}

// Close ends the server-side stream, if one is open, and invalidates the
// session. Closing a closed session is a no-op.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.baton == nil {
		return nil
	}

	resp, err := s.execute(ctx, []Statement{Close{}})
	s.baton = nil
	if err != nil {
		return err
	}
	return resp.Err()
}

func (s *Session) execute(ctx context.Context, stmts []Statement) (*PipelineResponse, error) {
	b := s.config.Builder().WithLogger(s.logger)
	if s.baton != nil {
		b.WithBaton(*s.baton)
	}
	for _, stmt := range stmts {
		b.WithStatement(stmt)
	}

	req, err := b.Build()
	if err != nil {
		return nil, err
	}

	if s.logger.Enabled(ctx, slog.LevelDebug) {
		for i, stmt := range stmts {
			if exec, ok := stmt.(Execute); ok {
				s.logger.DebugContext(ctx, "pipeline statement",
					slog.Int("index", i),
					slog.String("sql_hash", sqlHash(exec.Query())),
					slog.Int("args", len(exec.arguments)))
			}
		}
	}

	start := time.Now()
	reply, err := s.transport.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, decodeErr := Decode(reply.Body)
	if !checkStatusCodeOK(reply) && decodeErr != nil {
		return nil, &StatusError{StatusCode: reply.StatusCode, Body: string(reply.Body)}
	}
	if decodeErr != nil {
		return nil, decodeErr
	}

	s.baton = resp.Baton
	s.logger.DebugContext(ctx, "pipeline done",
		slog.Int("statements", len(stmts)),
		slog.Int("status", reply.StatusCode),
		slog.Bool("baton", resp.Baton != nil),
		slog.Duration("elapsed", time.Since(start)))
	return resp, nil
}

func sqlHash(query string) string {
	return strconv.FormatUint(xxhash.Sum64([]byte(query)), 16)
}
