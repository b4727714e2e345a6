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
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config defines the target database and credentials of a Session.
type Config struct {
	// Database is the database name.
	Database string `json:"database"`
	// Organization is the organization owning the database.
	Organization string `json:"organization"`
	// Host is the domain databases are served under. Defaults to DefaultHost.
	Host string `json:"host,omitempty"`
	// Path is the pipeline endpoint. Defaults to DefaultPath.
	Path string `json:"path,omitempty"`
	// Token is the bearer token sent with every request.
	Token string `json:"token"`
	// StrictArguments rejects statements mixing anonymous and named arguments.
	StrictArguments bool `json:"strict_arguments,omitempty"`

	// Logger is optional and defaults to slog.Default().
	Logger *slog.Logger `json:"-"`
}

// Builder returns a RequestBuilder preloaded with the configuration. Empty
// fields are left unset, so Build reports them as missing.
func (c *Config) Builder() *RequestBuilder {
	b := NewRequestBuilder().
		StrictArguments(c.StrictArguments).
		WithLogger(c.logger())
	if c.Database != "" {
		b.WithDatabase(c.Database)
	}
	if c.Organization != "" {
		b.WithOrganization(c.Organization)
	}
	if c.Host != "" {
		b.WithHost(c.Host)
	}
	if c.Path != "" {
		b.WithPath(c.Path)
	}
	if c.Token != "" {
		b.WithToken(c.Token)
	}
	return b
}

// TokenExpiry reads the expiration time from the token's JWT claims. The
// signature is not verified; only the server can do that. ok is false when
// the token carries no expiration.
func (c *Config) TokenExpiry() (expiry time.Time, ok bool, err error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return time.Time{}, false, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false, err
	}
	if exp == nil {
		return time.Time{}, false, nil
	}
	return exp.Time, true, nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
