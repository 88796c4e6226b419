// Copyright 2025 The Treeline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package requestid assigns a unique ID to every request for log
// correlation. The ID is taken from the inbound header when the client
// supplies one (and that is allowed), generated otherwise, echoed back in
// the response header, and stored in the request context where handlers,
// later middleware, and the observability recorders can read it.
package requestid

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"treeline.dev/router"
)

type contextKey struct{}

// Option configures the requestid middleware.
type Option func(*config)

type config struct {
	// headerName is the request and response header carrying the ID.
	headerName string

	// generator produces a new ID when the request carries none.
	generator func() string

	// allowClientID accepts IDs supplied by the client.
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-ID",
		generator:     generateUUIDv7,
		allowClientID: true,
	}
}

// generateUUIDv7 is the default generator. UUID v7 is time-ordered and
// lexicographically sortable (RFC 9562).
func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ulidEntropy is a shared entropy source for ULID generation. Monotonic
// mode keeps IDs ordered within the same millisecond; the lock guards it
// because the reader is not safe for concurrent use.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// New returns middleware that tags each request with a unique ID.
//
// The middleware checks the configured header for an existing ID, generates
// one if the request carries none (or client IDs are disallowed), sets the
// ID on the response header, and stores it in the request context.
//
// Basic usage (UUID v7 by default):
//
//	r := router.MustNew()
//	r.Use(requestid.New())
//
// ULID instead (compact 26-character form):
//
//	r.Use(requestid.New(requestid.WithULID()))
//
// Reading the ID in a handler:
//
//	r.GET("/orders/:id", func(c *router.Context) error {
//	    id := requestid.Get(c)
//	    return c.String(http.StatusOK, id)
//	})
//
// New panics when an option leaves the configuration unusable (empty header
// name or nil generator); that is a programming error, not a runtime
// condition.
func New(opts ...Option) router.MiddlewareFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.headerName == "" {
		panic("requestid: empty header name")
	}
	if cfg.generator == nil {
		panic("requestid: nil generator")
	}

	return func(c *router.Context) error {
		var id string
		if cfg.allowClientID {
			id = c.Request.Header.Get(cfg.headerName)
		}
		if id == "" {
			id = cfg.generator()
		}

		c.Response.Header().Set(cfg.headerName, id)

		ctx := context.WithValue(c.Request.Context(), contextKey{}, id)
		c.Request = c.Request.WithContext(ctx)
		return nil
	}
}

// Get returns the request ID stored by the middleware, or "" when the
// middleware did not run.
func Get(c *router.Context) string {
	return FromContext(c.Request.Context())
}

// FromContext returns the request ID carried by ctx, or "" when none is
// set. It serves code that holds only a context, such as observability
// recorders.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}
