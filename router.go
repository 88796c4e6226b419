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

package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
)

// HandlerFunc is the signature of route handlers and the not-found handler.
// A non-nil return is a fault: the dispatcher hands it to the Router's error
// handler (default: a 500 response). Handlers that have fully written their
// response return nil.
type HandlerFunc func(*Context) error

// MiddlewareFunc is one step of the pipeline that runs, in registration
// order, before routing. A non-nil return aborts the remaining pipeline and
// the handler, and the fault goes to the Router's error handler. There is no
// other way to short-circuit: returning nil always advances.
type MiddlewareFunc func(*Context) error

// ErrorHandlerFunc receives faults from middleware and handlers together
// with the request context. It owns writing the response; if it writes
// nothing the client sees whatever was already written, or an empty 200,
// so implementations should always produce a response.
type ErrorHandlerFunc func(*Context, error)

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Router owns one route tree, the middleware pipeline, and the fallback
// policy. Configure it with functional options at construction, register
// routes, then serve. The first request freezes the Router: the tree becomes
// immutable and safe for concurrent reads, and any later registration
// panics.
type Router struct {
	tree       *tree
	middleware []MiddlewareFunc

	notFound      HandlerFunc
	errorHandler  ErrorHandlerFunc
	renderer      Renderer
	logger        *slog.Logger
	observability ObservabilityRecorder
	timeouts      serverTimeouts

	frozen     atomic.Bool
	freezeOnce sync.Once
	index      map[string]indexEntry
}

// New creates a Router with the given options.
//
// Example:
//
//	r, err := router.New(
//	    router.WithLogger(logger),
//	    router.WithErrorHandler(func(c *router.Context, err error) {
//	        c.WriteErrorResponse(http.StatusInternalServerError, "boom")
//	    }),
//	)
func New(opts ...Option) (*Router, error) {
	r := &Router{
		tree:     newTree(),
		timeouts: defaultServerTimeouts(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}
	return r, nil
}

// MustNew is New, panicking on configuration error. Intended for static
// initialization where a bad configuration is a programming error.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

func (r *Router) validate() error {
	for name, d := range map[string]int64{
		"read header": int64(r.timeouts.readHeader),
		"read":        int64(r.timeouts.read),
		"write":       int64(r.timeouts.write),
		"idle":        int64(r.timeouts.idle),
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s timeout", ErrServerTimeoutInvalid, name)
		}
	}
	return nil
}

// Logger returns the configured logger, or the no-op logger.
func (r *Router) Logger() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return noopLogger
}

// Handle registers handler for an arbitrary method string and path. Paths
// are segment based: "/users/:id" captures the second segment under "id".
// Registering the same method and path again replaces the previous handler.
//
// Handle panics on an empty method, a path without a leading '/', a nil
// handler, a capture-name conflict, or registration after freeze. Those are
// programming errors, caught at startup rather than surfaced per request.
func (r *Router) Handle(method, path string, handler HandlerFunc) {
	r.mustBeMutable(fmt.Sprintf("register %s %s", method, path))
	if method == "" {
		panic(fmt.Sprintf("router: empty method for path %q", path))
	}
	if !strings.HasPrefix(path, "/") {
		panic(fmt.Sprintf("router: path %q must begin with '/'", path))
	}
	if handler == nil {
		panic(fmt.Sprintf("router: nil handler for %s %s", method, path))
	}
	r.tree.insert(method, path, handler)
}

// GET registers handler for GET requests at path.
func (r *Router) GET(path string, handler HandlerFunc) {
	r.Handle(http.MethodGet, path, handler)
}

// HEAD registers handler for HEAD requests at path.
func (r *Router) HEAD(path string, handler HandlerFunc) {
	r.Handle(http.MethodHead, path, handler)
}

// OPTIONS registers handler for OPTIONS requests at path.
func (r *Router) OPTIONS(path string, handler HandlerFunc) {
	r.Handle(http.MethodOptions, path, handler)
}

// DELETE registers handler for DELETE requests at path.
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.Handle(http.MethodDelete, path, handler)
}

// POST registers handler for POST requests at path. For structured bodies
// with content-type and size enforcement, wrap the handler with JSON or Body,
// or use PostJSON.
func (r *Router) POST(path string, handler HandlerFunc) {
	r.Handle(http.MethodPost, path, handler)
}

// PUT registers handler for PUT requests at path.
func (r *Router) PUT(path string, handler HandlerFunc) {
	r.Handle(http.MethodPut, path, handler)
}

// PATCH registers handler for PATCH requests at path.
func (r *Router) PATCH(path string, handler HandlerFunc) {
	r.Handle(http.MethodPatch, path, handler)
}

// Use appends middleware to the pipeline. Order is execution order.
func (r *Router) Use(middleware ...MiddlewareFunc) {
	r.mustBeMutable("add middleware")
	for _, mw := range middleware {
		if mw == nil {
			panic("router: nil middleware")
		}
	}
	r.middleware = append(r.middleware, middleware...)
}

// Merge unions every route of src into this Router. Handlers from src win
// when both Routers registered the same method and path. When both trees
// carry a capture at the same position, this Router's capture name is kept.
// The two Routers share no tree nodes afterwards; src stays usable and later
// changes to it do not leak into this Router. Only routes move: src's
// middleware and fallback handlers are not merged.
func (r *Router) Merge(src *Router) {
	r.mustBeMutable("merge routes")
	if src == nil {
		panic("router: merge with nil router")
	}
	r.tree.merge(src.tree)
}

// Nest registers every route of src under prefix: src is flattened to
// (method, path) pairs, capture tokens regenerated from their names, prefix
// prepended, and the result merged into this Router. src is unchanged and
// still resolves its own paths afterwards.
//
// Example:
//
//	admin := router.MustNew()
//	admin.GET("/items/:id", getItem)
//	r.Nest("/api", admin) // r now resolves GET /api/items/:id
func (r *Router) Nest(prefix string, src *Router) {
	r.mustBeMutable(fmt.Sprintf("nest routes under %q", prefix))
	if src == nil {
		panic("router: nest with nil router")
	}
	r.tree.nest(normalizePrefix(prefix), src.tree)
}

// Route is one registered route, rebuilt from the tree.
type Route struct {
	Method  string
	Path    string
	Handler HandlerFunc
}

// Routes lists every registered route: literal children in registration
// order, captures after them, methods sorted per node.
func (r *Router) Routes() []Route {
	entries := r.tree.flatten()
	routes := make([]Route, len(entries))
	for i, entry := range entries {
		routes[i] = Route{Method: entry.method, Path: entry.path, Handler: entry.handler}
	}
	return routes
}

// Freeze makes the Router immutable. The first request does this implicitly;
// calling it earlier is useful before handing the Router to concurrent
// traffic generators in tests, or to fail fast on stray late registrations.
// Freeze also builds the exact-match index consulted before tree walks.
// Idempotent.
func (r *Router) Freeze() {
	r.freezeOnce.Do(func() {
		r.index = buildIndex(r.tree)
		r.frozen.Store(true)
	})
}

// Frozen reports whether the Router has frozen.
func (r *Router) Frozen() bool {
	return r.frozen.Load()
}

func (r *Router) mustBeMutable(op string) {
	if r.frozen.Load() {
		panic(fmt.Sprintf("router: cannot %s after the router has started serving", op))
	}
}
