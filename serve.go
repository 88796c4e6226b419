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
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"time"
)

// unmatchedRoutePattern is reported to recorders when the request never
// reached route resolution, i.e. a middleware fault aborted the pipeline.
const unmatchedRoutePattern = "_unmatched"

// Default response bodies for the fallback policy.
const (
	notFoundBody      = "Route Not Found"
	internalErrorBody = "Internal Server Error"
)

// serverTimeouts holds the http.Server timeout configuration used by Serve.
type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

// defaultServerTimeouts returns conservative production timeouts. The read
// timeout also bounds slow request bodies, which is why the body wrapper
// carries no read deadline of its own.
func defaultServerTimeouts() serverTimeouts {
	return serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}

// responseWriter wraps the downstream ResponseWriter to track status code,
// body size, and whether a status line has gone out. A second WriteHeader is
// suppressed so no path can produce two responses for one request.
type responseWriter struct {
	http.ResponseWriter
	logger     *slog.Logger
	statusCode int
	size       int64
	written    bool
}

// WriteHeader captures the status code and suppresses duplicate calls.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.written {
		if rw.logger != nil {
			rw.logger.Debug("duplicate WriteHeader suppressed", "status", code, "written", rw.statusCode)
		}
		return
	}
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
	rw.written = true
}

// Write counts body bytes and marks the response as written.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// StatusCode returns the response status, defaulting to 200.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Size returns the number of body bytes written.
func (rw *responseWriter) Size() int64 {
	return rw.size
}

// Written reports whether a status line has gone out.
func (rw *responseWriter) Written() bool {
	return rw.written
}

// Compile-time check that responseWriter implements ResponseInfo.
var _ ResponseInfo = (*responseWriter)(nil)

// Hijack implements http.Hijacker when the underlying writer does.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, ErrResponseWriterNotHijacker
}

// Flush implements http.Flusher when the underlying writer does.
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// ServeHTTP dispatches one request: freeze on first use, recorder start
// hooks, middleware pipeline, route resolution, parameter and query binding,
// handler invocation, fallback policy, recorder end hooks. Exactly one
// response goes out on every path; the single exception is a body-overflow
// abort, which re-raises http.ErrAbortHandler so net/http tears down the
// connection without a response. Recorder end hooks fire even then.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Freeze()

	obs := r.observability
	var obsState any
	if obs != nil {
		enrichedCtx, state := obs.OnRequestStart(req.Context(), req)
		if enrichedCtx != nil {
			req = req.WithContext(enrichedCtx)
		}
		obsState = state
		if state != nil {
			w = obs.WrapResponseWriter(w, state)
		}
	}

	rw := &responseWriter{ResponseWriter: w, logger: r.logger}
	c := getContextFromGlobalPool()
	c.Request = req
	c.Response = rw
	c.logger = r.logger
	c.renderer = r.renderer
	defer releaseGlobalContext(c)

	var pattern string
	if obs != nil && obsState != nil {
		// Deferred so the end hook also fires when an overflow abort panics
		// through; otherwise in-flight gauges never come back down. The hook
		// sees the context as middleware left it, so values attached during
		// the pipeline (request IDs, spans) stay visible.
		defer func() {
			p := pattern
			if p == "" {
				if p = c.route; p == "" {
					p = unmatchedRoutePattern
				}
			}
			obs.OnRequestEnd(c.Request.Context(), obsState, rw, p)
		}()
	}

	pattern = r.dispatch(c, rw)
}

// dispatch runs the request lifecycle and returns the route pattern for the
// recorders. Panics from middleware and handlers become faults handled by
// the central guard; http.ErrAbortHandler is re-raised untouched.
func (r *Router) dispatch(c *Context, rw *responseWriter) (pattern string) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
			panic(p)
		}
		if pattern = c.route; pattern == "" {
			pattern = unmatchedRoutePattern
		}
		fault := panicToFault(p)
		r.Logger().Error("panic while handling request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"err", fault,
			"stack", string(debug.Stack()),
		)
		r.handleFault(c, rw, fault)
	}()

	for _, mw := range r.middleware {
		if err := mw(c); err != nil {
			r.handleFault(c, rw, err)
			return unmatchedRoutePattern
		}
	}

	handler, ok := r.lookup(c.Request.Method, c.Request.URL.Path, c)
	if !ok {
		c.clearParams()
		r.handleNotFound(c, rw)
		return notFoundRoutePattern
	}

	c.setQuery(c.Request.URL.RawQuery)
	if err := handler(c); err != nil {
		r.handleFault(c, rw, err)
	}
	return c.route
}

// lookup resolves method and path, consulting the exact-match index before
// walking the tree. Index entries exist only for captureless routes, so both
// paths produce identical results.
func (r *Router) lookup(method, path string, c *Context) (HandlerFunc, bool) {
	if entry, ok := r.index[indexKey(method, path)]; ok {
		c.route = entry.pattern
		return entry.handler, true
	}
	return r.tree.find(method, path, c)
}

// handleNotFound runs the configured not-found handler, or writes the
// default 404. A fault from the custom handler goes to the central guard
// like any other handler fault.
func (r *Router) handleNotFound(c *Context, rw *responseWriter) {
	if r.notFound != nil {
		if err := r.notFound(c); err != nil {
			r.handleFault(c, rw, err)
		}
		return
	}
	if rw.Written() {
		r.Logger().Debug("suppressing default 404, response already written",
			"method", c.Request.Method, "path", c.Request.URL.Path)
		return
	}
	_ = c.String(http.StatusNotFound, notFoundBody)
}

// handleFault is the central guard: every fault from middleware, handlers,
// and the not-found handler lands here exactly once. It runs the configured
// error handler, or writes the default 500. A panicking error handler falls
// back to the default write rather than escaping.
func (r *Router) handleFault(c *Context, rw *responseWriter, fault error) {
	r.Logger().Error("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"err", fault,
	)
	if r.errorHandler == nil {
		r.writeDefaultError(c, rw)
		return
	}
	defer func() {
		if p := recover(); p != nil {
			if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(p)
			}
			r.Logger().Error("error handler panicked", "err", panicToFault(p))
			r.writeDefaultError(c, rw)
		}
	}()
	r.errorHandler(c, fault)
}

// writeDefaultError writes the default 500 body unless a response is
// already in flight, in which case appending anything would corrupt it.
func (r *Router) writeDefaultError(c *Context, rw *responseWriter) {
	if rw.Written() {
		r.Logger().Warn("fault after response was written, client keeps partial response",
			"method", c.Request.Method, "path", c.Request.URL.Path, "status", rw.StatusCode())
		return
	}
	_ = c.String(http.StatusInternalServerError, internalErrorBody)
}

// panicToFault converts a recovered panic value into an error, preserving
// error values for errors.Is/As in custom error handlers.
func panicToFault(p any) error {
	if err, ok := p.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", p)
}

// Serve starts an HTTP server for the Router at addr, with the configured
// timeouts. It blocks like http.ListenAndServe. For TLS, graceful shutdown,
// or custom server settings, mount the Router on your own http.Server; it is
// a plain http.Handler.
func (r *Router) Serve(addr string) error {
	r.Logger().Info("server listening", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: r.timeouts.readHeader,
		ReadTimeout:       r.timeouts.read,
		WriteTimeout:      r.timeouts.write,
		IdleTimeout:       r.timeouts.idle,
	}
	return srv.ListenAndServe()
}
