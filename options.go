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
	"log/slog"
	"time"
)

// Option configures a Router during construction.
type Option func(*Router)

// WithLogger sets the Router's logger. The dispatcher logs faults reaching
// the central guard, suppressed duplicate writes, and body-overflow aborts;
// Context.Logger hands the same logger to handlers. A nil logger keeps the
// no-op default.
//
// Example:
//
//	r := router.MustNew(router.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithRenderer sets the template renderer behind Context.Render. Without
// one, Render returns ErrRendererNotSet.
func WithRenderer(renderer Renderer) Option {
	return func(r *Router) {
		r.renderer = renderer
	}
}

// WithNotFoundHandler replaces the default 404 response ("Route Not Found")
// for unmatched requests. The handler's error, like any handler error, goes
// to the central error handling.
func WithNotFoundHandler(handler HandlerFunc) Option {
	return func(r *Router) {
		r.notFound = handler
	}
}

// WithErrorHandler replaces the default 500 response ("Internal Server
// Error") for faults from middleware and handlers. The handler receives the
// fault and the request context and owns writing the response.
//
// Example:
//
//	router.WithErrorHandler(func(c *router.Context, err error) {
//	    c.Logger().Error("request failed", "err", err)
//	    _ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
//	})
func WithErrorHandler(handler ErrorHandlerFunc) Option {
	return func(r *Router) {
		r.errorHandler = handler
	}
}

// WithObservability sets the lifecycle recorder. Compose several with
// MultiRecorder. The metrics, tracing, and accesslog packages provide
// implementations.
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(r *Router) {
		r.observability = recorder
	}
}

// WithServerTimeouts overrides the timeouts Serve applies to its
// http.Server. All four must be positive; New fails otherwise. Routers used
// purely as an http.Handler ignore these.
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.timeouts = serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}
