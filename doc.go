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

// Package router provides a segment-based prefix-tree HTTP router.
//
// The router maps an HTTP method and path to a registered handler, captures
// named path segments (":id"), and composes from smaller routers via Merge
// and Nest. Around the tree sits a dispatcher: an ordered middleware pipeline
// runs before routing, path captures and query parameters are bound to a
// pooled Context, and a uniform not-found / error fallback policy guarantees
// exactly one response per request.
//
// # Matching
//
// Paths are matched one segment at a time. At every depth an exact literal
// segment wins over a capture; the capture child is tried only when no
// literal child matches. The walk is greedy with no backtracking: a literal
// branch that dead-ends deeper never falls back to its capture sibling. This
// keeps matching O(depth) and unambiguous, at the cost of refusing route sets
// that would need backtracking to resolve.
//
// A miss is always a 404, whether the path is unknown or the path exists but
// the method does not. There is no 405 handling and no wildcard syntax.
//
// # Lifecycle
//
// Register everything first, then serve. The first request freezes the
// Router: the tree becomes immutable and safe for unlimited concurrent
// readers, and any later registration panics. Freeze also builds an
// exact-match index over captureless routes that ServeHTTP consults before
// walking the tree.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "net/http"
//
//	    "treeline.dev/router"
//	)
//
//	func main() {
//	    r := router.MustNew()
//
//	    r.GET("/users/:id", func(c *router.Context) error {
//	        return c.JSON(http.StatusOK, map[string]string{"user_id": c.Param("id")})
//	    })
//
//	    http.ListenAndServe(":8080", r)
//	}
//
// # Payload Routes
//
// Structured request bodies go through a generic wrapper that enforces a
// Content-Type prefix match and a byte cap before decoding:
//
//	type CreateUser struct {
//	    Name string `json:"name"`
//	}
//
//	router.PostJSON(r, "/users", func(c *router.Context, u CreateUser) error {
//	    return c.JSON(http.StatusCreated, u)
//	})
//
// The wrapper answers 415, 413, and 400 on its own; only errors returned by
// the typed handler reach the Router's error handler. See Body and JSON for
// the non-JSON codecs and per-route caps.
//
// # Composition
//
// Merge unions another Router's routes into this one; Nest does the same
// under a path prefix. Both rebuild nodes in the destination, so the source
// router stays independently usable:
//
//	admin := router.MustNew()
//	admin.GET("/items/:id", getItem)
//	r.Nest("/api", admin) // r now serves GET /api/items/:id
//
// # Observability
//
// The metrics, tracing, and accesslog packages in this module implement
// ObservabilityRecorder around OpenTelemetry and log/slog:
//
//	rec := metrics.MustNew(metrics.WithServiceName("orders"))
//	r := router.MustNew(router.WithObservability(rec))
//
// Compose several with MultiRecorder.
package router
