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
	"net/http"
	"strings"
)

// Group is a registration view that prefixes every path it registers. It is
// pure path sugar over the parent Router's tree: no separate tree, no group
// middleware (the pipeline is Router-scoped), no composition semantics.
// Routes registered through a Group behave exactly as if registered on the
// Router with the joined path.
//
// Example:
//
//	api := r.Group("/api/v1")
//	api.GET("/users/:id", getUser) // registers GET /api/v1/users/:id
type Group struct {
	router *Router
	prefix string
}

// Group returns a registration view that prefixes every path with prefix.
// The prefix must begin with '/'; trailing slashes are trimmed, and "/"
// yields a view equivalent to the Router itself.
func (r *Router) Group(prefix string) *Group {
	return &Group{router: r, prefix: normalizePrefix(prefix)}
}

// Group nests a further prefix under this group.
//
// Example:
//
//	api := r.Group("/api")
//	v2 := api.Group("/v2")
//	v2.GET("/users", listUsers) // registers GET /api/v2/users
func (g *Group) Group(prefix string) *Group {
	return &Group{router: g.router, prefix: g.prefix + normalizePrefix(prefix)}
}

// Prefix returns the accumulated path prefix of this group.
func (g *Group) Prefix() string {
	return g.prefix
}

// Handle registers handler for an arbitrary method under the group prefix.
// The same construction-time panics apply as for Router.Handle, including
// registration after freeze.
func (g *Group) Handle(method, path string, handler HandlerFunc) {
	if !strings.HasPrefix(path, "/") {
		panic(fmt.Sprintf("router: group path %q must begin with '/'", path))
	}
	g.router.Handle(method, g.prefix+path, handler)
}

// GET registers handler for GET requests under the group prefix.
func (g *Group) GET(path string, handler HandlerFunc) {
	g.Handle(http.MethodGet, path, handler)
}

// HEAD registers handler for HEAD requests under the group prefix.
func (g *Group) HEAD(path string, handler HandlerFunc) {
	g.Handle(http.MethodHead, path, handler)
}

// OPTIONS registers handler for OPTIONS requests under the group prefix.
func (g *Group) OPTIONS(path string, handler HandlerFunc) {
	g.Handle(http.MethodOptions, path, handler)
}

// DELETE registers handler for DELETE requests under the group prefix.
func (g *Group) DELETE(path string, handler HandlerFunc) {
	g.Handle(http.MethodDelete, path, handler)
}

// POST registers handler for POST requests under the group prefix.
func (g *Group) POST(path string, handler HandlerFunc) {
	g.Handle(http.MethodPost, path, handler)
}

// PUT registers handler for PUT requests under the group prefix.
func (g *Group) PUT(path string, handler HandlerFunc) {
	g.Handle(http.MethodPut, path, handler)
}

// PATCH registers handler for PATCH requests under the group prefix.
func (g *Group) PATCH(path string, handler HandlerFunc) {
	g.Handle(http.MethodPatch, path, handler)
}
