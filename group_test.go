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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupRegistersUnderPrefix(t *testing.T) {
	t.Parallel()
	r := MustNew()
	api := r.Group("/api")
	api.GET("/users/:id", func(c *Context) error {
		return c.String(http.StatusOK, "user "+c.Param("id"))
	})
	api.POST("/users", ok("created"))

	assert.Equal(t, "user 7", perform(r, http.MethodGet, "/api/users/7").Body.String())
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/api/users").Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodGet, "/users/7").Code)
}

func TestNestedGroups(t *testing.T) {
	t.Parallel()
	r := MustNew()
	v1 := r.Group("/api").Group("/v1")
	v1.GET("/status", ok("v1 up"))

	assert.Equal(t, "/api/v1", v1.Prefix())
	assert.Equal(t, "v1 up", perform(r, http.MethodGet, "/api/v1/status").Body.String())
}

func TestGroupAllVerbs(t *testing.T) {
	t.Parallel()
	r := MustNew()
	g := r.Group("/g")
	g.GET("/x", ok(""))
	g.HEAD("/x", ok(""))
	g.OPTIONS("/x", ok(""))
	g.DELETE("/x", ok(""))
	g.POST("/x", ok(""))
	g.PUT("/x", ok(""))
	g.PATCH("/x", ok(""))

	for _, method := range []string{
		http.MethodGet, http.MethodHead, http.MethodOptions,
		http.MethodDelete, http.MethodPost, http.MethodPut, http.MethodPatch,
	} {
		assert.Equal(t, http.StatusOK, perform(r, method, "/g/x").Code, method)
	}
}

func TestGroupTrailingSlashPrefixTrimmed(t *testing.T) {
	t.Parallel()
	r := MustNew()
	g := r.Group("/admin/")
	g.GET("/panel", ok("panel"))

	assert.Equal(t, "/admin", g.Prefix())
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/admin/panel").Code)
}

func TestGroupValidation(t *testing.T) {
	t.Parallel()
	r := MustNew()
	assert.Panics(t, func() { r.Group("api") }, "prefix must begin with '/'")

	g := r.Group("/api")
	assert.Panics(t, func() { g.GET("users", ok("")) }, "path must begin with '/'")
}

func TestGroupSharesRouterFreeze(t *testing.T) {
	t.Parallel()
	r := MustNew()
	g := r.Group("/api")
	g.GET("/a", ok("a"))

	perform(r, http.MethodGet, "/api/a")
	assert.Panics(t, func() { g.GET("/late", ok("")) }, "groups register through the frozen router")
}
