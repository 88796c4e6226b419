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
	"net/http/httptest"
	"strings"
	"testing"
)

func BenchmarkRouter(b *testing.B) {
	r := MustNew()

	routes := []string{
		"/",
		"/users",
		"/users/:id",
		"/users/:id/posts",
		"/users/:id/posts/:post_id",
		"/users/:id/posts/:post_id/comments",
		"/users/:id/posts/:post_id/comments/:comment_id",
		"/posts",
		"/posts/:id",
		"/posts/:id/comments",
		"/api/v1/users",
		"/api/v1/users/:id",
		"/api/v1/posts",
		"/api/v2/users",
		"/admin/users",
		"/admin/settings",
	}
	for _, route := range routes {
		r.GET(route, func(c *Context) error {
			return c.String(http.StatusOK, "OK")
		})
	}
	r.Freeze()

	testPaths := []string{
		"/",
		"/users",
		"/users/123",
		"/users/123/posts",
		"/users/123/posts/456",
		"/users/123/posts/456/comments",
		"/users/123/posts/456/comments/789",
		"/posts",
		"/posts/123",
		"/posts/123/comments",
		"/api/v1/users",
		"/api/v1/users/123",
		"/api/v1/posts",
		"/api/v2/users",
		"/admin/users",
		"/admin/settings",
	}

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for _, path := range testPaths {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)
			}
		}
	})
}

func BenchmarkRouterWithMiddleware(b *testing.B) {
	r := MustNew()
	r.Use(func(c *Context) error { return nil })
	r.Use(func(c *Context) error { return nil })
	r.GET("/users/:id", func(c *Context) error {
		return c.String(http.StatusOK, "OK")
	})
	r.Freeze()

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
		}
	})
}

// BenchmarkIndexedRoute measures the exact-match fast path: captureless
// routes resolve through the freeze-time index without a tree walk.
func BenchmarkIndexedRoute(b *testing.B) {
	r := MustNew()
	r.GET("/api/v1/health", func(c *Context) error {
		return c.String(http.StatusOK, "OK")
	})
	r.Freeze()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		r.ServeHTTP(w, req)
	}
}

// BenchmarkTreeFind measures the bare tree walk without dispatch overhead.
func BenchmarkTreeFind(b *testing.B) {
	tr := newTree()
	routes := []string{
		"/",
		"/users",
		"/users/:id",
		"/users/:id/posts",
		"/users/:id/posts/:post_id",
		"/posts",
		"/posts/:id",
		"/api/v1/users",
		"/api/v1/users/:id",
	}
	for _, route := range routes {
		tr.insert(http.MethodGet, route, func(*Context) error { return nil })
	}

	testPaths := []string{
		"/",
		"/users",
		"/users/123",
		"/users/123/posts",
		"/users/123/posts/456",
		"/posts",
		"/posts/123",
		"/api/v1/users",
		"/api/v1/users/123",
	}

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		c := &Context{}
		for pb.Next() {
			for _, path := range testPaths {
				c.clearParams()
				_, _ = tr.find(http.MethodGet, path, c)
			}
		}
	})
}

func BenchmarkJSONBinding(b *testing.B) {
	type payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	r := MustNew()
	PostJSON(r, "/users", func(c *Context, p payload) error {
		return c.String(http.StatusCreated, p.Name)
	})
	r.Freeze()

	body := `{"name":"ada","email":"ada@example.com"}`

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
	}
}
