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

package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/labstack/echo/v4"

	"treeline.dev/router"
)

// Comparative benchmarks against other popular Go routers, all serving the
// same three-route table and answering GET /users/123. Run with:
//
//	go test -bench=Comparison -benchmem

func BenchmarkComparisonTreeline(b *testing.B) {
	r := router.MustNew()
	r.GET("/", func(c *router.Context) error {
		return c.String(http.StatusOK, "Hello")
	})
	r.GET("/users/:id", func(c *router.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id"))
	})
	r.GET("/users/:id/posts/:post_id", func(c *router.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id")+", Post: "+c.Param("post_id"))
	})
	r.Freeze()

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
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

func BenchmarkComparisonStandardMux(b *testing.B) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Hello"))
	})
	mux.HandleFunc("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("User: " + r.PathValue("id")))
	})
	mux.HandleFunc("/users/{id}/posts/{post_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("User: " + r.PathValue("id") + ", Post: " + r.PathValue("post_id")))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		mux.ServeHTTP(w, req)
	}
}

func BenchmarkComparisonGin(b *testing.B) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello")
	})
	r.GET("/users/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "User: "+c.Param("id"))
	})
	r.GET("/users/:id/posts/:post_id", func(c *gin.Context) {
		c.String(http.StatusOK, "User: "+c.Param("id")+", Post: "+c.Param("post_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
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

func BenchmarkComparisonEcho(b *testing.B) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello")
	})
	e.GET("/users/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id"))
	})
	e.GET("/users/:id/posts/:post_id", func(c echo.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id")+", Post: "+c.Param("post_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		e.ServeHTTP(w, req)
	}
}

func BenchmarkComparisonChi(b *testing.B) {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello"))
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("User: " + chi.URLParam(req, "id")))
	})
	r.Get("/users/{id}/posts/{post_id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("User: " + chi.URLParam(req, "id") + ", Post: " + chi.URLParam(req, "post_id")))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
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
