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

//go:build !integration

package router

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perform runs one request through the router and returns the recorder.
func perform(r *Router, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

// ok returns a handler that writes a 200 with the given body.
func ok(body string) HandlerFunc {
	return func(c *Context) error {
		return c.String(http.StatusOK, body)
	}
}

func TestNewValidatesTimeouts(t *testing.T) {
	t.Parallel()
	_, err := New(WithServerTimeouts(0, time.Second, time.Second, time.Second))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrServerTimeoutInvalid)

	_, err = New(WithServerTimeouts(time.Second, time.Second, -time.Second, time.Second))
	require.ErrorIs(t, err, ErrServerTimeoutInvalid)

	r, err := New(WithServerTimeouts(time.Second, time.Second, time.Second, time.Second))
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestMustNewPanicsOnBadConfig(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		MustNew(WithServerTimeouts(0, 0, 0, 0))
	})
	assert.NotPanics(t, func() { MustNew() })
}

func TestHandleValidation(t *testing.T) {
	t.Parallel()
	r := MustNew()

	assert.Panics(t, func() { r.Handle("", "/x", ok("")) }, "empty method")
	assert.Panics(t, func() { r.Handle(http.MethodGet, "x", ok("")) }, "path without leading slash")
	assert.Panics(t, func() { r.Handle(http.MethodGet, "/x", nil) }, "nil handler")
}

func TestVerbRegistrars(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/r", ok("get"))
	r.HEAD("/r", ok(""))
	r.OPTIONS("/r", ok("options"))
	r.DELETE("/r", ok("delete"))
	r.POST("/r", ok("post"))
	r.PUT("/r", ok("put"))
	r.PATCH("/r", ok("patch"))

	for _, method := range []string{
		http.MethodGet, http.MethodHead, http.MethodOptions,
		http.MethodDelete, http.MethodPost, http.MethodPut, http.MethodPatch,
	} {
		w := perform(r, method, "/r")
		assert.Equal(t, http.StatusOK, w.Code, method)
	}
}

func TestCustomMethodString(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.Handle("PURGE", "/cache/:key", func(c *Context) error {
		return c.String(http.StatusOK, c.Param("key"))
	})

	w := perform(r, "PURGE", "/cache/sessions")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sessions", w.Body.String())
}

func TestMiddlewareRunsInOrder(t *testing.T) {
	t.Parallel()
	r := MustNew()
	var order []string
	r.Use(
		func(c *Context) error { order = append(order, "first"); return nil },
		func(c *Context) error { order = append(order, "second"); return nil },
	)
	r.Use(func(c *Context) error { order = append(order, "third"); return nil })
	r.GET("/", func(c *Context) error {
		order = append(order, "handler")
		return c.String(http.StatusOK, "done")
	})

	w := perform(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"first", "second", "third", "handler"}, order)
}

func TestMiddlewareRunsOnNotFoundPath(t *testing.T) {
	t.Parallel()
	r := MustNew()
	ran := false
	r.Use(func(c *Context) error { ran = true; return nil })

	w := perform(r, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, ran, "pipeline runs before route resolution, even for misses")
}

func TestUseRejectsNilMiddleware(t *testing.T) {
	t.Parallel()
	r := MustNew()
	assert.Panics(t, func() { r.Use(nil) })
}

func TestMergeCombinesRouters(t *testing.T) {
	t.Parallel()
	users := MustNew()
	users.GET("/users/:id", func(c *Context) error {
		return c.String(http.StatusOK, "user "+c.Param("id"))
	})
	orders := MustNew()
	orders.GET("/orders/:id", func(c *Context) error {
		return c.String(http.StatusOK, "order "+c.Param("id"))
	})

	app := MustNew()
	app.Merge(users)
	app.Merge(orders)

	w := perform(app, http.MethodGet, "/users/1")
	assert.Equal(t, "user 1", w.Body.String())
	w = perform(app, http.MethodGet, "/orders/2")
	assert.Equal(t, "order 2", w.Body.String())
}

func TestMergeDoesNotCarryMiddleware(t *testing.T) {
	t.Parallel()
	src := MustNew()
	srcMW := false
	src.Use(func(c *Context) error { srcMW = true; return nil })
	src.GET("/x", ok("x"))

	dst := MustNew()
	dst.Merge(src)

	w := perform(dst, http.MethodGet, "/x")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, srcMW, "only routes merge, pipelines stay with their router")
}

func TestMergeLeavesSourceUsable(t *testing.T) {
	t.Parallel()
	src := MustNew()
	src.GET("/a", ok("a"))
	dst := MustNew()
	dst.Merge(src)

	// Routes added to src after the merge stay local to src.
	src.GET("/b", ok("b"))

	assert.Equal(t, http.StatusOK, perform(src, http.MethodGet, "/b").Code)
	assert.Equal(t, http.StatusNotFound, perform(dst, http.MethodGet, "/b").Code)
	assert.Equal(t, http.StatusOK, perform(dst, http.MethodGet, "/a").Code)
}

func TestMergeNilPanics(t *testing.T) {
	t.Parallel()
	r := MustNew()
	assert.Panics(t, func() { r.Merge(nil) })
}

func TestNestMountsUnderPrefix(t *testing.T) {
	t.Parallel()
	api := MustNew()
	api.GET("/items/:id", func(c *Context) error {
		return c.String(http.StatusOK, "item "+c.Param("id"))
	})
	api.GET("/", ok("index"))

	root := MustNew()
	root.Nest("/api/v1", api)

	w := perform(root, http.MethodGet, "/api/v1/items/9")
	assert.Equal(t, "item 9", w.Body.String())
	w = perform(root, http.MethodGet, "/api/v1/")
	assert.Equal(t, "index", w.Body.String())
	// The unprefixed path is not resolvable on the destination.
	assert.Equal(t, http.StatusNotFound, perform(root, http.MethodGet, "/items/9").Code)
	// The source still resolves its own paths.
	assert.Equal(t, http.StatusOK, perform(api, http.MethodGet, "/items/9").Code)
}

func TestNestTrimsTrailingSlashInPrefix(t *testing.T) {
	t.Parallel()
	sub := MustNew()
	sub.GET("/x", ok("x"))

	root := MustNew()
	root.Nest("/admin/", sub)

	assert.Equal(t, http.StatusOK, perform(root, http.MethodGet, "/admin/x").Code)
	assert.Equal(t, http.StatusNotFound, perform(root, http.MethodGet, "/admin//x").Code)
}

func TestNestValidation(t *testing.T) {
	t.Parallel()
	r := MustNew()
	sub := MustNew()
	assert.Panics(t, func() { r.Nest("api", sub) }, "prefix without leading slash")
	assert.Panics(t, func() { r.Nest("/api", nil) }, "nil source")
}

func TestRoutesListsRegistrations(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/a", ok(""))
	r.POST("/a", ok(""))
	r.GET("/a/:id", ok(""))

	routes := r.Routes()
	var got []string
	for _, route := range routes {
		got = append(got, route.Method+" "+route.Path)
		assert.NotNil(t, route.Handler)
	}
	assert.Equal(t, []string{"GET /a", "POST /a", "GET /a/:id"}, got)
}

func TestFreezeBlocksMutation(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/", ok("root"))

	assert.False(t, r.Frozen())
	perform(r, http.MethodGet, "/")
	assert.True(t, r.Frozen(), "first request freezes the router")

	assert.Panics(t, func() { r.GET("/late", ok("")) })
	assert.Panics(t, func() { r.Use(func(*Context) error { return nil }) })
	assert.Panics(t, func() { r.Merge(MustNew()) })
	assert.Panics(t, func() { r.Nest("/x", MustNew()) })
}

func TestFreezeIsIdempotent(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/", ok("root"))
	r.Freeze()
	r.Freeze()
	assert.True(t, r.Frozen())
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/").Code)
}

func TestLoggerFallsBackToNoop(t *testing.T) {
	t.Parallel()
	r := MustNew()
	require.NotNil(t, r.Logger())
	c := &Context{}
	require.NotNil(t, c.Logger())
}

type hijackableRecorder struct {
	*httptest.ResponseRecorder

	conn net.Conn
	rw   *bufio.ReadWriter
}

func (h *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return h.conn, h.rw, nil
}

func TestResponseWriterHijack(t *testing.T) {
	t.Parallel()

	t.Run("not supported", func(t *testing.T) {
		t.Parallel()
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}
		_, _, err := rw.Hijack()
		require.ErrorIs(t, err, ErrResponseWriterNotHijacker)
	})

	t.Run("delegates", func(t *testing.T) {
		t.Parallel()
		server, client := net.Pipe()
		defer func() {
			require.NoError(t, server.Close())
			require.NoError(t, client.Close())
		}()
		inner := &hijackableRecorder{
			ResponseRecorder: httptest.NewRecorder(),
			conn:             server,
			rw:               bufio.NewReadWriter(bufio.NewReader(server), bufio.NewWriter(server)),
		}
		rw := &responseWriter{ResponseWriter: inner}
		conn, _, err := rw.Hijack()
		require.NoError(t, err)
		assert.Equal(t, server, conn)
	})
}

func TestResponseWriterFlush(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}
	_, err := rw.Write([]byte("chunk"))
	require.NoError(t, err)
	rw.Flush()
	assert.True(t, rec.Flushed)
}

func TestResponseWriterTracksStatusAndSize(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}

	assert.Equal(t, http.StatusOK, rw.StatusCode(), "unwritten writer reports 200")
	assert.False(t, rw.Written())

	rw.WriteHeader(http.StatusTeapot)
	n, err := rw.Write([]byte("short and stout"))
	require.NoError(t, err)

	assert.True(t, rw.Written())
	assert.Equal(t, http.StatusTeapot, rw.StatusCode())
	assert.Equal(t, int64(n), rw.Size())

	// A second status line is suppressed, not sent.
	rw.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusTeapot, rw.StatusCode())
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
