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

package requestid

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treeline.dev/router"
)

func newRouter(t *testing.T, opts ...Option) *router.Router {
	t.Helper()
	r := router.MustNew()
	r.Use(New(opts...))
	r.GET("/test", func(c *router.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return r
}

func TestGeneratesUUIDv7(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	id := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestClientIDHandling(t *testing.T) {
	t.Parallel()
	const clientID = "client-provided-id-123"

	tests := []struct {
		name         string
		allowClient  bool
		expectClient bool
	}{
		{name: "client IDs accepted", allowClient: true, expectClient: true},
		{name: "client IDs replaced", allowClient: false, expectClient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newRouter(t, WithAllowClientID(tt.allowClient))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("X-Request-ID", clientID)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			id := w.Header().Get("X-Request-ID")
			require.NotEmpty(t, id)
			if tt.expectClient {
				assert.Equal(t, clientID, id)
			} else {
				assert.NotEqual(t, clientID, id)
			}
		})
	}
}

func TestCustomHeader(t *testing.T) {
	t.Parallel()
	r := newRouter(t, WithHeader("X-Correlation-ID"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
	assert.Empty(t, w.Header().Get("X-Request-ID"))
}

func TestCustomGenerator(t *testing.T) {
	t.Parallel()
	var n int
	r := newRouter(t, WithGenerator(func() string {
		n++
		return fmt.Sprintf("req-%d", n)
	}))

	for want := 1; want <= 3; want++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, fmt.Sprintf("req-%d", want), w.Header().Get("X-Request-ID"))
	}
}

func TestULIDGeneration(t *testing.T) {
	t.Parallel()
	r := newRouter(t, WithULID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	id := w.Header().Get("X-Request-ID")
	require.Len(t, id, 26)
	_, err := ulid.Parse(id)
	assert.NoError(t, err)
}

func TestIDReachableFromHandlerAndContext(t *testing.T) {
	t.Parallel()
	var fromGet, fromCtx string
	r := router.MustNew()
	r.Use(New())
	r.GET("/test", func(c *router.Context) error {
		fromGet = Get(c)
		fromCtx = FromContext(c.Request.Context())
		return c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	header := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, header)
	assert.Equal(t, header, fromGet)
	assert.Equal(t, header, fromCtx)
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	t.Parallel()
	assert.Empty(t, FromContext(context.Background()))
}

func TestPanicsOnBadConfig(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { New(WithHeader("")) })
	assert.Panics(t, func() { New(WithGenerator(nil)) })
}
