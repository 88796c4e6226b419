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
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"treeline.dev/router/binding"
)

// DefaultMaxBodyBytes is the body cap applied to payload routes that do not
// override it with WithMaxBody.
const DefaultMaxBodyBytes int64 = 1 << 20

// Response bodies for the wrapper's local rejections.
const (
	unsupportedMediaTypeBody = "Unsupported Media Type"
	payloadTooLargeBody      = "Request Body Too Large"
	malformedPayloadBody     = "Malformed Request Body"
)

// bindConfig holds the per-registration settings of a body wrapper.
type bindConfig struct {
	maxBody int64
}

// BindOption configures one Body or JSON wrapper at registration time.
type BindOption func(*bindConfig)

// WithMaxBody overrides the body cap for one payload registration. Panics if
// n is not positive; a non-positive cap is a programming error.
//
// Example:
//
//	router.PostJSON(r, "/avatars", saveAvatar, router.WithMaxBody(8<<20))
func WithMaxBody(n int64) BindOption {
	if n <= 0 {
		panic(fmt.Sprintf("router: WithMaxBody(%d): cap must be positive", n))
	}
	return func(cfg *bindConfig) {
		cfg.maxBody = n
	}
}

// Body wraps a typed handler with the payload discipline for an arbitrary
// codec: content-type enforcement, body size caps, and decoding, all handled
// inside the wrapper. Rejections (415, 413, 400) are written locally and
// never reach the Router's error handler; only errors returned by the typed
// handler itself propagate there. A body that overflows the cap mid-stream
// aborts the connection via http.ErrAbortHandler without a response.
//
// Body is package-level because Go methods cannot introduce type parameters.
//
// Example:
//
//	r.POST("/users", router.Body(binding.MsgPack(), func(c *router.Context, u User) error {
//	    return c.JSON(http.StatusCreated, u)
//	}))
func Body[T any](codec binding.Codec, handler func(*Context, T) error, opts ...BindOption) HandlerFunc {
	if codec == nil {
		panic("router: Body with nil codec")
	}
	if handler == nil {
		panic("router: Body with nil handler")
	}
	cfg := bindConfig{maxBody: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return func(c *Context) error {
		value, err := bindBody[T](c, codec, cfg.maxBody)
		if err != nil {
			writeBindRejection(c, err)
			return nil
		}
		return handler(c, value)
	}
}

// JSON is Body with the JSON codec. It is the common case for API routes.
//
// Example:
//
//	r.POST("/users", router.JSON(func(c *router.Context, u User) error {
//	    return c.JSON(http.StatusCreated, u)
//	}))
func JSON[T any](handler func(*Context, T) error, opts ...BindOption) HandlerFunc {
	return Body[T](binding.JSON(), handler, opts...)
}

// PostJSON registers a JSON-bound handler for POST requests at path.
//
// Example:
//
//	router.PostJSON(r, "/users", func(c *router.Context, u User) error {
//	    return c.JSON(http.StatusCreated, u)
//	})
func PostJSON[T any](r *Router, path string, handler func(*Context, T) error, opts ...BindOption) {
	r.POST(path, JSON[T](handler, opts...))
}

// PutJSON registers a JSON-bound handler for PUT requests at path.
func PutJSON[T any](r *Router, path string, handler func(*Context, T) error, opts ...BindOption) {
	r.PUT(path, JSON[T](handler, opts...))
}

// PatchJSON registers a JSON-bound handler for PATCH requests at path.
func PatchJSON[T any](r *Router, path string, handler func(*Context, T) error, opts ...BindOption) {
	r.PATCH(path, JSON[T](handler, opts...))
}

// bindBody enforces the payload discipline and decodes the body into T.
// Failures are reported against the wrapper's sentinel taxonomy
// (ErrUnsupportedMediaType, ErrBodyTooLarge, ErrMalformedBody) for the
// rejection writer to map onto status codes. An observed overflow or a read
// failure panics http.ErrAbortHandler: the connection is unusable and the
// dispatcher re-raises the panic so net/http tears it down.
func bindBody[T any](c *Context, codec binding.Codec, maxBody int64) (T, error) {
	var zero T
	mediaType := codec.MediaType()
	contentType := c.Request.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, mediaType) {
		return zero, fmt.Errorf("%w: got %q, want %q", ErrUnsupportedMediaType, contentType, mediaType)
	}
	if c.Request.ContentLength > maxBody {
		return zero, fmt.Errorf("%w: declared %d bytes, cap %d", ErrBodyTooLarge, c.Request.ContentLength, maxBody)
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody+1))
	if err != nil {
		c.Logger().Debug("request body read failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
		panic(http.ErrAbortHandler)
	}
	if int64(len(data)) > maxBody {
		c.Logger().Warn("request body exceeded cap mid-stream, closing connection",
			"method", c.Request.Method, "path", c.Request.URL.Path, "cap", maxBody)
		panic(http.ErrAbortHandler)
	}
	value, err := binding.Decode[T](codec, data)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return value, nil
}

// writeBindRejection maps a bind failure onto its status code and writes the
// terse plain-text rejection. These responses are local to the wrapper: the
// Router's error handler never sees them.
func writeBindRejection(c *Context, err error) {
	var status int
	var body string
	switch {
	case errors.Is(err, ErrUnsupportedMediaType):
		status, body = http.StatusUnsupportedMediaType, unsupportedMediaTypeBody
	case errors.Is(err, ErrBodyTooLarge):
		status, body = http.StatusRequestEntityTooLarge, payloadTooLargeBody
	default:
		status, body = http.StatusBadRequest, malformedPayloadBody
	}
	c.Logger().Debug("request body rejected",
		"method", c.Request.Method, "path", c.Request.URL.Path, "status", status, "err", err)
	c.WriteErrorResponse(status, body)
}
