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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxArrayParams is the number of capture parameters stored in the fixed
// arrays before spilling into the overflow map.
const maxArrayParams = 8

// Context carries one request through the dispatcher: the request and
// response objects, captured path parameters, the parsed query, the matched
// route template, and the Router's logger and renderer. Contexts are pooled;
// user code must not retain one past the handler's return.
type Context struct {
	// Core request fields, accessed on every request.
	Request  *http.Request       // The HTTP request object
	Response http.ResponseWriter // The HTTP response writer (dispatcher's counting wrapper)

	paramCount int32

	// Parameter storage. Fixed arrays cover the common case; routes with
	// more than maxArrayParams captures spill into Params.
	paramKeys   [maxArrayParams]string
	paramValues [maxArrayParams]string

	// Params holds overflow parameters only. Nil unless a route binds more
	// captures than the arrays hold.
	Params map[string]string

	query    url.Values   // parsed query, attached on route match
	route    string       // matched route template, e.g. "/users/:id"
	logger   *slog.Logger // router logger, nil means no-op
	renderer Renderer     // router renderer, nil unless configured
}

// addParam binds one captured segment. Arrays first, overflow map after.
func (c *Context) addParam(key, value string) {
	if c.paramCount < maxArrayParams {
		c.paramKeys[c.paramCount] = key
		c.paramValues[c.paramCount] = value
		c.paramCount++
		return
	}
	if c.Params == nil {
		c.Params = make(map[string]string, 4)
	}
	c.Params[key] = value
}

// clearParams drops every bound capture. Used when a tree walk binds
// segments but the route ultimately misses, and during pool reset.
func (c *Context) clearParams() {
	for i := range c.paramCount {
		c.paramKeys[i] = ""
		c.paramValues[i] = ""
	}
	c.paramCount = 0
	clear(c.Params)
}

// Param returns the value of the named capture, or "" when the route bound
// no such name.
//
// Example:
//
//	r.GET("/users/:id", func(c *router.Context) error {
//	    return c.String(http.StatusOK, c.Param("id"))
//	})
func (c *Context) Param(key string) string {
	for i := range c.paramCount {
		if c.paramKeys[i] == key {
			return c.paramValues[i]
		}
	}
	return c.Params[key]
}

// setQuery parses the raw query once with standard form rules. Multi-valued
// keys are kept. A malformed query keeps its parseable pairs; the parse
// error is dropped so stray escapes in real traffic do not fail requests.
func (c *Context) setQuery(rawQuery string) {
	if rawQuery == "" {
		return
	}
	values, _ := url.ParseQuery(rawQuery)
	c.query = values
}

// Query returns the first value for the given query key, or "".
func (c *Context) Query(key string) string {
	return c.QueryAll().Get(key)
}

// QueryValues returns every value registered for the given query key.
func (c *Context) QueryValues(key string) []string {
	return c.QueryAll()[key]
}

// QueryAll returns the parsed query map. On the not-found path, where the
// dispatcher attaches no query, it parses lazily.
func (c *Context) QueryAll() url.Values {
	if c.query == nil && c.Request != nil {
		c.setQuery(c.Request.URL.RawQuery)
	}
	return c.query
}

// RoutePattern returns the matched route template ("/users/:id"), or ""
// before a match or on the not-found path.
func (c *Context) RoutePattern() string {
	return c.route
}

// Logger returns the Router's logger, or a no-op logger when none was
// configured.
func (c *Context) Logger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return noopLogger
}

// Written reports whether a status line has already gone out for this
// request.
func (c *Context) Written() bool {
	if rw, ok := c.Response.(*responseWriter); ok {
		return rw.Written()
	}
	return false
}

// writeStatus writes the status line unless one has already been written.
func (c *Context) writeStatus(code int) {
	if rw, ok := c.Response.(*responseWriter); ok {
		if !rw.Written() {
			rw.WriteHeader(code)
		}
		return
	}
	c.Response.WriteHeader(code)
}

// Status writes the status line with no body.
func (c *Context) Status(code int) {
	c.writeStatus(code)
}

// Header sets a response header, stripping CR/LF to block header injection
// through attacker-controlled values.
func (c *Context) Header(key, value string) {
	if strings.ContainsAny(value, "\r\n") {
		value = strings.ReplaceAll(value, "\r", "")
		value = strings.ReplaceAll(value, "\n", "")
	}
	c.Response.Header().Set(key, value)
}

// JSON sends a JSON response with the given status code. The value is
// encoded to a buffer first so an encoding failure surfaces before any byte
// or header is written.
//
// Example:
//
//	r.GET("/users/:id", func(c *router.Context) error {
//	    return c.JSON(http.StatusOK, user)
//	})
func (c *Context) JSON(code int, obj any) error {
	var buf bytes.Buffer
	buf.Grow(256)
	if err := json.NewEncoder(&buf).Encode(obj); err != nil {
		return fmt.Errorf("JSON encoding failed for type %T: %w", obj, err)
	}
	c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.writeStatus(code)
	_, err := c.Response.Write(buf.Bytes())
	return err
}

// YAML sends a YAML response with the given status code. Like JSON, the
// value is marshaled before anything is written.
func (c *Context) YAML(code int, obj any) error {
	yamlBytes, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("YAML encoding failed for type %T: %w", obj, err)
	}
	c.Response.Header().Set("Content-Type", "application/x-yaml; charset=utf-8")
	c.writeStatus(code)
	_, writeErr := c.Response.Write(yamlBytes)
	return writeErr
}

// String sends a plain-text response. An already-set Content-Type is left
// alone so callers can send text with their own type.
func (c *Context) String(code int, value string) error {
	if c.Response.Header().Get("Content-Type") == "" {
		c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	c.writeStatus(code)
	if _, err := io.WriteString(c.Response, value); err != nil {
		return fmt.Errorf("writing string response: %w", err)
	}
	return nil
}

// Stringf sends a formatted plain-text response.
func (c *Context) Stringf(code int, format string, values ...any) error {
	return c.String(code, fmt.Sprintf(format, values...))
}

// HTML sends an HTML response.
func (c *Context) HTML(code int, html string) error {
	c.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.writeStatus(code)
	_, err := io.WriteString(c.Response, html)
	return err
}

// Data sends raw bytes with the given content type.
func (c *Context) Data(code int, contentType string, data []byte) error {
	c.Response.Header().Set("Content-Type", contentType)
	c.writeStatus(code)
	_, err := c.Response.Write(data)
	return err
}

// NoContent sends 204 with no body.
func (c *Context) NoContent() {
	c.writeStatus(http.StatusNoContent)
}

// Redirect sends a redirect to location. The code must be a 3xx status.
func (c *Context) Redirect(code int, location string) {
	if code < http.StatusMultipleChoices || code > http.StatusPermanentRedirect {
		panic(fmt.Sprintf("router: redirect status %d is not a 3xx code", code))
	}
	c.Header("Location", location)
	c.writeStatus(code)
}

// Render renders the named template through the Router's Renderer and sends
// it as HTML. The render is buffered, so a template failure surfaces as an
// error to the central guard before any byte reaches the client. Returns
// ErrRendererNotSet when no renderer was configured.
func (c *Context) Render(code int, name string, data any) error {
	if c.renderer == nil {
		return ErrRendererNotSet
	}
	var buf bytes.Buffer
	if err := c.renderer.Render(&buf, name, data); err != nil {
		return fmt.Errorf("rendering template %q: %w", name, err)
	}
	c.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.writeStatus(code)
	_, err := c.Response.Write(buf.Bytes())
	return err
}

// WriteErrorResponse writes a terse plain-text problem body. It is the
// write path for the body wrapper's local rejections and for fallback
// logging paths; it never overrides a response already in flight.
func (c *Context) WriteErrorResponse(status int, message string) {
	if c.Written() {
		return
	}
	if message != "" {
		c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	c.writeStatus(status)
	if message != "" {
		_, _ = io.WriteString(c.Response, message+"\n")
	}
}

// reset clears the Context for reuse from the pool.
func (c *Context) reset() {
	c.Request = nil
	c.Response = nil
	c.clearParams()
	c.query = nil
	c.route = ""
	c.logger = nil
	c.renderer = nil
}
