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

// Package accesslog emits one structured log record per request through the
// router's observability hooks.
//
// Each record carries the method, path, matched route pattern, status,
// duration, and bytes written, plus the request ID and trace ID when the
// request has them. The log level follows the outcome: 5xx responses log at
// ERROR, 4xx and slow requests at WARN, everything else at INFO.
//
// Basic usage:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	r := router.MustNew(
//	    router.WithObservability(accesslog.New(
//	        accesslog.WithLogger(logger),
//	        accesslog.WithExcludePaths("/healthz"),
//	    )),
//	)
//
// In quiet deployments, WithErrorsOnly suppresses routine traffic and keeps
// only error and slow-request records.
package accesslog

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"treeline.dev/router"
	"treeline.dev/router/internal/pathfilter"
	"treeline.dev/router/middleware/requestid"
)

// requestIDHeader is the fallback source for the request ID when the
// requestid middleware is not installed but an upstream proxy set one.
const requestIDHeader = "X-Request-ID"

var _ router.ObservabilityRecorder = (*Recorder)(nil)

// Recorder logs one record per request. It is safe for concurrent use; all
// fields are read-only after New returns.
type Recorder struct {
	logger        *slog.Logger
	exclude       *pathfilter.Filter
	slowThreshold time.Duration
	errorsOnly    bool
}

// New returns a Recorder that writes to slog.Default unless WithLogger
// overrides it. Construction cannot fail; every option has a safe zero
// behavior.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		logger:  slog.Default(),
		exclude: pathfilter.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type requestState struct {
	start time.Time
	req   *http.Request
}

// OnRequestStart captures the request and the wall clock. Excluded paths
// return nil state, which drops the request from the log entirely.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	if r.exclude.Excludes(req.URL.Path) {
		return ctx, nil
	}
	return ctx, &requestState{start: time.Now(), req: req}
}

// WrapResponseWriter returns w unchanged; the dispatcher's writer already
// counts the status and bytes this recorder logs.
func (r *Recorder) WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter {
	return w
}

// OnRequestEnd emits the access record. The ctx is the request context as
// middleware left it, so IDs and spans installed during the request are
// visible here.
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string) {
	s, ok := state.(*requestState)
	if !ok {
		return
	}

	duration := time.Since(s.start)

	var status int
	var size int64
	if info, ok := writer.(router.ResponseInfo); ok {
		status = info.StatusCode()
		size = info.Size()
	}

	slow := r.slowThreshold > 0 && duration >= r.slowThreshold
	if r.errorsOnly && status < 400 && !slow {
		return
	}

	fields := []any{
		"method", s.req.Method,
		"path", s.req.URL.Path,
		"route", routePattern,
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"bytes_sent", size,
		"user_agent", s.req.UserAgent(),
		"remote_addr", s.req.RemoteAddr,
		"host", s.req.Host,
		"proto", s.req.Proto,
	}

	if id := r.requestID(ctx, s.req); id != "" {
		fields = append(fields, "request_id", id)
	}
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		fields = append(fields, "trace_id", span.SpanContext().TraceID().String())
	}
	if slow {
		fields = append(fields, "slow", true)
	}

	switch {
	case status >= 500:
		r.logger.ErrorContext(ctx, "access", fields...)
	case status >= 400:
		r.logger.WarnContext(ctx, "access", fields...)
	case slow:
		r.logger.WarnContext(ctx, "access", fields...)
	default:
		r.logger.InfoContext(ctx, "access", fields...)
	}
}

// requestID prefers the ID the requestid middleware stored in the context,
// which follows whatever header that middleware was configured with, and
// falls back to the standard inbound header.
func (r *Recorder) requestID(ctx context.Context, req *http.Request) string {
	if id := requestid.FromContext(ctx); id != "" {
		return id
	}
	return req.Header.Get(requestIDHeader)
}
